package model

import "github.com/m-mizutani/goerr/v2"

// DefaultChartPalette is the fixed color cycle assigned to category
// breakdown entries when no palette is configured
var DefaultChartPalette = []string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#F59E0B", // amber
	"#10B981", // emerald
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#6B7280", // gray
}

// Category represents a known issue category offered to the AI classifier
type Category struct {
	ID          string `yaml:"id"`          // Unique identifier (e.g., "engine")
	Name        string `yaml:"name"`        // Display name (e.g., "Engine")
	Description string `yaml:"description"` // Description for classification help
}

// Validate validates the category
func (c *Category) Validate() error {
	if c.ID == "" {
		return goerr.New("category ID is required")
	}
	if c.Name == "" {
		return goerr.New("category name is required")
	}
	// Description is optional
	return nil
}

// CategoriesConfig represents the categories configuration
type CategoriesConfig struct {
	Categories []Category `yaml:"categories"`
	// ChartPalette optionally overrides the built-in color cycle
	ChartPalette []string `yaml:"chart_palette,omitempty"`
}

// Validate validates the categories configuration
func (c *CategoriesConfig) Validate() error {
	if len(c.Categories) == 0 {
		return goerr.New("at least one category is required")
	}

	idMap := make(map[string]bool)
	for i, cat := range c.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category at index",
				goerr.V("index", i),
				goerr.V("id", cat.ID))
		}

		if idMap[cat.ID] {
			return goerr.New("duplicate category ID",
				goerr.V("id", cat.ID))
		}
		idMap[cat.ID] = true
	}

	if len(c.ChartPalette) > 0 && len(c.ChartPalette) < 7 {
		return goerr.New("chart palette needs at least 7 colors",
			goerr.V("colors", len(c.ChartPalette)))
	}

	return nil
}

// FindCategoryByName finds a category by its display name
func (c *CategoriesConfig) FindCategoryByName(name string) *Category {
	for _, cat := range c.Categories {
		if cat.Name == name {
			result := cat
			return &result
		}
	}
	return nil
}

// IsValidCategoryName checks if the given category name exists
func (c *CategoriesConfig) IsValidCategoryName(name string) bool {
	return c.FindCategoryByName(name) != nil
}

// Palette returns the configured chart palette or the default one
func (c *CategoriesConfig) Palette() []string {
	if c != nil && len(c.ChartPalette) > 0 {
		return c.ChartPalette
	}
	return DefaultChartPalette
}

// DefaultCategoriesConfig returns the built-in category set used when no
// configuration file is given
func DefaultCategoriesConfig() *CategoriesConfig {
	return &CategoriesConfig{
		Categories: []Category{
			{ID: "engine", Name: "Engine", Description: "Engine, ignition, and powertrain problems"},
			{ID: "brakes", Name: "Brakes", Description: "Brake pads, discs, and hydraulics"},
			{ID: "electrical", Name: "Electrical", Description: "Battery, wiring, lights, and electronics"},
			{ID: "transmission", Name: "Transmission", Description: "Gearbox and clutch problems"},
			{ID: "suspension", Name: "Suspension", Description: "Shocks, struts, and steering"},
			{ID: "body", Name: "Body", Description: "Bodywork, doors, and trim"},
			{ID: "other", Name: "Other", Description: "Anything not covered by the categories above"},
		},
	}
}
