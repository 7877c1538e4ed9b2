package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Categories holds issue category configuration
type Categories struct {
	Path string
}

// Flags returns CLI flags for Categories configuration
func (c *Categories) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "categories",
			Usage:       "Path to category definition YAML (uses built-in categories if not set)",
			Category:    "Categories",
			Sources:     cli.EnvVars("MOTORQ_CATEGORIES"),
			Destination: &c.Path,
		},
	}
}

// Configure loads the category set, falling back to the built-in defaults
// when no file is given
func (c *Categories) Configure() (*model.CategoriesConfig, error) {
	if c.Path == "" {
		return model.DefaultCategoriesConfig(), nil
	}
	return LoadCategoriesFromFile(c.Path)
}

// LogValue returns structured log value
func (c Categories) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", c.Path),
	)
}

// LoadCategoriesFromFile loads categories from a YAML file
func LoadCategoriesFromFile(path string) (*model.CategoriesConfig, error) {
	if path == "" {
		return nil, goerr.New("configuration file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	var config model.CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return &config, nil
}
