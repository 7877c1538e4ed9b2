package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/domain/model"
)

func TestDefaultCategoriesConfig(t *testing.T) {
	cfg := model.DefaultCategoriesConfig()
	gt.NoError(t, cfg.Validate())
	gt.True(t, cfg.IsValidCategoryName("Engine"))
	gt.True(t, cfg.IsValidCategoryName(model.DefaultCategory))
	gt.False(t, cfg.IsValidCategoryName("Warp Drive"))

	cat := cfg.FindCategoryByName("Brakes")
	gt.NotNil(t, cat)
	gt.Equal(t, "brakes", cat.ID)
}

func TestCategoriesConfigValidate(t *testing.T) {
	t.Run("Empty set is rejected", func(t *testing.T) {
		cfg := &model.CategoriesConfig{}
		gt.Error(t, cfg.Validate())
	})

	t.Run("Duplicate IDs are rejected", func(t *testing.T) {
		cfg := &model.CategoriesConfig{
			Categories: []model.Category{
				{ID: "engine", Name: "Engine"},
				{ID: "engine", Name: "Engine Again"},
			},
		}
		gt.Error(t, cfg.Validate())
	})

	t.Run("Category without name is rejected", func(t *testing.T) {
		cfg := &model.CategoriesConfig{
			Categories: []model.Category{{ID: "engine"}},
		}
		gt.Error(t, cfg.Validate())
	})

	t.Run("Short palette override is rejected", func(t *testing.T) {
		cfg := model.DefaultCategoriesConfig()
		cfg.ChartPalette = []string{"#111111", "#222222"}
		gt.Error(t, cfg.Validate())
	})
}

func TestPalette(t *testing.T) {
	cfg := model.DefaultCategoriesConfig()
	gt.Equal(t, model.DefaultChartPalette, cfg.Palette())

	custom := []string{"#1", "#2", "#3", "#4", "#5", "#6", "#7"}
	cfg.ChartPalette = custom
	gt.NoError(t, cfg.Validate())
	gt.Equal(t, custom, cfg.Palette())
}

func TestSeverity(t *testing.T) {
	gt.Equal(t, "High", model.SeverityHigh.Label())
	gt.True(t, model.SeverityHigh.Rank() > model.SeverityMedium.Rank())
	gt.True(t, model.SeverityMedium.Rank() > model.SeverityLow.Rank())

	s, err := model.ParseSeverity(" HIGH ")
	gt.NoError(t, err)
	gt.Equal(t, model.SeverityHigh, s)

	_, err = model.ParseSeverity("critical")
	gt.Error(t, err)
}

func TestStatus(t *testing.T) {
	s, err := model.ParseStatus("Resolved")
	gt.NoError(t, err)
	gt.Equal(t, model.StatusResolved, s)

	_, err = model.ParseStatus("closed")
	gt.Error(t, err)
	gt.False(t, model.Status("closed").IsValid())
}
