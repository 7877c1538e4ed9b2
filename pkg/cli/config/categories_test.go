package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadCategoriesFromFile(t *testing.T) {
	path := writeConfig(t, `
categories:
  - id: engine
    name: Engine
    description: Engine and powertrain problems
  - id: tyres
    name: Tyres
`)

	cfg, err := config.LoadCategoriesFromFile(path)
	gt.NoError(t, err).Required()
	gt.A(t, cfg.Categories).Length(2)
	gt.True(t, cfg.IsValidCategoryName("Tyres"))

	t.Run("Missing file", func(t *testing.T) {
		_, err := config.LoadCategoriesFromFile(filepath.Join(t.TempDir(), "nope.yml"))
		gt.Error(t, err)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := writeConfig(t, "categories: [unbalanced")
		_, err := config.LoadCategoriesFromFile(path)
		gt.Error(t, err)
	})

	t.Run("Invalid content", func(t *testing.T) {
		path := writeConfig(t, "categories: []")
		_, err := config.LoadCategoriesFromFile(path)
		gt.Error(t, err)
	})
}

func TestCategoriesConfigure(t *testing.T) {
	t.Run("Defaults without a path", func(t *testing.T) {
		var c config.Categories
		cfg, err := c.Configure()
		gt.NoError(t, err).Required()
		gt.True(t, cfg.IsValidCategoryName("Engine"))
	})

	t.Run("Custom palette override", func(t *testing.T) {
		path := writeConfig(t, `
categories:
  - id: engine
    name: Engine
chart_palette: ["#101010", "#202020", "#303030", "#404040", "#505050", "#606060", "#707070"]
`)
		c := config.Categories{Path: path}
		cfg, err := c.Configure()
		gt.NoError(t, err).Required()
		gt.Equal(t, "#101010", cfg.Palette()[0])
	})
}
