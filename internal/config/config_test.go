package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/herbarium-atlas/internal/atlas"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herbarium.yaml")
	content := `
reference:
  taxa_file: /data/taxa.csv
  cache_ttl: 10m
atlas:
  template_file: /data/template.xlsx
  layout:
    width: 43
    location: 21
    observer: 29
log_level: debug
parquet_export: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/taxa.csv", cfg.Reference.TaxaFile)
	assert.Equal(t, "./reference/observers.txt", cfg.Reference.ObserversFile)
	assert.Equal(t, 10*time.Minute, cfg.Reference.CacheTTL)
	assert.Equal(t, "/data/template.xlsx", cfg.Atlas.TemplateFile)
	assert.Equal(t, atlas.Layout{Width: 43, Sequence: 0, Binomial: 4, SightingDate: 5, Location: 21, Observer: 29}, cfg.Atlas.Layout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ParquetExport)
	assert.True(t, cfg.ArchiveOnSuccess)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herbarium.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: /from/file\n"), 0644))

	t.Setenv("HERBARIUM_OUTPUT_DIR", "/from/env")
	t.Setenv("HERBARIUM_REFERENCE_LOCATIONS_FILE", "/env/locations.txt")
	t.Setenv("HERBARIUM_ATLAS_LAYOUT_OBSERVER", "30")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.OutputDir)
	assert.Equal(t, "/env/locations.txt", cfg.Reference.LocationsFile)
	assert.Equal(t, 30, cfg.Atlas.Layout.Observer)
}

func TestLoadFile_MissingExplicitFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*MainConfig)
	}{
		{name: "bad log level", modify: func(c *MainConfig) { c.LogLevel = "loud" }},
		{name: "bad encoding", modify: func(c *MainConfig) { c.Survey.CSVEncoding = "ebcdic" }},
		{name: "layout overlap", modify: func(c *MainConfig) { c.Atlas.Layout.Observer = c.Atlas.Layout.Sequence }},
		{name: "negative ttl", modify: func(c *MainConfig) { c.Reference.CacheTTL = -time.Second }},
		{name: "empty output name", modify: func(c *MainConfig) { c.OutputNameFormat = "" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "herbarium.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded MainConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	if diff := cmp.Diff(*Default(), decoded); diff != "" {
		t.Errorf("written config mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, WriteDefault(path), "existing file must not be overwritten")
}

func TestReferencePaths(t *testing.T) {
	paths := Default().ReferencePaths()
	assert.Equal(t, "./reference/taxa.txt", paths.TaxaFile)
	assert.Equal(t, "./reference/observers.txt", paths.ObserversFile)
	assert.Equal(t, "./reference/locations.txt", paths.LocationsFile)
}
