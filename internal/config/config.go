// =============================================================================
// Herbarium Atlas - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration.
//
// CONFIGURATION SOURCES (highest to lowest priority):
//   1. CLI flags (bound by the cmd package)
//   2. Environment variables (HERBARIUM_*, "." replaced by "_")
//   3. Config file (herbarium.yaml in the working directory, or --config)
//   4. Defaults (Default)
//
// A .env file in the working directory is loaded into the environment before
// any of these are read.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/herbarium-atlas/internal/atlas"
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/sheet"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "HERBARIUM"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// REFERENCE DATA
	// =========================================================================

	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`

	// =========================================================================
	// INPUT AND OUTPUT FORMATS
	// =========================================================================

	Survey SurveyConfig `yaml:"survey" mapstructure:"survey"`
	Atlas  AtlasConfig  `yaml:"atlas" mapstructure:"atlas"`

	// =========================================================================
	// DIRECTORY SETTINGS (batch mode)
	// =========================================================================

	// InputDir is scanned for survey files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives the generated atlas files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// InputArchiveDir receives survey files after a successful conversion.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" mapstructure:"input_archive_dir"`

	// OutputArchiveDir receives a copy of each generated atlas file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" mapstructure:"output_archive_dir"`

	// OutputNameFormat names batch output files.
	// Placeholders:
	//   {original}  - survey file name without extension
	//   {date}      - current date (YYYYMMDD)
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	// Default: "{original}_atlas.csv"
	OutputNameFormat string `yaml:"output_name_format" mapstructure:"output_name_format"`

	// ArchiveOnSuccess moves converted surveys to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess bool `yaml:"archive_on_success" mapstructure:"archive_on_success"`

	// ParquetExport writes a .parquet file next to each atlas CSV.
	// Default: false
	ParquetExport bool `yaml:"parquet_export" mapstructure:"parquet_export"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// ReferenceConfig locates the reference lists.
type ReferenceConfig struct {
	// TaxaFile holds group headings and tab-separated family, genus and
	// species lines.
	TaxaFile string `yaml:"taxa_file" mapstructure:"taxa_file"`

	// ObserversFile holds one observer name per line.
	ObserversFile string `yaml:"observers_file" mapstructure:"observers_file"`

	// LocationsFile holds one location name per line.
	LocationsFile string `yaml:"locations_file" mapstructure:"locations_file"`

	// CacheTTL is how long a loaded catalog is reused. 0 keeps it for the
	// life of the process.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// SurveyConfig controls how survey files are read.
type SurveyConfig struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`

	// CSVEncoding is the character encoding of CSV surveys.
	CSVEncoding string `yaml:"csv_encoding" mapstructure:"csv_encoding"`
}

// AtlasConfig controls the generated atlas file.
type AtlasConfig struct {
	// TemplateFile is the empty atlas datasheet written before the rows.
	// Empty means rows only.
	TemplateFile string `yaml:"template_file" mapstructure:"template_file"`

	Layout atlas.Layout `yaml:"layout" mapstructure:"layout"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *MainConfig {
	return &MainConfig{
		Reference: ReferenceConfig{
			TaxaFile:      "./reference/taxa.txt",
			ObserversFile: "./reference/observers.txt",
			LocationsFile: "./reference/locations.txt",
			CacheTTL:      0,
		},
		Survey: SurveyConfig{
			CSVEncoding: "UTF-8",
		},
		Atlas: AtlasConfig{
			TemplateFile: "",
			Layout:       atlas.DefaultLayout(),
		},
		InputDir:         "./input",
		OutputDir:        "./output",
		InputArchiveDir:  "./input_archive",
		OutputArchiveDir: "./output_archive",
		OutputNameFormat: "{original}_atlas.csv",
		ArchiveOnSuccess: true,
		ParquetExport:    false,
		LogLevel:         "info",
	}
}

// SetDefaults registers every key of Default with v. Registering each key
// is what lets AutomaticEnv resolve nested keys such as
// HERBARIUM_REFERENCE_TAXA_FILE.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("reference.taxa_file", d.Reference.TaxaFile)
	v.SetDefault("reference.observers_file", d.Reference.ObserversFile)
	v.SetDefault("reference.locations_file", d.Reference.LocationsFile)
	v.SetDefault("reference.cache_ttl", d.Reference.CacheTTL)

	v.SetDefault("survey.sheet", d.Survey.Sheet)
	v.SetDefault("survey.csv_encoding", d.Survey.CSVEncoding)

	v.SetDefault("atlas.template_file", d.Atlas.TemplateFile)
	v.SetDefault("atlas.layout.width", d.Atlas.Layout.Width)
	v.SetDefault("atlas.layout.sequence", d.Atlas.Layout.Sequence)
	v.SetDefault("atlas.layout.binomial", d.Atlas.Layout.Binomial)
	v.SetDefault("atlas.layout.sighting_date", d.Atlas.Layout.SightingDate)
	v.SetDefault("atlas.layout.location", d.Atlas.Layout.Location)
	v.SetDefault("atlas.layout.observer", d.Atlas.Layout.Observer)

	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("input_archive_dir", d.InputArchiveDir)
	v.SetDefault("output_archive_dir", d.OutputArchiveDir)
	v.SetDefault("output_name_format", d.OutputNameFormat)
	v.SetDefault("archive_on_success", d.ArchiveOnSuccess)
	v.SetDefault("parquet_export", d.ParquetExport)
	v.SetDefault("log_level", d.LogLevel)
}

// =============================================================================
// LOADING
// =============================================================================

// NewViper returns a viper instance with defaults and environment overrides
// registered. If configFile is set it must exist; otherwise herbarium.yaml is
// looked up in the working directory and is optional.
//
// RETURNS:
//   - The configured viper instance, with the config file already read.
//   - An error if an explicit config file cannot be read or parsed.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("herbarium")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*MainConfig, error) {
	var cfg MainConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFile is NewViper followed by Load.
func LoadFile(configFile string) (*MainConfig, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks values that would otherwise fail deep inside a run.
// Directories are not created here; the batch command creates them.
func (c *MainConfig) Validate() error {
	if err := c.Atlas.Layout.Validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", c.LogLevel)
	}

	if !knownEncoding(c.Survey.CSVEncoding) {
		return fmt.Errorf("unknown survey.csv_encoding %q (want one of %s)",
			c.Survey.CSVEncoding, strings.Join(sheet.SupportedEncodings(), ", "))
	}

	if c.Reference.CacheTTL < 0 {
		return fmt.Errorf("reference.cache_ttl must not be negative")
	}

	if c.OutputNameFormat == "" {
		return fmt.Errorf("output_name_format must not be empty")
	}
	return nil
}

func knownEncoding(name string) bool {
	if name == "" {
		return true
	}
	for _, known := range sheet.SupportedEncodings() {
		if strings.EqualFold(name, known) {
			return true
		}
	}
	return false
}

// =============================================================================
// RENDERING
// =============================================================================

// Marshal renders cfg as YAML.
func Marshal(cfg *MainConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file is
// never overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := Marshal(Default())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	header := "# Herbarium Atlas configuration\n" +
		"#\n" +
		"# Priority (highest first): CLI flags, HERBARIUM_* environment variables,\n" +
		"# this file, built-in defaults.\n\n"

	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ReferencePaths returns the configured reference files.
func (c *MainConfig) ReferencePaths() reference.Paths {
	return reference.Paths{
		TaxaFile:      c.Reference.TaxaFile,
		ObserversFile: c.Reference.ObserversFile,
		LocationsFile: c.Reference.LocationsFile,
	}
}
