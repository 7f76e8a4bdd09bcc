package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name of the configuration file
	// (without extension).
	ConfigFileName = "spinescan"

	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. SPINESCAN_DETECTION_SCORE_THRESHOLD.
	EnvPrefix = "SPINESCAN"
)

// Loader reads configuration from files and environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader with the standard search
// paths and environment bindings set up.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")

	addConfigPaths(v)
	setupEnvironment(v)
	setDefaults(v)

	return &Loader{v: v}
}

// Load reads configuration from the search paths and the environment
// and validates the result. A missing configuration file is not an
// error; defaults and environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile reads configuration from an explicit file path.
func (l *Loader) LoadWithFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.unmarshal()
}

// Viper exposes the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// addConfigPaths registers the configuration search paths in
// precedence order.
func addConfigPaths(v *viper.Viper) {
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "spinescan"))
		v.AddConfigPath(home)
	}
	v.AddConfigPath("/etc/spinescan")
}

// setupEnvironment enables SPINESCAN_* environment overrides with dots
// and dashes mapped to underscores.
func setupEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// setDefaults seeds viper with the values from DefaultConfig so that
// partially specified files still yield a complete configuration.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("workers", def.Workers)

	v.SetDefault("detection.score_threshold", def.Detection.ScoreThreshold)
	v.SetDefault("detection.nms_iou", def.Detection.NMSIoU)
	v.SetDefault("detection.dilation_kernel", def.Detection.DilationKernel)

	v.SetDefault("layout.row_tolerance", def.Layout.RowTolerance)
	v.SetDefault("layout.height_scale", def.Layout.HeightScale)
	v.SetDefault("layout.jump_ratio", def.Layout.JumpRatio)
	v.SetDefault("layout.jump_scale", def.Layout.JumpScale)
	v.SetDefault("layout.min_gap_threshold", def.Layout.MinGapThreshold)
	v.SetDefault("layout.max_gap_threshold", def.Layout.MaxGapThreshold)
	v.SetDefault("layout.min_gap_with_jump", def.Layout.MinGapWithJump)
	v.SetDefault("layout.boundary_merge_tol", def.Layout.BoundaryMergeTol)

	v.SetDefault("ocr.language", def.OCR.Language)

	v.SetDefault("text.languages", def.Text.Languages)
	v.SetDefault("text.dict_dir", def.Text.DictDir)
	v.SetDefault("text.title_list_path", def.Text.TitleListPath)

	v.SetDefault("catalog.enabled", def.Catalog.Enabled)
	v.SetDefault("catalog.language", def.Catalog.Language)
	v.SetDefault("catalog.timeout_sec", def.Catalog.TimeoutSec)

	v.SetDefault("store.path", def.Store.Path)

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.max_upload_mb", def.Server.MaxUploadMB)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
}

// GenerateDefaultConfigFile writes the default configuration as YAML to
// the given path, for users bootstrapping a config file.
func GenerateDefaultConfigFile(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// GetConfigSearchPaths returns the paths Load searches, for help text.
func GetConfigSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "spinescan"), home)
	}
	paths = append(paths, "/etc/spinescan")
	return paths
}
