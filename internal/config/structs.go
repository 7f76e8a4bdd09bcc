// Package config holds the spinescan application configuration and its
// loader. Settings come from configuration files, environment variables
// and command-line flags, in increasing precedence.
package config

import (
	"fmt"

	"github.com/spinescan/spinescan/internal/detector"
	"github.com/spinescan/spinescan/internal/layout"
)

// Config is the complete spinescan configuration.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Detection DetectionConfig `mapstructure:"detection" yaml:"detection" json:"detection"`
	Layout    LayoutConfig    `mapstructure:"layout" yaml:"layout" json:"layout"`
	OCR       OCRConfig       `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Text      TextConfig      `mapstructure:"text" yaml:"text" json:"text"`
	Catalog   CatalogConfig   `mapstructure:"catalog" yaml:"catalog" json:"catalog"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store" json:"store"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Workers   int             `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DetectionConfig tunes the detection post-process. The defaults are the
// values the detector was tuned with; change them only per detector or
// font-size regime.
type DetectionConfig struct {
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold" json:"score_threshold"`
	NMSIoU         float64 `mapstructure:"nms_iou" yaml:"nms_iou" json:"nms_iou"`
	DilationKernel int     `mapstructure:"dilation_kernel" yaml:"dilation_kernel" json:"dilation_kernel"`
}

// LayoutConfig tunes the reading-order reconstruction.
type LayoutConfig struct {
	RowTolerance     float64 `mapstructure:"row_tolerance" yaml:"row_tolerance" json:"row_tolerance"`
	HeightScale      float64 `mapstructure:"height_scale" yaml:"height_scale" json:"height_scale"`
	JumpRatio        float64 `mapstructure:"jump_ratio" yaml:"jump_ratio" json:"jump_ratio"`
	JumpScale        float64 `mapstructure:"jump_scale" yaml:"jump_scale" json:"jump_scale"`
	MinGapThreshold  float64 `mapstructure:"min_gap_threshold" yaml:"min_gap_threshold" json:"min_gap_threshold"`
	MaxGapThreshold  float64 `mapstructure:"max_gap_threshold" yaml:"max_gap_threshold" json:"max_gap_threshold"`
	MinGapWithJump   float64 `mapstructure:"min_gap_with_jump" yaml:"min_gap_with_jump" json:"min_gap_with_jump"`
	BoundaryMergeTol float64 `mapstructure:"boundary_merge_tol" yaml:"boundary_merge_tol" json:"boundary_merge_tol"`
}

// OCRConfig contains recognition engine settings.
type OCRConfig struct {
	Language string `mapstructure:"language" yaml:"language" json:"language"`
}

// TextConfig contains text cleanup and correction settings.
type TextConfig struct {
	Languages     []string `mapstructure:"languages" yaml:"languages" json:"languages"`
	DictDir       string   `mapstructure:"dict_dir" yaml:"dict_dir" json:"dict_dir"`
	TitleListPath string   `mapstructure:"title_list_path" yaml:"title_list_path" json:"title_list_path"`
}

// CatalogConfig contains catalog lookup settings.
type CatalogConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Language   string `mapstructure:"language" yaml:"language" json:"language"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// StoreConfig contains run-tracking settings.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	det := detector.DefaultOptions()
	lay := layout.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Detection: DetectionConfig{
			ScoreThreshold: det.ScoreThreshold,
			NMSIoU:         det.Suppress.IoUThreshold,
			DilationKernel: det.Merge.KernelSize,
		},
		Layout: LayoutConfig{
			RowTolerance:     lay.RowTolerance,
			HeightScale:      lay.HeightScale,
			JumpRatio:        lay.JumpRatio,
			JumpScale:        lay.JumpScale,
			MinGapThreshold:  lay.MinThreshold,
			MaxGapThreshold:  lay.MaxThreshold,
			MinGapWithJump:   lay.MinThresholdWithJump,
			BoundaryMergeTol: lay.BoundaryMergeTol,
		},
		OCR: OCRConfig{
			Language: "deu",
		},
		Text: TextConfig{
			Languages: []string{"de", "fr"},
			DictDir:   "dictionaries",
		},
		Catalog: CatalogConfig{
			Enabled:    true,
			Language:   "de",
			TimeoutSec: 10,
		},
		Store: StoreConfig{
			Path: "spinescan.db",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			MaxUploadMB:     25,
			ShutdownTimeout: 10,
		},
		Workers: 0,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Detection.ScoreThreshold < 0 || c.Detection.ScoreThreshold > 1 {
		return fmt.Errorf("detection.score_threshold %v outside [0,1]", c.Detection.ScoreThreshold)
	}
	if c.Detection.NMSIoU < 0 || c.Detection.NMSIoU > 1 {
		return fmt.Errorf("detection.nms_iou %v outside [0,1]", c.Detection.NMSIoU)
	}
	if c.Detection.DilationKernel < 0 {
		return fmt.Errorf("detection.dilation_kernel must be non-negative, got %d", c.Detection.DilationKernel)
	}
	if c.Layout.RowTolerance < 0 {
		return fmt.Errorf("layout.row_tolerance must be non-negative, got %v", c.Layout.RowTolerance)
	}
	if c.Layout.MinGapThreshold > c.Layout.MaxGapThreshold {
		return fmt.Errorf("layout.min_gap_threshold %v exceeds layout.max_gap_threshold %v",
			c.Layout.MinGapThreshold, c.Layout.MaxGapThreshold)
	}
	if c.Layout.JumpRatio <= 0 {
		return fmt.Errorf("layout.jump_ratio must be positive, got %v", c.Layout.JumpRatio)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside [0,65535]", c.Server.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// DetectorOptions converts the detection section to detector options.
func (c *Config) DetectorOptions() detector.Options {
	return detector.Options{
		ScoreThreshold: c.Detection.ScoreThreshold,
		Suppress: detector.SuppressOptions{
			ScoreThreshold: c.Detection.ScoreThreshold,
			IoUThreshold:   c.Detection.NMSIoU,
		},
		Merge: detector.MergeOptions{
			KernelSize: c.Detection.DilationKernel,
		},
	}
}

// LayoutOptions converts the layout section to layout options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		RowTolerance:         c.Layout.RowTolerance,
		HeightScale:          c.Layout.HeightScale,
		JumpRatio:            c.Layout.JumpRatio,
		JumpScale:            c.Layout.JumpScale,
		BoundaryMergeTol:     c.Layout.BoundaryMergeTol,
		MinThreshold:         c.Layout.MinGapThreshold,
		MaxThreshold:         c.Layout.MaxGapThreshold,
		MinThresholdWithJump: c.Layout.MinGapWithJump,
	}
}
