// Package config provides configuration management for the kennel registry.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
)

// Config holds the complete application configuration.
type Config struct {
	Kennel   KennelConfig   `toml:"kennel"`
	Analysis AnalysisConfig `toml:"analysis"`
	Display  DisplayConfig  `toml:"display"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
}

// KennelConfig identifies the kennel that owns the registry.
type KennelConfig struct {
	Name           string `toml:"name"`
	RegistryPrefix string `toml:"registry_prefix"`
}

// AnalysisConfig controls pedigree analysis and mating evaluation.
type AnalysisConfig struct {
	DefaultGenerations  int               `toml:"default_generations"`
	MaxGenerations      int               `toml:"max_generations"`
	CoiSensitivity      float64           `toml:"coi_sensitivity"`
	BatchConcurrency    int               `toml:"batch_concurrency"`
	CommonAncestorAlert int               `toml:"common_ancestor_alert"`
	FetchTimeoutSeconds int               `toml:"fetch_timeout_seconds"`
	Thresholds          ThresholdConfig   `toml:"thresholds"`
	Conditions          []ConditionConfig `toml:"conditions"`
}

// ThresholdConfig holds the upper COI bounds of the low, moderate and high
// risk levels.
type ThresholdConfig struct {
	Low      float64 `toml:"low"`
	Moderate float64 `toml:"moderate"`
	High     float64 `toml:"high"`
}

// ConditionConfig associates a breed with a heritable condition.
type ConditionConfig struct {
	Breed     string  `toml:"breed"`
	Condition string  `toml:"condition"`
	Test      string  `toml:"test"`
	Weight    float64 `toml:"weight"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	DateFormat  string      `toml:"date_format"`
	PageSize    int         `toml:"page_size"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeClassic ColorScheme = "classic"
	ColorSchemeHeather ColorScheme = "heather"
	ColorSchemeMono    ColorScheme = "mono"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls SQLite database settings.
type DatabaseConfig struct {
	Path                string `toml:"path"`
	BackupRetentionDays int    `toml:"backup_retention_days"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Kennel.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kennel: %w", err))
	}

	if err := c.Analysis.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("analysis: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks that the kennel configuration is valid.
func (k *KennelConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(k.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if len(k.RegistryPrefix) > 8 {
		errs = append(errs, errors.New("registry_prefix must be at most 8 characters"))
	}

	return errors.Join(errs...)
}

// Validate checks that the analysis configuration is valid.
func (a *AnalysisConfig) Validate() error {
	var errs []error

	if a.MaxGenerations < 1 || a.MaxGenerations > lineage.MaxGenerations {
		errs = append(errs, fmt.Errorf("max_generations must be between 1 and %d", lineage.MaxGenerations))
	}

	if a.DefaultGenerations < 1 || a.DefaultGenerations > a.MaxGenerations {
		errs = append(errs, errors.New("default_generations must be between 1 and max_generations"))
	}

	if a.CoiSensitivity <= 0 {
		errs = append(errs, errors.New("coi_sensitivity must be positive"))
	}

	if a.BatchConcurrency < 1 {
		errs = append(errs, errors.New("batch_concurrency must be at least 1"))
	}

	if a.CommonAncestorAlert < 0 {
		errs = append(errs, errors.New("common_ancestor_alert must be non-negative"))
	}

	if a.FetchTimeoutSeconds < 0 {
		errs = append(errs, errors.New("fetch_timeout_seconds must be non-negative"))
	}

	t := a.Thresholds
	if t.Low <= 0 || t.Low >= t.Moderate || t.Moderate >= t.High || t.High > 1 {
		errs = append(errs, errors.New("thresholds must satisfy 0 < low < moderate < high <= 1"))
	}

	for i, c := range a.Conditions {
		if strings.TrimSpace(c.Breed) == "" || strings.TrimSpace(c.Condition) == "" {
			errs = append(errs, fmt.Errorf("conditions[%d]: breed and condition are required", i))
		}
		if c.Weight < 0 {
			errs = append(errs, fmt.Errorf("conditions[%d]: weight must be non-negative", i))
		}
	}

	return errors.Join(errs...)
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	var errs []error

	validSchemes := map[ColorScheme]bool{
		ColorSchemeClassic: true,
		ColorSchemeHeather: true,
		ColorSchemeMono:    true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		errs = append(errs, fmt.Errorf("invalid color_scheme: %s", d.ColorScheme))
	}

	if d.DateFormat != "" {
		ref := time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)
		if ref.Format(d.DateFormat) == d.DateFormat {
			errs = append(errs, fmt.Errorf("date_format %q contains no date fields", d.DateFormat))
		}
	}

	if d.PageSize < 0 {
		errs = append(errs, errors.New("page_size must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.BackupRetentionDays < 0 {
		errs = append(errs, errors.New("backup_retention_days must be non-negative"))
	}

	return errors.Join(errs...)
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Kennel: KennelConfig{
			Name:           "Kennelworks",
			RegistryPrefix: "KW",
		},
		Analysis: AnalysisConfig{
			DefaultGenerations:  lineage.DefaultGenerations,
			MaxGenerations:      lineage.MaxGenerations,
			CoiSensitivity:      8,
			BatchConcurrency:    4,
			CommonAncestorAlert: 3,
			FetchTimeoutSeconds: 10,
			Thresholds: ThresholdConfig{
				Low:      0.015625,
				Moderate: 0.0625,
				High:     0.125,
			},
			Conditions: []ConditionConfig{
				{Breed: "Border Collie", Condition: "Collie eye anomaly", Test: "CEA DNA test", Weight: 0.15},
				{Breed: "Labrador Retriever", Condition: "Progressive retinal atrophy", Test: "prcd-PRA DNA test", Weight: 0.15},
				{Breed: "German Shepherd", Condition: "Degenerative myelopathy", Test: "SOD1 DNA test", Weight: 0.2},
				{Breed: "Cavalier King Charles Spaniel", Condition: "Mitral valve disease", Test: "cardiac auscultation", Weight: 0.25},
			},
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeClassic,
			DateFormat:  "2006-01-02",
			PageSize:    50,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/pedigree.log",
		},
		Database: DatabaseConfig{
			Path:                "kennel.db",
			BackupRetentionDays: 30,
		},
	}
}

// Policy converts the analysis settings into a lineage scoring policy.
func (a *AnalysisConfig) Policy() lineage.Policy {
	conditions := make([]lineage.ConditionAssociation, len(a.Conditions))
	for i, c := range a.Conditions {
		conditions[i] = lineage.ConditionAssociation{
			Breed:     c.Breed,
			Condition: c.Condition,
			Test:      c.Test,
			Weight:    c.Weight,
		}
	}

	return lineage.Policy{
		Thresholds: lineage.Thresholds{
			Low:      a.Thresholds.Low,
			Moderate: a.Thresholds.Moderate,
			High:     a.Thresholds.High,
		},
		CoiSensitivity:      a.CoiSensitivity,
		CommonAncestorAlert: a.CommonAncestorAlert,
		Conditions:          conditions,
	}
}

// FetchTimeout returns the per-analysis pedigree fetch timeout, or zero for none.
func (a *AnalysisConfig) FetchTimeout() time.Duration {
	return time.Duration(a.FetchTimeoutSeconds) * time.Second
}
