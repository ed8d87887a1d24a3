// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for rakeem-deadlines.
type Configuration struct {
	Catalog   CatalogConfig   `mapstructure:"catalog" yaml:"catalog"`
	Profile   ProfileConfig   `mapstructure:"profile" yaml:"profile"`
	Deadlines DeadlinesConfig `mapstructure:"deadlines" yaml:"deadlines"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output,omitempty"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server,omitempty"`
}

// CatalogConfig locates the obligation catalog.
type CatalogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch,omitempty"` // reload on change while serving
}

// ProfileConfig is the company fiscal profile as written in the config file.
type ProfileConfig struct {
	FiscalYearEndMonth int    `mapstructure:"fiscalYearEndMonth" yaml:"fiscalYearEndMonth"`
	FiscalYearEndDay   int    `mapstructure:"fiscalYearEndDay" yaml:"fiscalYearEndDay"`
	VATFrequency       string `mapstructure:"vatFrequency" yaml:"vatFrequency"`
	CRIssueDate        string `mapstructure:"crIssueDate" yaml:"crIssueDate,omitempty"` // YYYY-MM-DD
}

// DeadlinesConfig controls the reporting window.
type DeadlinesConfig struct {
	DaysAhead      int  `mapstructure:"daysAhead" yaml:"daysAhead"`
	ApplicableOnly bool `mapstructure:"applicableOnly" yaml:"applicableOnly,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `mapstructure:"format" yaml:"format,omitempty"`     // pretty, csv, json
	Language string `mapstructure:"language" yaml:"language,omitempty"` // en, ar
}

// ServerConfig holds HTTP API options.
type ServerConfig struct {
	Address            string `mapstructure:"address" yaml:"address,omitempty"`
	MaxRequestBodySize string `mapstructure:"maxRequestBodySize" yaml:"maxRequestBodySize,omitempty"` // e.g. 256K
}

// newViper builds a Viper instance reading YAML with RAKEEM_ environment
// overrides, so that "deadlines.daysAhead" resolves to RAKEEM_DEADLINES_DAYSAHEAD.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so that environment overrides apply even
// when the file omits the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", constants.DefaultCatalogFile)
	v.SetDefault("catalog.watch", false)
	v.SetDefault("profile.fiscalYearEndMonth", constants.DefaultFiscalYearEndMonth)
	v.SetDefault("profile.fiscalYearEndDay", constants.DefaultFiscalYearEndDay)
	v.SetDefault("profile.vatFrequency", "quarterly")
	v.SetDefault("profile.crIssueDate", "")
	v.SetDefault("deadlines.daysAhead", constants.DefaultDaysAhead)
	v.SetDefault("deadlines.applicableOnly", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.language", constants.LanguageEnglish)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxRequestBodySize", "256K")
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there, applying environment overrides and defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}
	return unmarshal(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}
	return unmarshal(v)
}

// LoadFromEnv builds a Configuration from defaults and RAKEEM_ environment
// variables alone.
func LoadFromEnv() (*Configuration, error) {
	return unmarshal(newViper())
}

func unmarshal(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &configuration, nil
}

// Validate returns an error for settings that cannot work.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog.path must be set")
	}
	if c.Deadlines.DaysAhead < 0 {
		return fmt.Errorf("deadlines.daysAhead must not be negative, got %d", c.Deadlines.DaysAhead)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if err := validation.ValidateLanguage(c.Output.Language); err != nil {
		return fmt.Errorf("output.language: %w", err)
	}
	if _, err := c.CompanyProfile(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for settings that work but are probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if strings.TrimSpace(c.Profile.CRIssueDate) == "" {
		warnings = append(warnings, "profile.crIssueDate is not set; commercial registration renewal will not be scheduled")
	}
	if c.Deadlines.DaysAhead == 0 {
		warnings = append(warnings, "deadlines.daysAhead is 0; only obligations due today are reported")
	}
	if c.Deadlines.DaysAhead > 366 {
		warnings = append(warnings, fmt.Sprintf("deadlines.daysAhead is %d; every obligation recurs within a year so entries past 366 days are next-cycle only", c.Deadlines.DaysAhead))
	}
	if lastDay := daysInMonth(c.Profile.FiscalYearEndMonth); lastDay > 0 && c.Profile.FiscalYearEndDay > lastDay {
		warnings = append(warnings, fmt.Sprintf("profile.fiscalYearEndDay %d exceeds the days in month %d and will be clamped",
			c.Profile.FiscalYearEndDay, c.Profile.FiscalYearEndMonth))
	}

	return warnings
}

// daysInMonth returns the longest length of month across years, or 0 for an
// invalid month.
func daysInMonth(month int) int {
	switch month {
	case 2:
		return 29
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	}
	return 0
}
