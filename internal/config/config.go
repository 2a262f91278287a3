package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig
const EnvPrefix = "FILEMONITOR"

// ErrInvalidTime is returned for begin/end values that match no accepted layout
var ErrInvalidTime = errors.New("invalid date/time")

// timeLayouts are tried in order by ParseTime
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Config represents the scan configuration
type Config struct {
	// Scan settings
	Root    string   `mapstructure:"root" yaml:"root" validate:"required"`                // directory to scan
	Begin   string   `mapstructure:"begin" yaml:"begin" validate:"required,datetime_any"` // inclusive lower bound
	End     string   `mapstructure:"end" yaml:"end" validate:"required,datetime_any"`     // inclusive upper bound
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`                              // directory names to skip

	// Report settings
	Output  string `mapstructure:"output" yaml:"output"`   // spreadsheet path, timestamped default if empty
	Summary bool   `mapstructure:"summary" yaml:"summary"` // print per-folder counts
}

// LoadConfig loads configuration from defaults, an optional config file and
// FILEMONITOR_* environment variables
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("root", "")
	v.SetDefault("begin", "")
	v.SetDefault("end", "")
	v.SetDefault("exclude", []string{})
	v.SetDefault("output", "")
	v.SetDefault("summary", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and date formats
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("datetime_any", func(fl validator.FieldLevel) bool {
		_, err := ParseTime(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	return nil
}

// BeginTime returns the parsed lower bound
func (c *Config) BeginTime() (time.Time, error) {
	return ParseTime(c.Begin)
}

// EndTime returns the parsed upper bound
func (c *Config) EndTime() (time.Time, error) {
	return ParseTime(c.End)
}

// ParseTime parses s in local time. A date without a clock part means midnight.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)", ErrInvalidTime, s)
}

// fieldMessage renders one validation failure
func fieldMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "datetime_any":
		return fmt.Sprintf("%s %q is not a valid date/time", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
