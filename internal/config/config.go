package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/plot"
)

// Global configuration structure.
type Global struct {
	DefaultMetrics []string `mapstructure:"default_metrics" yaml:"default_metrics" validate:"min=1,dive,metric"`
	// Separators are single characters; "tab" is accepted for the delimiter.
	// Empty means auto.
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,separator"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator" validate:"omitempty,separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator" validate:"omitempty,separator"`
	PadShortRows       bool   `mapstructure:"pad_short_rows" yaml:"pad_short_rows"`

	PlotWidth     int    `mapstructure:"plot_width" yaml:"plot_width" validate:"min=100,max=10000"`
	PlotHeight    int    `mapstructure:"plot_height" yaml:"plot_height" validate:"min=100,max=10000"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"min=1,max=1000"`
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Global {
	return &Global{
		DefaultMetrics: []string{"mean", "min", "max"},
		PlotWidth:      800,
		PlotHeight:     500,
		HistogramBins:  30,
		OutputDir:      ".",
		LogLevel:       "warn",
		LogFormat:      "text",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".physan"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.physan/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is applied to the environment first without overriding it.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PHYSAN")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("default_metrics", d.DefaultMetrics)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("pad_short_rows", false)
	v.SetDefault("plot_width", d.PlotWidth)
	v.SetDefault("plot_height", d.PlotHeight)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		_, err := analysis.ParseMetric(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("separator", func(fl validator.FieldLevel) bool {
		_, err := parseSeparator(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func parseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("separator %q is not allowed", s)
	}
	return r, nil
}

// LoaderOptions converts the loader-related keys to dataset options.
func (c *Global) LoaderOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	var err error
	if opt.Delimiter, err = parseSeparator(c.Delimiter); err != nil {
		return opt, fmt.Errorf("delimiter: %w", err)
	}
	if opt.DecimalSeparator, err = parseSeparator(c.DecimalSeparator); err != nil {
		return opt, fmt.Errorf("decimal_separator: %w", err)
	}
	if opt.ThousandsSeparator, err = parseSeparator(c.ThousandsSeparator); err != nil {
		return opt, fmt.Errorf("thousands_separator: %w", err)
	}
	opt.PadShortRows = c.PadShortRows
	return opt, nil
}

// Metrics resolves DefaultMetrics.
func (c *Global) Metrics() ([]analysis.Metric, error) {
	return analysis.ParseMetrics(c.DefaultMetrics)
}

// PlotOptions returns the image size and bin settings.
func (c *Global) PlotOptions() plot.Options {
	return plot.Options{Width: c.PlotWidth, Height: c.PlotHeight, Bins: c.HistogramBins}
}

// Set assigns one key from its string form and validates the result.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "default_metrics":
		ms, err := analysis.ParseMetrics([]string{val})
		if err != nil {
			return err
		}
		next.DefaultMetrics = make([]string, len(ms))
		for i, m := range ms {
			next.DefaultMetrics[i] = string(m)
		}
	case "delimiter":
		next.Delimiter = val
	case "decimal_separator":
		next.DecimalSeparator = val
	case "thousands_separator":
		next.ThousandsSeparator = val
	case "pad_short_rows":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for pad_short_rows: %v", val)
		}
		next.PadShortRows = b
	case "plot_width", "plot_height", "histogram_bins":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "plot_width":
			next.PlotWidth = i
		case "plot_height":
			next.PlotHeight = i
		default:
			next.HistogramBins = i
		}
	case "output_dir":
		next.OutputDir = val
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
