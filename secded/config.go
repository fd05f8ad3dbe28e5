package secded

import (
	"fmt"
	"time"

	"github.com/harlequix/secded/internal/decoding"
	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/noise"
	"github.com/jinzhu/copier"
	"github.com/spf13/viper"
)

// Config is the full tool configuration, filled from viper.
type Config struct {
	BlockSize          int
	Verbosity          int
	Workers            int
	Backend            string
	NativeTimeout      time.Duration
	Protocols          []string
	NoiseStrategy      string
	NoiseRate          float64
	NoiseSeed          int64
	AbortOnDoubleError bool
	LogFile            string
}

func init() {
	viper.SetDefault("BlockSize", 1)
	viper.SetDefault("Verbosity", 0)
	viper.SetDefault("Workers", 4)
	viper.SetDefault("Backend", "native")
	viper.SetDefault("NoiseStrategy", noise.StrategyNone)
	viper.SetDefault("NoiseRate", 0.3)
	viper.SetDefault("NoiseSeed", 0)
	viper.SetDefault("AbortOnDoubleError", false)
	viper.SetDefault("LogFile", "")
}

// SetConfig reads a configuration file on top of the defaults.
func SetConfig(configFile string) error {
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", configFile, err)
	}
	return nil
}

// LoadConfig unmarshals and validates the current viper settings.
func LoadConfig() (Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate checks the settings that would otherwise fail deep inside a
// pipeline.
func (c Config) Validate() error {
	if c.BlockSize < 1 {
		return fmt.Errorf("%w: buffer size %d", encoding.ErrInvalidBlockSize, c.BlockSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := noise.New(c.NoiseStrategy, c.NoiseRate); err != nil {
		return err
	}
	return nil
}

// Level returns the configured verbosity clamped to the known levels.
func (c Config) Level() encoding.Verbosity {
	return encoding.ClampVerbosity(c.Verbosity)
}

// DecodingOptions copies the decoder related settings.
func (c Config) DecodingOptions() decoding.Options {
	var opts decoding.Options
	copier.Copy(&opts, &c)
	opts.Verbosity = c.Level()
	return opts
}

// NoiseConfig copies the noise related settings.
func (c Config) NoiseConfig() noise.Config {
	var cfg noise.Config
	copier.Copy(&cfg, &c)
	return cfg
}
