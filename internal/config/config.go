package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Devices accepted for whisper.device.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
	DeviceAuto = "auto"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("whisper.model_size", "base")
	v.SetDefault("whisper.device", DeviceCPU)
	v.SetDefault("whisper.language", "")
	v.SetDefault("whisper.beam_size", 5)
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("download.dir", "downloads")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() *Configuration {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TUBESCRIBE")
	v.AutomaticEnv()

	v.BindEnv("whisper.model_size", "TUBESCRIBE_MODEL_SIZE")
	v.BindEnv("whisper.device", "TUBESCRIBE_DEVICE")
	v.BindEnv("whisper.language", "TUBESCRIBE_LANGUAGE")
	v.BindEnv("output.dir", "TUBESCRIBE_OUTPUT_DIR")
	v.BindEnv("download.dir", "TUBESCRIBE_DOWNLOAD_DIR")
	v.BindEnv("history.path", "TUBESCRIBE_HISTORY_PATH")

	return &Configuration{viper: v}
}

// Set overrides a configuration value, used by CLI flag binding
func (c *Configuration) Set(key string, value interface{}) {
	c.viper.Set(key, value)
}

// GetModelSize returns the configured Whisper model size (tiny/base/small/medium/large-v3)
func (c *Configuration) GetModelSize() string {
	return c.viper.GetString("whisper.model_size")
}

// GetDevice returns the configured transcription device (cpu/cuda/auto)
func (c *Configuration) GetDevice() string {
	return c.viper.GetString("whisper.device")
}

// GetLanguage returns the forced language code, empty for auto-detection
func (c *Configuration) GetLanguage() string {
	return c.viper.GetString("whisper.language")
}

// GetBeamSize returns the beam size used during decoding
func (c *Configuration) GetBeamSize() int {
	return c.viper.GetInt("whisper.beam_size")
}

// GetOutputDir returns the directory transcripts are written to
func (c *Configuration) GetOutputDir() string {
	return c.viper.GetString("output.dir")
}

// GetDownloadDir returns the directory downloaded audio is stored in
func (c *Configuration) GetDownloadDir() string {
	return c.viper.GetString("download.dir")
}

// HistoryEnabled reports whether completed jobs are recorded to the run ledger
func (c *Configuration) HistoryEnabled() bool {
	return c.viper.GetBool("history.enabled")
}

// GetHistoryPath returns the SQLite ledger path, defaulting to history.db
// inside the output directory when not configured.
func (c *Configuration) GetHistoryPath() string {
	if p := c.viper.GetString("history.path"); p != "" {
		return p
	}
	return filepath.Join(c.GetOutputDir(), "history.db")
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Configuration) Validate() error {
	switch c.GetDevice() {
	case DeviceCPU, DeviceCUDA, DeviceAuto:
	default:
		return fmt.Errorf("invalid whisper.device %q: must be one of cpu, cuda, auto", c.GetDevice())
	}

	if c.GetModelSize() == "" {
		return fmt.Errorf("whisper.model_size cannot be empty")
	}

	if c.GetBeamSize() < 1 {
		return fmt.Errorf("whisper.beam_size must be at least 1, got %d", c.GetBeamSize())
	}

	if c.GetOutputDir() == "" {
		return fmt.Errorf("output.dir cannot be empty")
	}

	return nil
}
