package player

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/NSBrianWard/IMFPlayer/log"
)

type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Audio    AudioConfig    `toml:"audio"`
	Render   RenderConfig   `toml:"render"`
}

type PlaybackConfig struct {
	ClockRate int `toml:"clock_rate"` // IMF ticks per second
	MixerRate int `toml:"mixer_rate"` // synthesizer sample rate
}

type AudioConfig struct {
	// DeviceRate is the sound card sample rate. When it differs from the
	// mixer rate the output is resampled. 0 means the mixer rate.
	DeviceRate int `toml:"device_rate"`
	LatencyMs  int `toml:"latency_ms"`
}

type RenderConfig struct {
	OutDir  string  `toml:"out_dir"`
	Seconds float64 `toml:"seconds"`
	Loops   int     `toml:"loops"`
}

const (
	DefaultClockRate = 560
	DefaultMixerRate = 49716
)

var DefaultConfig = Config{
	Playback: PlaybackConfig{
		ClockRate: DefaultClockRate,
		MixerRate: DefaultMixerRate,
	},
	Audio: AudioConfig{
		DeviceRate: 0,
		LatencyMs:  50,
	},
	Render: RenderConfig{
		OutDir: ".",
		Loops:  1,
	},
}

const DefaultFileMode = os.FileMode(0755)

const cfgFilename = "config.toml"

// ConfigPath returns the path of the configuration file in the user
// configuration directory.
var ConfigPath = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModPlayer.Warnf("failed to get user config directory: %v", err)
		return cfgFilename
	}
	return filepath.Join(cfgdir, "imfplayer", cfgFilename)
})

// LoadConfigOrDefault loads the configuration from path, or from ConfigPath
// if path is empty. Missing keys keep their default value. If the file can't
// be read, the default configuration is returned. On first run, when path is
// empty and ConfigPath doesn't exist yet, the default configuration is saved
// there.
func LoadConfigOrDefault(path string) Config {
	if path == "" {
		return loadConfig(ConfigPath(), false)
	}
	return loadConfig(path, true)
}

// loadConfig loads the configuration at path. explicit reports whether the
// user asked for that file.
func loadConfig(path string, explicit bool) Config {
	cfg := DefaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && explicit:
		log.ModPlayer.Warnf("config %s not found, using defaults", path)
		return DefaultConfig
	case errors.Is(err, fs.ErrNotExist):
		if err := SaveConfig(path, DefaultConfig); err != nil {
			log.ModPlayer.Warnf("failed to save default config: %v", err)
		}
		return DefaultConfig
	case err != nil:
		log.ModPlayer.Warnf("failed to load config %s, using defaults: %v", path, err)
		return DefaultConfig
	}

	for _, key := range md.Undecoded() {
		log.ModPlayer.Warnf("%s: unknown config key %q", path, key.String())
	}

	cfg.Check()
	return cfg
}

// SaveConfig writes cfg at path, or at ConfigPath if path is empty.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultFileMode); err != nil {
		return err
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// Check replaces invalid values by their default.
func (cfg *Config) Check() {
	if cfg.Playback.ClockRate <= 0 {
		log.ModPlayer.Warnf("invalid clock rate %d, fallback to %d", cfg.Playback.ClockRate, DefaultClockRate)
		cfg.Playback.ClockRate = DefaultClockRate
	}
	if cfg.Playback.MixerRate <= 0 {
		log.ModPlayer.Warnf("invalid mixer rate %d, fallback to %d", cfg.Playback.MixerRate, DefaultMixerRate)
		cfg.Playback.MixerRate = DefaultMixerRate
	}
	if cfg.Audio.DeviceRate < 0 {
		log.ModPlayer.Warnf("invalid device rate %d, fallback to mixer rate", cfg.Audio.DeviceRate)
		cfg.Audio.DeviceRate = 0
	}
	if cfg.Audio.LatencyMs < 0 {
		cfg.Audio.LatencyMs = DefaultConfig.Audio.LatencyMs
	}
	if cfg.Render.Loops < 0 {
		cfg.Render.Loops = DefaultConfig.Render.Loops
	}
}

// OutputRate returns the sample rate of the audio device.
func (cfg *Config) OutputRate() int {
	if cfg.Audio.DeviceRate == 0 {
		return cfg.Playback.MixerRate
	}
	return cfg.Audio.DeviceRate
}
