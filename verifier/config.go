package verifier

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/privacybydesign/commitproof/keys"
	"github.com/privacybydesign/commitproof/verifier/replay"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Replay guard backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config describes a verification service.
type Config struct {
	MinSaltLength int `yaml:"min_salt_length"`
	// Keys maps key references to the environment variables that hold the
	// Base64-encoded keys.
	Keys     map[string]string `yaml:"keys"`
	Replay   ReplayConfig      `yaml:"replay"`
	LogLevel string            `yaml:"log_level"`
}

// ReplayConfig controls the replay guard.
type ReplayConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoadConfig reads a YAML configuration file. Relative paths in it are
// resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("configuration path is empty")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, "cannot read configuration", 0)
	}
	return ParseConfig(content, filepath.Dir(path))
}

// ParseConfig parses YAML configuration, resolving relative paths against baseDir.
func ParseConfig(content []byte, baseDir string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WrapPrefix(err, "cannot parse configuration", 0)
	}
	cfg.applyDefaults(baseDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(baseDir string) {
	if c.MinSaltLength == 0 {
		c.MinSaltLength = MinSaltLength
	}
	if c.Replay.Backend == "" {
		c.Replay.Backend = BackendMemory
	}
	if c.Replay.TTL == 0 {
		c.Replay.TTL = 24 * time.Hour
	}
	if c.Replay.Backend == BackendBadger {
		if c.Replay.Dir == "" {
			c.Replay.Dir = filepath.Join(baseDir, "replay")
		} else if !filepath.IsAbs(c.Replay.Dir) {
			c.Replay.Dir = filepath.Join(baseDir, c.Replay.Dir)
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinSaltLength < MinSaltLength {
		return errors.Errorf("min_salt_length must be at least %d", MinSaltLength)
	}
	if len(c.Keys) == 0 {
		return errors.New("at least one key must be configured")
	}
	for ref, env := range c.Keys {
		if ref == "" || env == "" {
			return errors.New("key references and environment variable names must not be empty")
		}
	}
	if c.Replay.Enabled {
		if c.Replay.Backend != BackendMemory && c.Replay.Backend != BackendBadger {
			return errors.Errorf("unknown replay backend %q", c.Replay.Backend)
		}
		if c.Replay.TTL < 0 {
			return errors.New("replay ttl must be positive")
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.WrapPrefix(err, "log_level", 0)
	}
	return nil
}

// NewContractFromConfig builds a Contract reading its keys from the
// environment. Missing values in cfg take their defaults, with relative paths
// resolved against the working directory. Options are applied after those
// derived from cfg; a replay guard given in opts replaces the configured one,
// which is then not opened.
func NewContractFromConfig(cfg *Config, opts ...Option) (*Contract, error) {
	resolved := *cfg
	resolved.applyDefaults("")
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	level, _ := logrus.ParseLevel(resolved.LogLevel)
	log := logrus.New()
	log.SetOutput(Logger.Out)
	log.SetFormatter(Logger.Formatter)
	log.SetLevel(level)

	base := []Option{
		WithLogger(log),
		WithMinSaltLength(resolved.MinSaltLength),
	}
	c := NewContract(keys.NewEnvKeystore(resolved.Keys), append(base, opts...)...)
	c.ownsKeystore = true

	if resolved.Replay.Enabled && c.guard == nil {
		switch resolved.Replay.Backend {
		case BackendBadger:
			g, err := replay.OpenBadgerGuard(resolved.Replay.Dir, resolved.Replay.TTL)
			if err != nil {
				return nil, err
			}
			c.guard = g
		default:
			c.guard = replay.NewMemoryGuard(resolved.Replay.TTL)
		}
	}
	return c, nil
}
