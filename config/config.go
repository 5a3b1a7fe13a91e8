package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/cursorstore"
	"github.com/Velocity-BPA/zksync-lib/trigger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PrivateKeyEnv is read when the network section names no key variable.
const PrivateKeyEnv = "ZKSYNC_PRIVATE_KEY"

// Sink types.
const (
	SinkLog  = "log"
	SinkNATS = "nats"
)

type Config struct {
	Network     NetworkConfig      `yaml:"network"`
	Log         LogConfig          `yaml:"log"`
	CursorStore cursorstore.Config `yaml:"cursor_store"`
	Trigger     TriggerConfig      `yaml:"trigger"`
	Sink        SinkConfig         `yaml:"sink"`
}

type NetworkConfig struct {
	Name                string          `yaml:"name"`
	RpcUrl              string          `yaml:"rpc_url"`
	ChainID             uint64          `yaml:"chain_id"`
	PrivateKeyEnv       string          `yaml:"private_key_env"`
	WaitNBlocks         uint64          `yaml:"wait_n_blocks"`
	RequestTimeout      time.Duration   `yaml:"request_timeout"`
	HealthCheckInterval time.Duration   `yaml:"health_check_interval"`
	RateLimit           RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TriggerConfig struct {
	trigger.Config `yaml:",inline"`
	Interval       time.Duration `yaml:"interval"`
}

type SinkConfig struct {
	Type string     `yaml:"type"`
	NATS NATSConfig `yaml:"nats"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file and fills unset fields with defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills unset fields with defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Network.Name == "" {
		c.Network.Name = string(types.Sepolia)
	}
	if c.Network.PrivateKeyEnv == "" {
		c.Network.PrivateKeyEnv = PrivateKeyEnv
	}
	if c.Network.WaitNBlocks == 0 {
		c.Network.WaitNBlocks = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = FormatText
	}
	if c.CursorStore.Type == "" {
		c.CursorStore.Type = cursorstore.TypeMemory
	}
	if c.CursorStore.Namespace == "" {
		c.CursorStore.Namespace = "default"
	}
	if c.Trigger.Interval == 0 {
		c.Trigger.Interval = trigger.DefaultInterval
	}
	if c.Sink.Type == "" {
		c.Sink.Type = SinkLog
	}
}

// ClientConfig resolves the network section into a client configuration.
// The private key is taken from the environment variable named by private_key_env.
func (n NetworkConfig) ClientConfig() (*types.NetworkConfig, error) {
	network, err := types.ParseNetwork(n.Name)
	if err != nil {
		return nil, err
	}

	cfg, err := types.ResolveNetwork(network, n.RpcUrl)
	if err != nil {
		return nil, err
	}

	if n.RpcUrl != "" {
		cfg.RpcUrl = n.RpcUrl
	}
	if n.ChainID != 0 {
		cfg.ChainID = n.ChainID
	}
	if n.RequestTimeout > 0 {
		cfg.RequestTimeout = n.RequestTimeout
	}
	cfg.WaitNBlocks = n.WaitNBlocks
	cfg.HealthCheckInterval = n.HealthCheckInterval
	cfg.RequestsPerSecond = n.RateLimit.RequestsPerSecond
	cfg.Burst = n.RateLimit.BurstSize
	cfg.PrivateKey = os.Getenv(n.PrivateKeyEnv)

	return cfg, nil
}
