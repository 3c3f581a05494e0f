// Package config holds the SDK version and the network configuration
// shared by CLI commands.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fulldev0023/sns-sdk/pkg/rpc"
)

// Version is the version of the tool, set at build time.
var Version = "dev"

// Default endpoints.
const (
	MainnetRPCEndpoint = "https://api.mainnet-beta.solana.com"
	// RegistrarEndpoint is the public API preparing domain registration
	// transactions.
	RegistrarEndpoint = "https://sns-sdk-proxy.bonfida.workers.dev"
)

// Duration is a time.Duration accepting the usual "30s" notation in
// yaml.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the network configuration of CLI commands.
type Config struct {
	RPCEndpoint string   `yaml:"rpc_endpoint"`
	WSEndpoint  string   `yaml:"ws_endpoint"`
	Commitment  string   `yaml:"commitment"`
	Timeout     Duration `yaml:"timeout"`
}

// Default returns the mainnet configuration.
func Default() Config {
	return Config{
		RPCEndpoint: MainnetRPCEndpoint,
		Commitment:  string(rpc.CommitmentConfirmed),
		Timeout:     Duration(30 * time.Second),
	}
}

// Load reads a configuration file, filling unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse config: %w", err)
	}
	return cfg, nil
}

// ResolveWSEndpoint returns the pubsub endpoint, deriving it from the
// RPC endpoint when not set explicitly.
func (c Config) ResolveWSEndpoint() string {
	if c.WSEndpoint != "" {
		return c.WSEndpoint
	}
	endpoint := c.RPCEndpoint
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + strings.TrimPrefix(endpoint, "http://")
	}
	return endpoint
}
