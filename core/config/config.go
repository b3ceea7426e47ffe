package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGenesisHash  = "The Times 19/May/2024 Increasing gold trading between distributions."
	DefaultGenesisProof = 100
	DefaultReward       = 1
)

type Config struct {
	RPC     RPCConfig     `yaml:"rpc"`
	Log     LogConfig     `yaml:"log"`
	Mining  MiningConfig  `yaml:"mining"`
	Genesis GenesisConfig `yaml:"genesis"`
	// WalletID names a persisted wallet under WalletDir. Empty means an ephemeral wallet.
	WalletID string `yaml:"wallet_id"`
}

type RPCConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

type MiningConfig struct {
	Reward int64 `yaml:"reward"`
}

type GenesisConfig struct {
	PreviousHash string `yaml:"previous_hash"`
	Proof        int64  `yaml:"proof"`
}

func Default() Config {
	return Config{
		RPC: RPCConfig{
			ListenAddr: "127.0.0.1:5000",
		},
		Log: LogConfig{
			Level: "info",
		},
		Mining: MiningConfig{
			Reward: DefaultReward,
		},
		Genesis: GenesisConfig{
			PreviousHash: DefaultGenesisHash,
			Proof:        DefaultGenesisProof,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.RPC.ListenAddr) == "" {
		return errors.New("rpc listen address cannot be empty")
	}
	if c.Mining.Reward < 0 {
		return fmt.Errorf("mining reward cannot be negative: %d", c.Mining.Reward)
	}
	if c.Genesis.PreviousHash == "" {
		return errors.New("genesis previous hash cannot be empty")
	}
	return nil
}

// LoadFile overlays the YAML document read from r onto c. Keys missing from the document keep
// their current values.
func (c *Config) LoadFile(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// ParseNodeFlags builds the node configuration. Precedence, lowest first: defaults, config
// file, GOBLIN_* environment variables, command line flags.
func ParseNodeFlags(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("goblin-node", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	configPath := fs.String("config", envOr("GOBLIN_CONFIG", ""), "Path to a YAML config file")
	listen := fs.String("rpc.listen", "", "HTTP/JSON-RPC listen address (host:port)")
	logLevel := fs.String("log.level", "", "Log level (debug|info|warn|error)")
	reward := fs.String("mining.reward", "", "Reward credited to the node for each mined block")
	walletID := fs.String("wallet", "", "ID of the node wallet to load or create (ephemeral if empty)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config file: %w", err)
		}
		err = cfg.LoadFile(f)
		f.Close()
		if err != nil {
			return Config{}, err
		}
	}

	cfg.RPC.ListenAddr = envOr("GOBLIN_RPC_LISTEN", cfg.RPC.ListenAddr)
	cfg.Log.Level = envOr("GOBLIN_LOG_LEVEL", cfg.Log.Level)
	cfg.WalletID = envOr("GOBLIN_WALLET", cfg.WalletID)
	r, err := envOrInt64("GOBLIN_MINING_REWARD", cfg.Mining.Reward)
	if err != nil {
		return Config{}, err
	}
	cfg.Mining.Reward = r

	if *listen != "" {
		cfg.RPC.ListenAddr = *listen
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *walletID != "" {
		cfg.WalletID = *walletID
	}
	if *reward != "" {
		v, err := strconv.ParseInt(*reward, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid mining reward %q: %w", *reward, err)
		}
		cfg.Mining.Reward = v
	}

	return cfg, cfg.Validate()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envOrInt64(key string, fallback int64) (int64, error) {
	v := envOr(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
