package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Velocity-BPA/zksync-lib/chainmanager"
	"github.com/Velocity-BPA/zksync-lib/chains"
	"github.com/Velocity-BPA/zksync-lib/chains/zksync"
	"github.com/Velocity-BPA/zksync-lib/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	network    string
	rpcURL     string
	logLevel   string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "zksync",
		Short:         "zkSync Era client, unit converter and trigger watcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.network, "network", "", "network: mainnet, sepolia or custom (overrides config)")
	flags.StringVar(&opts.rpcURL, "rpc-url", "", "JSON-RPC endpoint (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides config)")

	root.AddCommand(
		newConvertCommand(),
		newExecCommand(opts),
		newWatchCommand(opts),
	)
	return root
}

// load reads the config file, if any, and applies flag overrides.
func (o *rootOptions) load() (*config.Config, *logrus.Logger, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	if o.network != "" {
		cfg.Network.Name = o.network
	}
	if o.rpcURL != "" {
		cfg.Network.RpcUrl = o.rpcURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger, err := config.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// connect registers a client for the configured network and returns it with
// the registry that owns it.
func connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*zksync.Client, *chainmanager.Registry, error) {
	clientConfig, err := cfg.Network.ClientConfig()
	if err != nil {
		return nil, nil, err
	}

	registry := chainmanager.NewRegistry(chains.NewClientFactory(&chains.NoticeGate{}), logger)
	chainID, err := registry.Add(ctx, clientConfig)
	if err != nil {
		return nil, nil, err
	}

	client, err := registry.Get(chainID)
	if err != nil {
		registry.Close()
		return nil, nil, err
	}
	return client, registry, nil
}
