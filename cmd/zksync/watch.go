package main

import (
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/config"
	"github.com/Velocity-BPA/zksync-lib/cursorstore"
	"github.com/Velocity-BPA/zksync-lib/sink"
	"github.com/Velocity-BPA/zksync-lib/trigger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the configured trigger and deliver its events until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			if kind != "" {
				if cfg.Trigger.Kind, err = types.ParseTriggerKind(kind); err != nil {
					return err
				}
			}

			ctx := cmd.Context()

			client, registry, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer registry.Close()

			store, err := cursorstore.NewFromConfig(ctx, cfg.CursorStore)
			if err != nil {
				return err
			}
			defer store.Close()

			poller, err := trigger.NewPoller(cfg.Trigger.Config, client, store, logger)
			if err != nil {
				return err
			}

			out, closeSink, err := newSink(cfg.Sink, logger)
			if err != nil {
				return err
			}
			defer closeSink()

			return trigger.NewRunner(poller, out, cfg.Trigger.Interval, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "trigger kind (overrides config)")
	return cmd
}

func newSink(cfg config.SinkConfig, logger *logrus.Logger) (trigger.Sink, func(), error) {
	switch cfg.Type {
	case config.SinkLog:
		return sink.NewLogSink(logger), func() {}, nil
	case config.SinkNATS:
		s, err := sink.NewNATSSink(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown sink type %q", cfg.Type)
	}
}
