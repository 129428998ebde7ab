package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/navigator"
	"github.com/Yoshiyuki1026/smtd/internal/notify"
)

func notifyCmd(f *rootFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "notify <morning|midday|evening>",
		Short: "Generate a reminder line and post it to Slack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := navigator.ParseSlot(trimArg(args))
			if err != nil {
				return err
			}
			cfg, err := f.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			loc, err := config.Location(cfg.Slack.Timezone)
			if err != nil {
				return err
			}
			opts := []navigator.Option{
				navigator.WithLocation(loc),
				navigator.WithTimeout(cfg.Navigator.Timeout),
				navigator.WithLogger(logger),
			}
			gem, err := navigator.NewGemini(ctx, cfg.Navigator.APIKey, cfg.Navigator.Model)
			switch {
			case errors.Is(err, navigator.ErrNoGenerator):
			case err != nil:
				return err
			default:
				defer gem.Close()
				opts = append(opts, navigator.WithGenerator(gem))
			}
			svc := navigator.NewService(opts...)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if dryRun {
				return enc.Encode(svc.SlackLine(ctx, slot))
			}

			res := notify.NewNotifier(svc, notify.NewSlackClient(cfg.Slack), logger).Notify(ctx, slot)
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("slack post failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the line without posting")
	return cmd
}
