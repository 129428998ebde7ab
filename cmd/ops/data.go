package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/host"
	"github.com/Yoshiyuki1026/smtd/internal/ops"
	"github.com/Yoshiyuki1026/smtd/internal/store"
)

func (f *rootFlags) load() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	path := f.configPath
	if path == "" {
		path = os.Getenv("SMTD_CONFIG")
	}
	if path == "" {
		path = "smtd.yml"
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if f.dataDir != "" {
		cfg.Server.DataDir = f.dataDir
	}
	return cfg, nil
}

func (f *rootFlags) openStore(ctx context.Context) (*config.Config, store.Store, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.Store, cfg.Server.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func stamp() string { return time.Now().UTC().Format("20060102T150405Z") }

func backupCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory as .tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join("backups", "smtd-"+stamp()+".tar.gz")
			}
			if err := ops.BackupDataDir(cfg.Server.DataDir, out); err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("archive is required")
			}
			if err := ops.RestoreDataDir(archive, target); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func drillCmd(f *rootFlags) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore and compare digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			res, err := ops.Drill(cfg.Server.DataDir, workDir, time.Now())
			if err != nil {
				return fmt.Errorf("drill failed: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "backup:", res.Archive)
			fmt.Fprintln(w, "restored:", res.RestoreDir)
			fmt.Fprintln(w, "digest:", res.Digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	return cmd
}

func exportCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored state document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, st, err := f.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return ops.ExportSnapshot(ctx, st, cfg.Store.Key, w)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func importCmd(f *rootFlags) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored state document; stop the server first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			ctx := cmd.Context()
			cfg, st, err := f.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var r io.Reader = cmd.InOrStdin()
			if in != "-" {
				file, err := os.Open(in)
				if err != nil {
					return err
				}
				defer file.Close()
				r = file
			}
			snap, err := ops.ImportSnapshot(ctx, st, cfg.Store.Key, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks, %d black hole items\n", len(snap.Tasks), len(snap.BlackHole))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input file, - for stdin")
	return cmd
}

func rolloverCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the date check against the stored state and save",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, st, err := f.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			loc, err := config.Location(cfg.Game.Timezone)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			h, err := host.Open(ctx, st, cfg.Store.Key, logger,
				host.WithEngineOptions(game.WithLocation(loc), game.WithBalance(cfg.Game.Balance)))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(h.State().GameState)
		},
	}
}

func trimArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}
