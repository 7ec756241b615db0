package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/corebank/internal/game/core"
)

// progressDoc is the YAML exchange format: one persistence bag per character.
type progressDoc struct {
	Characters map[int64]core.Bag `yaml:"characters"`
}

func encodeProgress(w io.Writer, snaps map[int64]core.Snapshot) error {
	doc := progressDoc{Characters: make(map[int64]core.Bag, len(snaps))}
	for id, snap := range snaps {
		doc.Characters[id] = snap.Bag()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}
	return enc.Close()
}

func decodeProgress(r io.Reader) (map[int64]core.Snapshot, error) {
	var doc progressDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding progress: %w", err)
	}

	out := make(map[int64]core.Snapshot, len(doc.Characters))
	for id, bag := range doc.Characters {
		if id <= 0 {
			return nil, fmt.Errorf("invalid character id %d", id)
		}
		// Та же чистка, что при входе в мир: в БД не попадут дубли ledger и запертые слоты.
		out[id] = core.SnapshotFromBag(bag).Normalized()
	}
	return out, nil
}

func newExportCmd() *cobra.Command {
	var (
		all    bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [characterID...]",
		Short: "Export saved core progress as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("pass character ids or --all")
			}
			ctx := cmd.Context()
			repo, closeDB, err := openRepository(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if all {
				if ids, err = repo.ListCharacters(ctx); err != nil {
					return err
				}
			}

			snaps := make(map[int64]core.Snapshot, len(ids))
			for _, id := range ids {
				snap, err := repo.LoadProgress(ctx, id)
				if err != nil {
					return err
				}
				snaps[id] = snap
			}

			if output == "" || output == "-" {
				err = encodeProgress(cmd.OutOrStdout(), snaps)
			} else {
				err = writeProgressFile(output, snaps)
			}
			if err != nil {
				return err
			}
			slog.Info("progress exported", "characters", len(snaps), "output", output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Export every character with saved progress")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import core progress from a YAML export (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			snaps, err := decodeProgress(r)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d characters parsed\n", len(snaps))
				return nil
			}

			ctx := cmd.Context()
			repo, closeDB, err := openRepository(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			for id, snap := range snaps {
				if err := repo.SaveProgress(ctx, id, snap); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d characters imported\n", len(snaps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate only, do not touch the database")
	return cmd
}

// writeProgressFile writes the export to path; a failed Close is reported
// because the data may not have reached the disk.
func writeProgressFile(path string, snaps map[int64]core.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encodeProgress(f, snaps); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid character id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
