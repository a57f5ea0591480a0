package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/snapshot"
)

// newSnapshotCmd creates the snapshot management command.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage crash-recovery snapshots",
	}

	cmd.AddCommand(newSnapshotClearCmd())
	cmd.AddCommand(newSnapshotPathCmd())
	cmd.AddCommand(newSnapshotRestoreCmd())

	return cmd
}

// newSnapshotClearCmd creates the "snapshot clear" subcommand.
func newSnapshotClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := snapshotDir()
			if err != nil {
				return fmt.Errorf("get snapshot dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("No snapshots stored")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d snapshot(s)", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// newSnapshotPathCmd creates the "snapshot path" subcommand.
func newSnapshotPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := snapshotDir()
			if err != nil {
				return fmt.Errorf("get snapshot dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// newSnapshotRestoreCmd creates the "snapshot restore" subcommand.
func newSnapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <doc-id> <file>",
		Short: "Write a stored snapshot back to a file",
		Long: `Recover the last snapshot of a document and write it to a file.

The doc-id is the identifier the editor logged when the session opened
(for file-based editing this is the file path).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, path := args[0], args[1]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			snaps, err := openSnapshotStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer snaps.Close()

			data, ok, err := snaps.Get(cmd.Context(), snapshot.Key(docID))
			if err != nil {
				return err
			}
			if !ok {
				printWarning("No snapshot stored for %q", docID)
				return nil
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printSuccess("Restored snapshot of %q", docID)
			printFile(path)
			return nil
		},
	}
}

// snapshotDir returns the file-backend snapshot directory.
func snapshotDir() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Snapshot.Dir != "" {
		return cfg.Snapshot.Dir, nil
	}
	base, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "snapshots"), nil
}
