package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/session"
)

// newEditCmd creates the edit command.
func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a map document in the interactive bit-field editor",
		Long: `Open a memory-map document in the terminal editor.

The editor shows one register at a time as a bit grid. Edits repack the
layout automatically and are debounced back to the file; a crash-recovery
snapshot is kept after every change.

Mouse:
  shift+drag on a field    resize it (grab a half, drag its edge)
  shift+drag on empty bits draw a new field
  ctrl+drag on a field     reorder it among its neighbors

Keys:
  ←/→ select field     ↑/↓ select register    tab/shift+tab select block
  a/b  insert field after/before selection
  r/R  insert register after/before selection
  n/N  insert block after/before selection
  d    delete selected field
  esc  cancel drag       q quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path := args[0]

			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			snaps, err := openSnapshotStore(cmd.Context(), cfg)
			if err != nil {
				logger.Warn("snapshot backend unavailable, continuing without", "err", err)
				snaps = nil
			} else {
				defer snaps.Close()
			}

			docID, err := filepath.Abs(path)
			if err != nil {
				docID = path
			}

			// The file is the host: every accepted edit is debounced back
			// into it.
			host := document.HostFunc(func(text string) {
				if werr := os.WriteFile(path, []byte(text), 0o644); werr != nil {
					logger.Error("write back failed", "file", path, "err", werr)
				}
			})

			sess, err := session.New(text, session.Options{
				Host:      host,
				Logger:    logger,
				Snapshots: snaps,
				DocID:     docID,
				PushDelay: cfg.PushDelay(),
			})
			if err != nil {
				return err
			}
			defer sess.Close()
			logger.Info("editing", "file", path, "doc", docID)

			model, err := newEditorModel(sess)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return err
			}

			sess.Flush()
			printSuccess("Saved %s", path)
			return nil
		},
	}
}
