package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/store"
)

// newLibraryCmd creates the library management command.
func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the named document library",
		Long: `Store memory-map documents under names for later retrieval.

The library backend is configured in ~/.config/regcraft/config.toml:
files under ~/.config/regcraft/library by default, or MongoDB.`,
	}

	cmd.AddCommand(newLibrarySaveCmd())
	cmd.AddCommand(newLibraryLoadCmd())
	cmd.AddCommand(newLibraryListCmd())
	cmd.AddCommand(newLibraryDeleteCmd())

	return cmd
}

// withLibrary opens the configured library backend and runs fn against it.
func withLibrary(cmd *cobra.Command, fn func(store.Library) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := openLibrary(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

// newLibrarySaveCmd creates the "library save" subcommand.
func newLibrarySaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Store a document under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			if err := errors.ValidateEntityName(name); err != nil {
				return err
			}

			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if _, err := document.Parse(text); err != nil {
				return err
			}

			return withLibrary(cmd, func(lib store.Library) error {
				if err := lib.Save(cmd.Context(), name, text); err != nil {
					return err
				}
				printSuccess("Saved %s as %q", path, name)
				printNextStep("Load it later with", "regcraft library load "+name+" <file>")
				return nil
			})
		},
	}
}

// newLibraryLoadCmd creates the "library load" subcommand.
func newLibraryLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <name> <file>",
		Short: "Write a stored document to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			return withLibrary(cmd, func(lib store.Library) error {
				text, err := lib.Load(cmd.Context(), name)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, text, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printSuccess("Loaded %q", name)
				printFile(path)
				return nil
			})
		},
	}
}

// newLibraryListCmd creates the "library list" subcommand.
func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(lib store.Library) error {
				entries, err := lib.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("Library is empty")
					return nil
				}
				for _, e := range entries {
					printKeyValue(e.Name, e.UpdatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}

// newLibraryDeleteCmd creates the "library delete" subcommand.
func newLibraryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return withLibrary(cmd, func(lib store.Library) error {
				if err := lib.Delete(cmd.Context(), name); err != nil {
					return err
				}
				printSuccess("Deleted %q", name)
				return nil
			})
		},
	}
}
