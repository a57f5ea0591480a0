package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
)

// newFmtCmd creates the fmt command.
func newFmtCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a map document in canonical form",
		Long: `Parse a memory-map document and re-emit it canonically: bit ranges
regenerated from the numeric field positions ("[3:03]" becomes "[3]"),
keys in stable order, derived strings refreshed.

By default the formatted document is printed to stdout. Use -w to rewrite
the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			doc, err := document.Parse(text)
			if err != nil {
				return err
			}
			m, err := doc.Map()
			if err != nil {
				return err
			}
			if err := doc.SetMap(m); err != nil {
				return err
			}
			out, err := doc.Dump()
			if err != nil {
				return err
			}

			if !write {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if bytes.Equal(out, text) {
				printInfo("%s already canonical", path)
				return nil
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printSuccess("Formatted %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}
