package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a map document for layout and naming problems",
		Long: `Parse a memory-map document and report every problem found: malformed
names, overlapping bit fields, colliding register or block spans, and
unknown access or usage values.

Exits non-zero when the document has problems.`,
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

			problems := regmap.Validate(m)
			if len(problems) == 0 {
				printSuccess("%s is valid", path)
				return nil
			}
			for _, p := range problems {
				printError("%s", errors.UserMessage(p))
			}
			return fmt.Errorf("%d problem(s) in %s", len(problems), path)
		},
	}
}
