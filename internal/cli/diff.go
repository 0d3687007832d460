package cli

import (
	"fmt"
	"log"

	"github.com/javanhut/ditiear/internal/colors"
	"github.com/javanhut/ditiear/internal/treediff"
	"github.com/spf13/cobra"
)

var diffCASRoot string

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "List the changes between two snapshots",
	Long: `Compares two snapshot root hashes (or labels recorded with
"ditiear label set") and prints the Add/Delete/Modify change list
between them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCAS(diffCASRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		db, err := openRootStore("")
		if err != nil {
			return fmt.Errorf("open label store: %w", err)
		}
		defer db.Close()

		oldRoot, err := resolveRoot(db, args[0])
		if err != nil {
			return err
		}
		newRoot, err := resolveRoot(db, args[1])
		if err != nil {
			return err
		}

		changes, err := treediff.Diff(store, oldRoot, newRoot)
		if err != nil {
			return fmt.Errorf("diff: %w", err)
		}

		if len(changes) == 0 {
			log.Println("no changes")
			return nil
		}
		for _, c := range changes {
			fmt.Println(colors.ColorizeChange(c.Kind.String(), c.Path))
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffCASRoot, "cas", "", "content-addressed store root (overrides config)")
}
