package cli

import (
	"fmt"
	"log"

	"github.com/javanhut/ditiear/internal/materialize"
	"github.com/spf13/cobra"
)

var checkoutCASRoot string

var checkoutCmd = &cobra.Command{
	Use:   "checkout <root> <dir>",
	Short: "Write a snapshot out to a real directory",
	Long: `Materializes the tree rooted at the given snapshot hash (or label)
onto disk at dir, creating dir if it does not already exist.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCAS(checkoutCASRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		db, err := openRootStore("")
		if err != nil {
			return fmt.Errorf("open label store: %w", err)
		}
		defer db.Close()

		root, err := resolveRoot(db, args[0])
		if err != nil {
			return err
		}

		if err := materialize.Checkout(store, root, args[1]); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		log.Printf("checked out %s to %s", root, args[1])
		return nil
	},
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutCASRoot, "cas", "", "content-addressed store root (overrides config)")
}
