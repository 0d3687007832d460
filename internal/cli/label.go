package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage human-readable names for snapshot root hashes",
}

var labelSetCmd = &cobra.Command{
	Use:   "set <name> <root>",
	Short: "Record a label for a snapshot root hash",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openRootStore("")
		if err != nil {
			return fmt.Errorf("open label store: %w", err)
		}
		defer db.Close()
		if err := db.Put(args[0], args[1]); err != nil {
			return fmt.Errorf("set label: %w", err)
		}
		fmt.Printf("%s -> %s\n", args[0], args[1])
		return nil
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded labels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openRootStore("")
		if err != nil {
			return fmt.Errorf("open label store: %w", err)
		}
		defer db.Close()

		labels, err := db.Labels()
		if err != nil {
			return fmt.Errorf("list labels: %w", err)
		}
		for _, l := range labels {
			root, err := db.Lookup(l)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", l, err)
			}
			fmt.Printf("%s -> %s\n", l, root)
		}
		return nil
	},
}

var labelRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openRootStore("")
		if err != nil {
			return fmt.Errorf("open label store: %w", err)
		}
		defer db.Close()
		if err := db.Remove(args[0]); err != nil {
			return fmt.Errorf("remove label: %w", err)
		}
		return nil
	},
}
