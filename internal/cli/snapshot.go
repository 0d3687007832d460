package cli

import (
	"fmt"
	"log"

	"github.com/javanhut/ditiear/internal/colors"
	"github.com/javanhut/ditiear/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotCASRoot string
	snapshotLabel   string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <dir>",
	Short: "Build a content-addressed snapshot of a directory",
	Long: `Walks a directory tree, writes a file blob for every regular file and
a manifest blob for every directory into the content-addressed store,
and prints the resulting root manifest hash.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCAS(snapshotCASRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		root, err := snapshot.Build(args[0], store)
		if err != nil {
			return fmt.Errorf("build snapshot: %w", err)
		}

		fmt.Println(colors.SuccessText(string(root)))

		if snapshotLabel != "" {
			db, err := openRootStore("")
			if err != nil {
				return fmt.Errorf("open label store: %w", err)
			}
			defer db.Close()
			if err := db.Put(snapshotLabel, string(root)); err != nil {
				return fmt.Errorf("record label %s: %w", snapshotLabel, err)
			}
			log.Printf("recorded label %q -> %s", snapshotLabel, root)
		}
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotCASRoot, "cas", "", "content-addressed store root (overrides config)")
	snapshotCmd.Flags().StringVar(&snapshotLabel, "label", "", "record the resulting root hash under this label")
}
