package cli

import (
	"fmt"
	"log"

	"github.com/javanhut/ditiear/internal/patcharchive"
	"github.com/spf13/cobra"
)

var applyCASRoot string

var applyCmd = &cobra.Command{
	Use:   "apply <archive>",
	Short: "Apply a patch archive to the content-addressed store",
	Long: `Replays a patch archive produced by "ditiear pack" against the
content-addressed store: every added blob is written at its sharded
path, and every modified blob is reconstructed from its prior version
plus the archive's byte patch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCAS(applyCASRoot)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		digest, err := patcharchive.Digest(args[0])
		if err != nil {
			return fmt.Errorf("digest archive: %w", err)
		}
		if err := patcharchive.ApplyPatch(args[0], store); err != nil {
			return fmt.Errorf("apply patch: %w", err)
		}
		log.Printf("applied %s (blake3 %s)", args[0], digest)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyCASRoot, "cas", "", "content-addressed store root (overrides config)")
}
