package cli

import (
	"fmt"
	"log"

	"github.com/javanhut/ditiear/internal/config"
	"github.com/javanhut/ditiear/internal/patcharchive"
	"github.com/spf13/cobra"
)

var (
	packCASRoot string
	packOutput  string
)

var packCmd = &cobra.Command{
	Use:   "pack <old> <new>",
	Short: "Package the changes between two snapshots into a patch archive",
	Long: `Diffs two snapshot root hashes (or labels) and writes a deflate-
compressed patch archive containing the resulting BlobPatch stream and
the raw bytes of every added blob. If the two snapshots are identical,
no archive is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCAS(packCASRoot)
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

		dest := packOutput
		if dest == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			dest = cfg.Core.DefaultArchive
		}

		wrote, err := patcharchive.CreatePatchBetween(store, oldRoot, newRoot, dest)
		if err != nil {
			return fmt.Errorf("create patch: %w", err)
		}
		if !wrote {
			log.Println("no changes between snapshots; no archive written")
			return nil
		}
		digest, err := patcharchive.Digest(dest)
		if err != nil {
			return fmt.Errorf("digest archive: %w", err)
		}
		log.Printf("wrote patch archive %s (blake3 %s)", dest, digest)
		return nil
	},
}

func init() {
	packCmd.Flags().StringVar(&packCASRoot, "cas", "", "content-addressed store root (overrides config)")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "destination archive path (overrides config)")
}
