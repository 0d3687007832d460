package cli

import (
	"fmt"

	"github.com/javanhut/ditiear/internal/cas"
	"github.com/javanhut/ditiear/internal/cashash"
	"github.com/javanhut/ditiear/internal/config"
	"github.com/javanhut/ditiear/internal/rootstore"
)

// openCAS opens the content-addressed store at the configured CAS root,
// or casRootFlag if it was set explicitly.
func openCAS(casRootFlag string) (*cas.Store, error) {
	root := casRootFlag
	if root == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		root = cfg.Core.CASRoot
	}
	return cas.Open(root)
}

// openRootStore opens the label store at the configured path, or
// pathFlag if it was set explicitly.
func openRootStore(pathFlag string) (*rootstore.DB, error) {
	path := pathFlag
	if path == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.Core.RootStorePath
	}
	return rootstore.Open(path)
}

// resolveRoot accepts either a literal 16-hex-char root hash or a label
// previously recorded with `ditiear label set`, trying the label store
// first only when the input does not already look like a hash.
func resolveRoot(db *rootstore.DB, input string) (cashash.Hash, error) {
	if cashash.Hash(input).Valid() {
		return cashash.Hash(input), nil
	}
	hash, err := db.Lookup(input)
	if err != nil {
		return "", fmt.Errorf("resolve %q: not a valid hash and no such label: %w", input, err)
	}
	return cashash.Hash(hash), nil
}
