package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/hashguard/internal/config"
	"github.com/illarion/hashguard/internal/storage"
)

// Compact compacts the bolt database to reclaim unused space
func Compact(_ context.Context, cfg *config.Config) {
	if cfg.Storage.Backend != config.BackendBolt {
		HandleError(fmt.Errorf("%w: %s", ErrNotBoltBackend, cfg.Storage.Backend))
	}

	m := OpenManagerOrExit(cfg)
	defer m.Close()

	db, ok := m.Storage().(*storage.Bolt)
	if !ok {
		HandleError(ErrNotBoltBackend)
	}

	before, after, err := compactBolt(db)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(before), formatSize(after))
}

func compactBolt(db *storage.Bolt) (before, after int64, err error) {
	info, err := os.Stat(db.Path())
	if err != nil {
		return 0, 0, err
	}
	before = info.Size()

	if err := db.Compact(); err != nil {
		return 0, 0, err
	}

	info, err = os.Stat(db.Path())
	if err != nil {
		return 0, 0, err
	}
	return before, info.Size(), nil
}
