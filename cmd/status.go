package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/illarion/hashguard/internal/config"
	"github.com/illarion/hashguard/internal/core"
	"github.com/illarion/hashguard/internal/git"
	"github.com/illarion/hashguard/internal/storage"
)

// Status shows the current state of the stored hash. Does not require a
// password.
func Status(_ context.Context, cfg *config.Config) {
	m := OpenManagerOrExit(cfg)
	defer m.Close()

	if err := writeStatus(os.Stdout, cfg, m); err != nil {
		HandleError(err)
	}
}

func writeStatus(w io.Writer, cfg *config.Config, m *core.Manager) error {
	exists, err := m.HashFileExists()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Backend:   %s (%s)\n", cfg.Storage.Backend, describeLocation(cfg))
	if cfg.File != "" {
		fmt.Fprintf(w, "Config:    %s\n", cfg.File)
	}

	if !exists {
		fmt.Fprintln(w, "Hash file: not found")
		fmt.Fprintln(w, "Run 'hashguard save' to create one")
		return nil
	}
	fmt.Fprintf(w, "Hash file: %s\n", core.HashFile)

	if stater, ok := m.Storage().(storage.Stater); ok {
		info, err := stater.Stat(core.HashFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Mode:      %s\n", info.Mode)
		fmt.Fprintf(w, "Size:      %s\n", formatSize(info.Size))
		if !info.ModTime.IsZero() {
			fmt.Fprintf(w, "Modified:  %s\n", info.ModTime.Format(time.RFC3339))
		}
	}

	stored, err := m.ReadHashFromFile()
	if err != nil {
		return err
	}

	advice, err := m.Inspect(stored)
	if err != nil {
		fmt.Fprintln(w, "Algorithm: unrecognised (run 'hashguard save' to replace the hash)")
	} else {
		fmt.Fprintf(w, "Algorithm: %s\n", advice.Stored)
		if advice.Needed {
			fmt.Fprintln(w, "Rehash:    recommended, parameters changed:")
			fmt.Fprintf(w, "           %s\n", advice.Diff)
		} else {
			fmt.Fprintln(w, "Rehash:    not needed")
		}
	}

	if cfg.Storage.Backend == config.BackendFile {
		fmt.Fprint(w, git.FormatStatus(git.CheckHashFile(cfg.Storage.Dir, core.HashFile)))
	}

	return nil
}
