package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/illarion/hashguard/internal/config"
	"github.com/illarion/hashguard/internal/core"
	"github.com/illarion/hashguard/internal/crypto"
)

// Save hashes a new password and stores it, replacing any previous hash
func Save(_ context.Context, cfg *config.Config) {
	m := OpenManagerOrExit(cfg)
	defer m.Close()

	password, err := GetPasswordForSave()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	replaced, err := savePassword(m, password)
	if err != nil {
		HandleError(err)
	}

	if replaced {
		fmt.Println("✓ Replaced existing password hash")
	} else {
		fmt.Println("✓ Saved password hash")
	}
}

// savePassword stores password and reports whether a hash was replaced
func savePassword(m *core.Manager, password []byte) (bool, error) {
	existed, err := m.HashFileExists()
	if err != nil {
		return false, err
	}

	if err := m.Save(string(password)); err != nil {
		return false, err
	}

	slog.Info("password hash saved", "file", core.HashFile, "replaced", existed)
	return existed, nil
}
