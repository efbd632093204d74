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

// Verify checks a password against the stored hash. Exits 1 on mismatch.
func Verify(_ context.Context, cfg *config.Config) {
	m := OpenManagerOrExit(cfg)

	stored, err := m.ReadHashFromFile()
	if err != nil {
		m.Close()
		HandleError(err)
	}

	password := GetPasswordOrExit("Enter password: ")
	defer crypto.ClearBytes(password)

	ok, err := verifyPassword(m, stored, password)
	m.Close()
	if err != nil {
		HandleError(err)
	}

	if !ok {
		fmt.Fprintln(os.Stderr, "✗ Password does not match")
		os.Exit(1)
	}
	fmt.Println("✓ Password matches")
}

func verifyPassword(m *core.Manager, stored string, password []byte) (bool, error) {
	ok, err := m.VerifyPassword(stored, string(password))
	if err != nil || !ok {
		return ok, err
	}

	if advice, err := m.Inspect(stored); err == nil && advice.Needed {
		slog.Warn("stored hash uses outdated parameters, run 'hashguard save' to upgrade",
			"stored", advice.Stored.String(),
			"current", advice.Current.String())
	}
	return true, nil
}
