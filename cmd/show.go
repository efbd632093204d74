package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/hashguard/internal/config"
)

// Show prints the stored hash
func Show(_ context.Context, cfg *config.Config) {
	m := OpenManagerOrExit(cfg)
	defer m.Close()

	stored, err := m.ReadHashFromFile()
	if err != nil {
		HandleError(err)
	}

	fmt.Println(stored)
}
