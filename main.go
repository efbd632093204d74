package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/hashguard/cmd"
	"github.com/illarion/hashguard/internal/config"
	"github.com/illarion/hashguard/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "save":
		cmd.Save(ctx, loadConfig("save", os.Args[2:]))
	case "verify":
		cmd.Verify(ctx, loadConfig("verify", os.Args[2:]))
	case "show":
		cmd.Show(ctx, loadConfig("show", os.Args[2:]))
	case "status":
		cmd.Status(ctx, loadConfig("status", os.Args[2:]))
	case "compact":
		cmd.Compact(ctx, loadConfig("compact", os.Args[2:]))
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig parses the common flags of a command, loads configuration and
// installs the logger it describes.
func loadConfig(name string, args []string) *config.Config {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configFile := fs.String("config", "", "Configuration file (default: ./hashguard.yaml if present)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: %s takes no arguments\n", name)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})

	return cfg
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hashguard completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("hashguard - Store and check a single password hash")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hashguard <command> [-config file]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  save        Hash a password and store it read-only")
	fmt.Println("  verify      Check a password against the stored hash")
	fmt.Println("  show        Print the stored hash")
	fmt.Println("  status      Show hash file state and parameters")
	fmt.Println("  compact     Compact the bolt database")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  hashguard save                          # Prompt twice and store the hash")
	fmt.Println("  HASHGUARD_PASSWORD=... hashguard verify # Non-interactive check")
	fmt.Println("  hashguard status                        # Inspect the stored hash")
	fmt.Println()
	fmt.Println("Use 'hashguard help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "save":
		fmt.Println("hashguard save [-config file]")
		fmt.Println()
		fmt.Println("Hashes a password with the configured algorithm (Argon2id by default)")
		fmt.Println("and stores it in password_hash.txt, which is then made read-only.")
		fmt.Println("An existing hash is replaced without confirmation.")
		fmt.Println("Reads HASHGUARD_PASSWORD if set, otherwise prompts twice.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  hashguard save")
		fmt.Println("  HASHGUARD_PASSWORD=secret hashguard save")
	case "verify":
		fmt.Println("hashguard verify [-config file]")
		fmt.Println()
		fmt.Println("Checks a password against the stored hash.")
		fmt.Println("Exits 0 when it matches and 1 otherwise.")
		fmt.Println("Reads HASHGUARD_PASSWORD if set, otherwise prompts once.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  hashguard verify && echo ok")
	case "show":
		fmt.Println("hashguard show [-config file]")
		fmt.Println()
		fmt.Println("Prints the stored hash. Does not require a password.")
	case "status":
		fmt.Println("hashguard status [-config file]")
		fmt.Println()
		fmt.Println("Shows hash status including:")
		fmt.Println("  - Storage backend and location")
		fmt.Println("  - Mode, size and modification time")
		fmt.Println("  - Hash algorithm and parameters")
		fmt.Println("  - Whether the hash should be re-created with current settings")
		fmt.Println("  - Git warnings when the hash file is tracked or not ignored")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("hashguard compact [-config file]")
		fmt.Println()
		fmt.Println("Compacts the bolt database to reclaim unused disk space.")
		fmt.Println("Only available with storage.backend: bolt.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "completion":
		fmt.Println("hashguard completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(hashguard completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(hashguard completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  hashguard completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
