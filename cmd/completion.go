package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	script, err := completionScript(shell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\nSupported: bash, zsh, fish\n", err)
		os.Exit(1)
	}
	fmt.Print(script)
}

func completionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashCompletion, nil
	case "zsh":
		return zshCompletion, nil
	case "fish":
		return fishCompletion, nil
	default:
		return "", fmt.Errorf("unknown shell: %s", shell)
	}
}

const bashCompletion = `_hashguard() {
    local cur prev words cword
    _init_completion || return

    local commands="save verify show status compact help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    if [[ "$prev" == "-config" ]]; then
        _filedir '@(yaml|yml|json|toml)'
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        save|verify|show|status|compact)
            COMPREPLY=($(compgen -W "-config" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _hashguard hashguard
`

const zshCompletion = `#compdef hashguard

_hashguard() {
    local -a commands
    commands=(
        'save:Hash a password and store it read-only'
        'verify:Check a password against the stored hash'
        'show:Print the stored hash'
        'status:Show hash file state and parameters'
        'compact:Compact the bolt database'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'hashguard commands' commands
            ;;
        args)
            case "${words[2]}" in
                save|verify|show|status|compact)
                    _arguments '-config[Configuration file]:config file:_files -g "*.(yaml|yml|json|toml)"'
                    ;;
                help)
                    _describe -t commands 'hashguard commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_hashguard "$@"
`

const fishCompletion = `# hashguard fish completions

set -l commands save verify show status compact help completion

complete -c hashguard -f

# Commands
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a save -d 'Hash and store a password'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a verify -d 'Check a password'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a show -d 'Print the stored hash'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show hash status'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact bolt database'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c hashguard -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# -config for commands that load configuration
complete -c hashguard -n "__fish_seen_subcommand_from save verify show status compact" -o config -r -F -d 'Configuration file'

# help completions
complete -c hashguard -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c hashguard -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
