// Package main provides the liveedit CLI tool for managing translation bundles.
//
// The liveedit CLI is a command-line interface for common development tasks
// around live-editable translation files: inspecting bundles the way the
// tracker sees them, comparing locales, and validating bundle files.
//
// Usage:
//
//	liveedit <command> [options]
//
// Commands:
//
//	i18n    Manage translation bundle files
//	help    Show help message
//
// Examples:
//
//	# Print a bundle as the flat dot-path pairs the tracker indexes
//	liveedit i18n flatten --file=./locales/en.toml
//
//	# Find missing translation keys
//	liveedit i18n find-missing --source=en --target=es
//
//	# Validate locale files
//	liveedit i18n validate --dir=./locales
//
// Installation:
//
//	go install github.com/kdsmith18542/liveedit/cmd/liveedit@latest
package main

import (
	"fmt"
	"os"

	cli "github.com/kdsmith18542/liveedit/cmd/liveedit/i18n"
)

// main is the entry point for the liveedit CLI application.
// It parses command-line arguments and delegates to the appropriate command handler.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "i18n":
		cli.Run(args)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// printUsage displays the CLI usage information and available commands.
func printUsage() {
	fmt.Println("liveedit CLI - Tools for live-editable translations")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  liveedit <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  i18n    Manage translation bundle files")
	fmt.Println("  help    Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  liveedit i18n flatten --file=./locales/en.toml")
	fmt.Println("  liveedit i18n find-missing --source=en --target=es")
	fmt.Println("  liveedit i18n validate --dir=./locales")
}
