package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kdsmith18542/liveedit/live"
)

// exitFunc is used for testability; defaults to os.Exit but can be overridden in tests
var exitFunc = os.Exit

// validatePath ensures the path is safe and within allowed directories
func validatePath(path string) error {
	// Check for path traversal attempts
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}

	// Ensure path is valid
	_, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %s", path)
	}

	return nil
}

// Run executes the i18n command-line tool.
// It parses subcommands and arguments to perform bundle-related operations
// like flattening a bundle, finding missing keys, or validating files.
func Run(args []string) {
	if len(args) < 1 {
		printI18nUsage()
		exitFunc(1)
		return
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "flatten":
		flattenBundle(subArgs)
	case "find-missing":
		findMissingKeys(subArgs)
	case "validate":
		validateFiles(subArgs)
	case "help":
		printI18nUsage()
	default:
		fmt.Printf("Unknown i18n subcommand: %s\n", subcommand)
		printI18nUsage()
		exitFunc(1)
		return
	}
}

func printI18nUsage() {
	fmt.Println("i18n - Manage translation bundle files")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  liveedit i18n <subcommand> [options]")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  flatten       Print a bundle as flat dot-path key/value pairs")
	fmt.Println("  find-missing  Find missing translation keys between locales")
	fmt.Println("  validate      Validate bundle files for syntax and completeness")
	fmt.Println("  help          Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  liveedit i18n flatten --file=./locales/en.toml")
	fmt.Println("  liveedit i18n find-missing --source=en --target=es --dir=./locales")
	fmt.Println("  liveedit i18n validate --dir=./locales")
}

// flattenBundle prints a bundle file as the flat dot-path pairs the live
// tracker indexes, which is what the editor operates on.
func flattenBundle(args []string) {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	file := fs.String("file", "", "Bundle file to flatten (e.g., ./locales/en.toml)")

	if err := fs.Parse(args); err != nil {
		fmt.Printf("Error parsing flags: %v\n", err)
		fs.Usage()
		exitFunc(1)
		return
	}

	if *file == "" {
		fmt.Println("Error: --file is required")
		fs.Usage()
		exitFunc(1)
		return
	}

	messages := loadBundleFile(*file)
	if messages == nil {
		fmt.Printf("Error: Could not parse %s\n", *file)
		exitFunc(1)
		return
	}

	flat := live.Flatten(messages)
	for _, msg := range flat {
		fmt.Printf("%s = %q\n", msg.Key, msg.Value)
	}
	fmt.Printf("\n%d translatable keys\n", len(flat))
}

func findMissingKeys(args []string) {
	fs := flag.NewFlagSet("find-missing", flag.ExitOnError)
	source := fs.String("source", "", "Source locale (e.g., en)")
	target := fs.String("target", "", "Target locale (e.g., es)")
	dir := fs.String("dir", "./locales", "Directory containing locale files")

	if err := fs.Parse(args); err != nil {
		fmt.Printf("Error parsing flags: %v\n", err)
		fs.Usage()
		exitFunc(1)
		return
	}

	if *source == "" || *target == "" {
		fmt.Println("Error: --source and --target are required")
		fs.Usage()
		exitFunc(1)
		return
	}

	// Validate directory path
	if err := validatePath(*dir); err != nil {
		fmt.Printf("Error: %v\n", err)
		exitFunc(1)
		return
	}

	sourceFile := filepath.Join(*dir, *source+".toml")
	targetFile := filepath.Join(*dir, *target+".toml")

	sourceKeys := getKeysFromBundleFile(sourceFile)
	if sourceKeys == nil {
		fmt.Printf("Error: Source locale '%s' not found in %s\n", *source, *dir)
		exitFunc(1)
		return
	}
	targetKeys := getKeysFromBundleFile(targetFile)
	if targetKeys == nil {
		fmt.Printf("Error: Target locale '%s' not found in %s\n", *target, *dir)
		exitFunc(1)
		return
	}

	// Find missing keys
	missingKeys := findMissingKeysInTarget(sourceKeys, targetKeys)
	extraKeys := findMissingKeysInTarget(targetKeys, sourceKeys)

	fmt.Printf("Comparing %s -> %s\n", *source, *target)
	fmt.Printf("Source file: %s\n", sourceFile)
	fmt.Printf("Target file: %s\n", targetFile)
	fmt.Println()

	if len(missingKeys) == 0 && len(extraKeys) == 0 {
		fmt.Println("✅ All keys are synchronized between locales")
		return
	}

	if len(missingKeys) > 0 {
		fmt.Printf("❌ Missing keys in %s (%d):\n", *target, len(missingKeys))
		for _, key := range missingKeys {
			fmt.Printf("  - %s\n", key)
		}
		fmt.Println()
	}

	if len(extraKeys) > 0 {
		fmt.Printf("⚠️  Extra keys in %s (%d):\n", *target, len(extraKeys))
		for _, key := range extraKeys {
			fmt.Printf("  - %s\n", key)
		}
		fmt.Println()
	}
}

func validateFiles(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dir := fs.String("dir", "./locales", "Directory containing locale files")

	if err := fs.Parse(args); err != nil {
		fmt.Printf("Error parsing flags: %v\n", err)
		fs.Usage()
		exitFunc(1)
		return
	}

	// Validate directory path
	if err := validatePath(*dir); err != nil {
		fmt.Printf("Error: %v\n", err)
		exitFunc(1)
		return
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.toml"))
	if err != nil {
		fmt.Printf("Error reading directory %s: %v\n", *dir, err)
		exitFunc(1)
		return
	}

	if len(files) == 0 {
		fmt.Printf("No .toml files found in %s\n", *dir)
		return
	}

	fmt.Printf("Validating %d locale files in %s\n\n", len(files), *dir)

	allValid := true

	for _, file := range files {
		locale := strings.TrimSuffix(filepath.Base(file), ".toml")
		fmt.Printf("Validating %s (%s)... ", file, locale)

		messages := loadBundleFile(file)
		if messages == nil {
			fmt.Printf("❌ Error: Could not parse file\n")
			allValid = false
			continue
		}

		// Check for empty values
		emptyKeys := findEmptyKeys(messages)
		if len(emptyKeys) > 0 {
			fmt.Printf("⚠️  Warning: %d empty keys\n", len(emptyKeys))
			for _, key := range emptyKeys {
				fmt.Printf("    - %s\n", key)
			}
		} else {
			fmt.Println("✅ Valid")
		}
	}

	if allValid {
		fmt.Println("\n✅ All files are valid")
	} else {
		fmt.Println("\n❌ Some files have errors")
		exitFunc(1)
		return
	}
}

func findMissingKeysInTarget(source, target []string) []string {
	targetMap := make(map[string]bool)
	for _, key := range target {
		targetMap[key] = true
	}

	var missing []string
	for _, key := range source {
		if !targetMap[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

// loadBundleFile parses a TOML bundle file into a nested message tree.
func loadBundleFile(path string) map[string]interface{} {
	// Validate file path before reading
	if err := validatePath(path); err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var messages map[string]interface{}
	if err := toml.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}

// getKeysFromBundleFile returns all flat dot-path keys in a bundle file,
// including nested tables. Returns nil when the file cannot be parsed.
func getKeysFromBundleFile(path string) []string {
	messages := loadBundleFile(path)
	if messages == nil {
		return nil
	}

	flat := live.Flatten(messages)
	keys := make([]string, 0, len(flat))
	for _, msg := range flat {
		keys = append(keys, msg.Key)
	}
	return keys
}

// findEmptyKeys returns the sorted dot-path keys with empty string values.
func findEmptyKeys(messages map[string]interface{}) []string {
	var emptyKeys []string
	for _, msg := range live.Flatten(messages) {
		if msg.Value == "" {
			emptyKeys = append(emptyKeys, msg.Key)
		}
	}
	return emptyKeys
}
