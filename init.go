package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scott-clare1/oop-viewer/internal/config"
)

const (
	sentinelStart = "# oop-viewer:start"
	sentinelEnd   = "# oop-viewer:end"
)

// newInitCmd implements `oop-viewer init`, which writes (or updates) the
// default settings block in a config file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default " + config.FileName,
		Long: `Write the default oop-viewer settings to <dir>/` + config.FileName + `.

The settings are wrapped in sentinel comments so later runs replace them in
place. A file that exists without the sentinels is left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := generateSection()
			if err != nil {
				return err
			}

			// --dry-run with no dir: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(stdout, section)
				return nil
			}

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.FileName)

			existing, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			updated, err := applySection(string(existing), section)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if dryRun {
				_, _ = fmt.Fprint(stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote default settings to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the sentinel-wrapped default settings.
func generateSection() (string, error) {
	body, err := config.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding defaults: %w", err)
	}
	header := `# oop-viewer settings. Command-line flags override these values.
#   policy: descendants | direct
#   parser: heuristic | tree-sitter
#   format: toon | dot | json
#   workers: 0 uses every CPU
#   max_file_size: bytes, 0 means unlimited`
	return sentinelStart + "\n" + header + "\n" + strings.TrimRight(string(body), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present. Non-blank content without a block is rejected since
// appending would duplicate YAML keys.
func applySection(content, section string) (string, error) {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):], nil
	}

	if strings.TrimSpace(content) != "" {
		return "", fmt.Errorf("existing settings are not managed by oop-viewer init")
	}
	return section + "\n", nil
}
