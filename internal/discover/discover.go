// Package discover finds source files and reads them into memory.
package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	log "github.com/sirupsen/logrus"

	"github.com/scott-clare1/oop-viewer/internal/lang"
	"github.com/scott-clare1/oop-viewer/internal/model"
)

// ErrNoSources is returned when a directory holds no matching files.
var ErrNoSources = errors.New("no source files found")

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to root
	Language string
}

// Options controls which files are discovered.
type Options struct {
	// Language restricts discovery to one registered language. Empty means lang.Default.
	Language string
	// Exclude holds gitignore-style patterns relative to root, e.g. "venv/".
	Exclude []string
	// Gitignore honours `git ls-files` or root .gitignore when true.
	Gitignore bool
	// MaxFileSize skips files larger than this many bytes. Zero means unlimited.
	MaxFileSize int64
}

// vcsDirs hold repository metadata, never sources. Everything else is
// skipped only through Options.Exclude.
var vcsDirs = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
}

// Files discovers source files under root matching opts.Language, sorted by path.
// Any walk error is returned; unreadable directories are not skipped.
func Files(root string, opts Options) ([]FileEntry, error) {
	want := opts.Language
	if want == "" {
		want = lang.Default
	}

	var gitFiles map[string]struct{}
	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gitFiles = gitLsFiles(root)
		if gitFiles == nil {
			gi = loadGitignore(root)
		}
	}
	var excl *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		excl = ignore.CompileIgnoreLines(opts.Exclude...)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := vcsDirs[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if excl != nil && excl.MatchesPath(rel) {
			return nil
		}

		if lang.ForExtension(filepath.Ext(name)) != want {
			return nil
		}

		if opts.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > opts.MaxFileSize {
				log.WithFields(log.Fields{"file": rel, "limit": opts.MaxFileSize}).Warn("skipped: file too large")
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Language: want})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// Load reads target into memory. A regular file yields exactly one Source,
// whatever its extension; a directory yields one Source per discovered file.
// Every file is read before Load returns. The first stat, walk or read
// failure aborts the load and names the offending path.
func Load(target string, opts Options) ([]model.Source, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", target, err)
		}
		return []model.Source{{Path: target, Content: content}}, nil
	}

	entries, err := Files(target, opts)
	if err != nil {
		return nil, fmt.Errorf("discovering files in %s: %w", target, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", target, ErrNoSources)
	}

	sources := make([]model.Source, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(target, e.Path)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, model.Source{Path: path, Content: content})
	}

	log.WithFields(log.Fields{"root": target, "files": len(sources)}).Debug("loaded sources")
	return sources, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[filepath.FromSlash(line)] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
