package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"
)

// Language is the enry name of the only language codefix analyzes.
const Language = "C#"

// ErrNoInput is returned when no path was given.
var ErrNoInput = errors.New("no input paths")

// File is one discovered source file.
type File struct {
	Path string
	Size int64

	// Explicit is set for files named on the command line; they skip
	// language detection.
	Explicit bool
}

// Discover expands paths into source files. Directories are walked
// lexically; vendored, hidden and non-C# files are skipped, as is every file
// larger than maxSize when maxSize is non-zero.
func Discover(paths []string, maxSize uint64, logger *slog.Logger) ([]File, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		out  []File
		seen = make(map[string]bool)
	)

	add := func(f File) {
		if seen[f.Path] {
			return
		}

		if maxSize > 0 && uint64(max(f.Size, 0)) > maxSize {
			logger.Debug("skipping large file", "path", f.Path, "size", humanize.Bytes(uint64(f.Size)))

			return
		}

		seen[f.Path] = true
		out = append(out, f)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			add(File{Path: filepath.Clean(p), Size: info.Size(), Explicit: true})

			continue
		}

		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(p, path)
			if relErr != nil || rel == "." {
				return nil //nolint:nilerr // the root itself is never skipped.
			}

			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if enry.IsDotFile(rel) || enry.IsVendor(rel+"/") {
					return filepath.SkipDir
				}

				return nil
			}

			if !d.Type().IsRegular() || enry.IsVendor(rel) || !mayBeCSharp(path) {
				return nil
			}

			fi, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}

			add(File{Path: path, Size: fi.Size()})

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", p, walkErr)
		}
	}

	return out, nil
}

// mayBeCSharp is the extension pre-filter; content decides ambiguous
// extensions once the file is read.
func mayBeCSharp(path string) bool {
	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), Language)
}

// isCSharp classifies a read file the way the language plumbing does.
func isCSharp(path string, data []byte) bool {
	return enry.GetLanguage(filepath.Base(path), data) == Language
}
