package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
)

// walkedFile is one file discovered under the source root. Non-source
// files are carried along so the target tree is a complete copy of the
// project, not just its rewritten sources.
type walkedFile struct {
	abs     string
	rel     string // slash-separated, relative to the source root
	dialect extractor.Dialect
	source  bool
}

// collectFiles walks the source tree and returns every file the run will
// touch. The .git directory is always skipped, the target directory is
// skipped when it nests inside the source, .gitignore rules apply when
// configured, and excluded_patterns are doublestar globs matched against
// the slash-relative path.
func collectFiles(cfg *config.Config) ([]walkedFile, error) {
	root := cfg.SourceDirectory

	var matcher *ignore.GitIgnore
	if cfg.RespectGitignore {
		if m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			matcher = m
		}
	}

	targetRel := ""
	if cfg.TargetDirectory != "" {
		if rel, err := filepath.Rel(root, cfg.TargetDirectory); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
			targetRel = filepath.ToSlash(rel)
		}
	}

	extensions := make(map[string]bool, len(cfg.SourceExtensions))
	for _, ext := range cfg.SourceExtensions {
		extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var files []walkedFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || rel == targetRel {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			if matchesAny(cfg.ExcludedPatterns, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !cfg.FollowSymlinks {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		if matchesAny(cfg.ExcludedPatterns, rel) {
			return nil
		}

		f := walkedFile{abs: path, rel: rel}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if extensions[ext] {
			if dialect, ok := extractor.DialectForFile(path); ok {
				f.dialect = dialect
				f.source = true
			}
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source directory %s: %w", root, err)
	}
	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
