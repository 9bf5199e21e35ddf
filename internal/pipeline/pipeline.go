// Package pipeline drives one obfuscation run through its stages:
// analyze the project tree, resolve the whitelist, extract symbols in
// parallel, build and freeze the rename table, then rewrite files in
// parallel. The frozen table is the barrier that makes cross-file
// renames consistent; no file is rewritten before it exists.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
	"github.com/cloakwork/objcloak/internal/namegen"
	"github.com/cloakwork/objcloak/internal/parsecache"
	"github.com/cloakwork/objcloak/internal/rewriter"
	"github.com/cloakwork/objcloak/internal/shield"
	"github.com/cloakwork/objcloak/internal/symtab"
	"github.com/cloakwork/objcloak/internal/whitelist"
)

// State is the pipeline's lifecycle position.
type State string

const (
	StateIdle               State = "idle"
	StateAnalyzing          State = "analyzing"
	StateWhitelistReady     State = "whitelist_ready"
	StateExtractionComplete State = "extraction_complete"
	StateTableFrozen        State = "table_frozen"
	StateRewriting          State = "rewriting"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// FileError records a per-file failure that did not stop the run.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Stats summarizes one run.
type Stats struct {
	FilesDiscovered int                    `json:"files_discovered"`
	SourceFiles     int                    `json:"source_files"`
	FilesRewritten  int                    `json:"files_rewritten"`
	FilesCopied     int                    `json:"files_copied"`
	SymbolsFound    int                    `json:"symbols_found"`
	SymbolsRenamed  int                    `json:"symbols_renamed"`
	SkippedByTier   map[whitelist.Tier]int `json:"skipped_by_tier"`
	CacheHits       int64                  `json:"cache_hits"`
	CacheMisses     int64                  `json:"cache_misses"`
	CacheHitRate    float64                `json:"cache_hit_rate"`
	Errors          []FileError            `json:"errors,omitempty"`
}

// Pipeline is one run. Create with New, drive with Run, then read
// Stats, State and Table.
type Pipeline struct {
	cfg      *config.Config
	cache    *parsecache.Cache
	gen      *namegen.Generator
	table    *symtab.Table
	resolver *whitelist.Resolver

	mu       sync.Mutex
	state    State
	stats    Stats
	warnings []string
}

// New prepares a pipeline for the given configuration. The parse cache
// is opened here so cache failures surface before any work starts.
func New(cfg *config.Config) (*Pipeline, error) {
	cache, err := parsecache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("opening parse cache: %w", err)
	}
	return &Pipeline{
		cfg:   cfg,
		cache: cache,
		gen:   namegen.New(cfg.Naming),
		table: symtab.New(),
		state: StateIdle,
		stats: Stats{SkippedByTier: make(map[whitelist.Tier]int)},
	}, nil
}

// State returns the current lifecycle position.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Table returns the rename table. Meaningful once the state has reached
// TableFrozen.
func (p *Pipeline) Table() *symtab.Table { return p.table }

// Seed returns the effective naming seed, for reproducing a run.
func (p *Pipeline) Seed() int64 { return p.gen.Seed() }

// Warnings returns non-fatal notices gathered during the run.
func (p *Pipeline) Warnings() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.warnings...)
}

// Stats returns a snapshot of the run counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.SkippedByTier = make(map[whitelist.Tier]int, len(p.stats.SkippedByTier))
	for k, v := range p.stats.SkippedByTier {
		s.SkippedByTier[k] = v
	}
	s.Errors = append([]FileError(nil), p.stats.Errors...)
	cs := p.cache.Stats()
	s.CacheHits, s.CacheMisses, s.CacheHitRate = cs.Hits, cs.Misses, cs.HitRate()
	return s
}

// Run executes the whole pipeline. Any returned error is fatal: the
// state is Failed and the target tree must not be trusted. Per-file
// problems do not fail the run unless abort_on_error is set.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.run(ctx); err != nil {
		p.setState(StateFailed)
		return err
	}
	p.setState(StateDone)
	return nil
}

func (p *Pipeline) run(ctx context.Context) error {
	p.setState(StateAnalyzing)

	info, err := os.Stat(p.cfg.SourceDirectory)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path %s is not a directory", p.cfg.SourceDirectory)
	}
	if p.cfg.TargetDirectory == "" {
		return fmt.Errorf("target directory is not set")
	}

	files, err := collectFiles(p.cfg)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.stats.FilesDiscovered = len(files)
	for _, f := range files {
		if f.source {
			p.stats.SourceFiles++
		}
	}
	p.mu.Unlock()

	p.buildResolver()
	p.setState(StateWhitelistReady)

	symbols, err := p.extractAll(ctx, files)
	if err != nil {
		return err
	}
	p.setState(StateExtractionComplete)

	p.buildTable(symbols)
	p.setState(StateTableFrozen)

	p.setState(StateRewriting)
	if err := os.MkdirAll(p.cfg.TargetDirectory, 0o755); err != nil {
		return fmt.Errorf("target directory: %w", err)
	}
	if err := p.rewriteAll(ctx, files); err != nil {
		return err
	}

	mappingPath := filepath.Join(p.cfg.TargetDirectory, p.cfg.MappingFile)
	if err := WriteMapping(mappingPath, p.gen.Seed(), p.table); err != nil {
		return err
	}
	return nil
}

// buildResolver assembles the three whitelist tiers. Manifest and
// custom-list problems degrade to warnings; a run never fails because a
// Podfile is unparsable.
func (p *Pipeline) buildResolver() {
	var thirdParty map[string]whitelist.Entry
	if p.cfg.Whitelist.ScanManifests {
		var warns []string
		thirdParty, warns = whitelist.ScanManifests(p.cfg.SourceDirectory)
		p.warn(warns...)
	}

	var custom *whitelist.CustomList
	if p.cfg.Whitelist.CustomPath != "" {
		list, err := whitelist.LoadCustomList(p.cfg.Whitelist.CustomPath)
		if err != nil {
			p.warn(fmt.Sprintf("custom whitelist: %v", err))
		}
		custom = list
	}

	p.resolver = whitelist.NewResolver(thirdParty, custom, p.cfg.Whitelist.ExtraProtected)
}

// extractAll scans every source file on a bounded worker pool, serving
// repeat files from the parse cache.
func (p *Pipeline) extractAll(ctx context.Context, files []walkedFile) ([]extractor.Symbol, error) {
	var mu sync.Mutex
	var all []extractor.Symbol

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism())
	for _, f := range files {
		if !f.source {
			continue
		}
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			syms, err := p.extractFile(f)
			if err != nil {
				return p.recordError(f.rel, err)
			}
			mu.Lock()
			all = append(all, syms...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.stats.SymbolsFound = len(all)
	p.mu.Unlock()
	return all, nil
}

func (p *Pipeline) extractFile(f walkedFile) ([]extractor.Symbol, error) {
	content, err := os.ReadFile(f.abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(f.abs)
	if err != nil {
		return nil, err
	}

	if syms, ok := p.cache.Get(f.abs, content, info); ok {
		return syms, nil
	}

	clean, _ := shield.Shield(string(content), f.dialect)
	syms := extractor.Extract(clean, f.dialect, f.rel)
	if err := p.cache.Put(f.abs, content, info, syms); err != nil {
		p.warn(fmt.Sprintf("cache write for %s: %v", f.rel, err))
	}
	return syms, nil
}

// buildTable is the sequential reduction between extraction and
// rewriting. Symbols are sorted before any name is drawn so the same
// project and seed always produce the same table, no matter how the
// parallel extraction interleaved.
func (p *Pipeline) buildTable(symbols []extractor.Symbol) {
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].Name != symbols[j].Name {
			return symbols[i].Name < symbols[j].Name
		}
		if symbols[i].Kind != symbols[j].Kind {
			return symbols[i].Kind < symbols[j].Kind
		}
		return symbols[i].DeclaringFile < symbols[j].DeclaringFile
	})

	// a generated name must never collide with a name the project
	// already uses
	for _, sym := range symbols {
		p.gen.Reserve(sym.Name)
	}

	seen := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true

		if !p.renameEnabled(sym.Kind) {
			continue
		}
		if tier, protected := p.resolver.Lookup(sym.Name, sym.Kind); protected {
			p.mu.Lock()
			p.stats.SkippedByTier[tier]++
			p.mu.Unlock()
			continue
		}

		obfuscated := p.gen.Generate(sym)
		if err := p.table.Insert(sym, obfuscated); err != nil {
			p.warn(fmt.Sprintf("table insert for %s: %v", sym.Name, err))
			continue
		}
		p.mu.Lock()
		p.stats.SymbolsRenamed++
		p.mu.Unlock()
	}

	p.table.Freeze()
}

// rewriteAll writes the target tree: source files pass through the
// rewriter, everything else is copied verbatim. Unwritable output is
// fatal; unreadable individual inputs are recorded and skipped.
func (p *Pipeline) rewriteAll(ctx context.Context, files []walkedFile) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism())
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(f.abs)
			if err != nil {
				return p.recordError(f.rel, err)
			}

			out := content
			if f.source {
				out = []byte(rewriter.Rewrite(string(content), f.dialect, p.table))
			}

			dst := filepath.Join(p.cfg.TargetDirectory, filepath.FromSlash(f.rel))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return fmt.Errorf("creating output directory for %s: %w", f.rel, err)
			}
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dst, err)
			}

			p.mu.Lock()
			if f.source {
				p.stats.FilesRewritten++
			} else {
				p.stats.FilesCopied++
			}
			p.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// recordError books a per-file failure. It returns an error only when
// abort_on_error promotes the failure to fatal.
func (p *Pipeline) recordError(path string, err error) error {
	p.mu.Lock()
	p.stats.Errors = append(p.stats.Errors, FileError{Path: path, Message: err.Error()})
	p.mu.Unlock()
	if p.cfg.AbortOnError {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !p.cfg.Silent {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
	}
	return nil
}

func (p *Pipeline) renameEnabled(kind extractor.Kind) bool {
	switch kind {
	case extractor.KindClass:
		return p.cfg.Rename.Classes
	case extractor.KindProtocol:
		return p.cfg.Rename.Protocols
	case extractor.KindCategory:
		return p.cfg.Rename.Categories
	case extractor.KindEnum:
		return p.cfg.Rename.Enums
	case extractor.KindMethod:
		return p.cfg.Rename.Methods
	case extractor.KindProperty:
		return p.cfg.Rename.Properties
	case extractor.KindConstant:
		return p.cfg.Rename.Constants
	}
	return false
}

func (p *Pipeline) parallelism() int {
	if p.cfg.Parallelism > 0 {
		return p.cfg.Parallelism
	}
	return runtime.NumCPU()
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) warn(msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	p.mu.Lock()
	p.warnings = append(p.warnings, msgs...)
	p.mu.Unlock()
	if !p.cfg.Silent {
		for _, m := range msgs {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", m)
		}
	}
}
