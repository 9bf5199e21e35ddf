// Package api provides the public API for using the obfuscator as a library.
//
// This package allows users to obfuscate Objective-C and Swift code
// programmatically using the same machinery available in the command-line
// interface. The API provides methods for obfuscating code strings, single
// files, and whole project directories.
//
// Basic usage example:
//
//	obf, err := api.NewObfuscator(api.Options{ConfigPath: "config.yaml"})
//	if err != nil {
//	    log.Fatalf("Failed to create obfuscator: %v", err)
//	}
//
//	result, err := obf.ObfuscateFile("Sources/LoginManager.m")
//	if err != nil {
//	    log.Fatalf("Failed to obfuscate file: %v", err)
//	}
//
//	fmt.Println(result) // Prints the rewritten source
package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
	"github.com/cloakwork/objcloak/internal/namegen"
	"github.com/cloakwork/objcloak/internal/pipeline"
	"github.com/cloakwork/objcloak/internal/rewriter"
	"github.com/cloakwork/objcloak/internal/shield"
	"github.com/cloakwork/objcloak/internal/symtab"
	"github.com/cloakwork/objcloak/internal/whitelist"
)

// PrintInfo prints formatted information to stdout, respecting the Testing flag.
// This function forwards to the internal config.PrintInfo function.
func PrintInfo(format string, args ...interface{}) {
	config.PrintInfo(format, args...)
}

// Obfuscator is the obfuscation engine. Single-file and code-string calls
// share one rename table, so a class obfuscated in one call keeps the same
// replacement in the next.
type Obfuscator struct {
	// Config holds the configuration settings for obfuscation
	Config *config.Config

	resolver *whitelist.Resolver
	gen      *namegen.Generator
	table    *symtab.Table
}

// Options configures a new Obfuscator instance.
type Options struct {
	// ConfigPath is the path to a YAML configuration file.
	// If empty, "config.yaml" is tried and defaults are used when absent.
	ConfigPath string

	// Silent suppresses informational messages during obfuscation.
	Silent bool

	// Seed overrides the naming seed from the configuration when non-zero.
	// Fixing the seed makes every rename reproducible.
	Seed int64
}

// NewObfuscator creates a new Obfuscator instance using the provided options.
//
// Returns an error if the configuration cannot be loaded or is invalid.
func NewObfuscator(options Options) (*Obfuscator, error) {
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if options.Silent {
		cfg.Silent = true
	}
	if options.Seed != 0 {
		cfg.Naming.Seed = options.Seed
	}

	var custom *whitelist.CustomList
	if cfg.Whitelist.CustomPath != "" {
		list, err := whitelist.LoadCustomList(cfg.Whitelist.CustomPath)
		if err != nil && !cfg.Silent {
			fmt.Fprintf(os.Stderr, "Warning: custom whitelist: %v\n", err)
		}
		custom = list
	}

	return &Obfuscator{
		Config:   cfg,
		resolver: whitelist.NewResolver(nil, custom, cfg.Whitelist.ExtraProtected),
		gen:      namegen.New(cfg.Naming),
		table:    symtab.New(),
	}, nil
}

// ObfuscateCode obfuscates a string of source code and returns the result.
//
// Parameters:
//   - code: The source text to obfuscate
//   - filename: A representative file name; its extension selects the
//     dialect (".h", ".m", ".mm" for Objective-C, ".swift" for Swift)
//
// Returns the obfuscated source as a string, or an error if the extension
// maps to no known dialect.
func (o *Obfuscator) ObfuscateCode(code string, filename string) (string, error) {
	dialect, ok := extractor.DialectForFile(filename)
	if !ok {
		return "", fmt.Errorf("cannot determine dialect from file name %q", filename)
	}
	return o.obfuscateText(code, dialect, filepath.Base(filename)), nil
}

// ObfuscateFile obfuscates a source file and returns the rewritten code.
//
// Returns an error if the file cannot be read or has an unknown extension.
func (o *Obfuscator) ObfuscateFile(filePath string) (string, error) {
	dialect, ok := extractor.DialectForFile(filePath)
	if !ok {
		return "", fmt.Errorf("unsupported source file %q", filePath)
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return o.obfuscateText(string(content), dialect, filePath), nil
}

// ObfuscateFileToFile obfuscates a source file and writes the result to
// another file, creating parent directories as needed.
func (o *Obfuscator) ObfuscateFileToFile(inputPath, outputPath string) error {
	result, err := o.ObfuscateFile(inputPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}
	return nil
}

// ObfuscateDirectory obfuscates a whole project tree into outputDir using
// the full staged pipeline: manifest-derived whitelisting, cached parallel
// extraction, one frozen project-wide rename table, parallel rewriting,
// and a mapping file next to the rewritten sources.
//
// Returns the run statistics and an error if the run failed. On failure
// the target tree must not be trusted.
func (o *Obfuscator) ObfuscateDirectory(inputDir, outputDir string) (pipeline.Stats, error) {
	cfg := *o.Config
	cfg.SourceDirectory = inputDir
	cfg.TargetDirectory = outputDir

	p, err := pipeline.New(&cfg)
	if err != nil {
		return pipeline.Stats{}, err
	}
	if err := p.Run(context.Background()); err != nil {
		return p.Stats(), err
	}
	return p.Stats(), nil
}

// LookupObfuscatedName looks up the replacement issued for an original
// name by earlier ObfuscateCode/ObfuscateFile calls on this instance.
//
// Returns an error if the name was never renamed.
func (o *Obfuscator) LookupObfuscatedName(name string) (string, error) {
	if obf, ok := o.table.Resolve(name); ok {
		return obf, nil
	}
	return "", fmt.Errorf("name not found: %s", name)
}

// SaveMapping persists the rename table accumulated by this instance, in
// the same format the directory pipeline emits.
func (o *Obfuscator) SaveMapping(path string) error {
	return pipeline.WriteMapping(path, o.gen.Seed(), o.table)
}

// LoadMapping seeds this instance's rename table from a mapping file, so
// later calls reuse the replacements of a previous run.
func (o *Obfuscator) LoadMapping(path string) error {
	m, err := pipeline.LoadMapping(path)
	if err != nil {
		return err
	}
	for _, e := range m.Entries {
		sym := extractor.Symbol{Name: e.Original, Kind: e.Kind, DeclaringFile: e.FirstSeenFile}
		if strings.HasSuffix(e.Original, ":") {
			sym.Multipart = true
			for _, seg := range strings.Split(strings.TrimSuffix(e.Original, ":"), ":") {
				sym.Parts = append(sym.Parts, seg+":")
			}
		}
		o.gen.Reserve(e.Obfuscated)
		if err := o.table.Insert(sym, e.Obfuscated); err != nil {
			return err
		}
	}
	return nil
}

// obfuscateText runs the single-file flavor of the pipeline: shield,
// extract, extend the shared table with any new symbols, rewrite.
func (o *Obfuscator) obfuscateText(text string, dialect extractor.Dialect, file string) string {
	clean, _ := shield.Shield(text, dialect)
	symbols := extractor.Extract(clean, dialect, file)

	for _, sym := range symbols {
		o.gen.Reserve(sym.Name)
	}
	for _, sym := range symbols {
		if _, ok := o.table.Resolve(sym.Name); ok {
			continue
		}
		if !renameEnabled(o.Config, sym.Kind) {
			continue
		}
		if o.resolver.IsProtected(sym.Name, sym.Kind) {
			continue
		}
		// insert errors only happen on a frozen table, which this
		// instance never does
		_ = o.table.Insert(sym, o.gen.Generate(sym))
	}

	return rewriter.Rewrite(text, dialect, o.table)
}

func renameEnabled(cfg *config.Config, kind extractor.Kind) bool {
	switch kind {
	case extractor.KindClass:
		return cfg.Rename.Classes
	case extractor.KindProtocol:
		return cfg.Rename.Protocols
	case extractor.KindCategory:
		return cfg.Rename.Categories
	case extractor.KindEnum:
		return cfg.Rename.Enums
	case extractor.KindMethod:
		return cfg.Rename.Methods
	case extractor.KindProperty:
		return cfg.Rename.Properties
	case extractor.KindConstant:
		return cfg.Rename.Constants
	}
	return false
}
