// Package namegen synthesizes obfuscated replacement names. Strategies
// form a closed set selected by configuration; every strategy is
// deterministic for a fixed (original name, kind, seed) triple, which is
// what keeps mappings stable across incremental builds.
package namegen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/cloakwork/objcloak/internal/config"
	"github.com/cloakwork/objcloak/internal/extractor"
)

const (
	firstChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	bodyChars  = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	maxAttempts = 50
)

// Generator issues unique obfuscated names for one run.
type Generator struct {
	cfg  config.NamingConfig
	seed int64

	mu      sync.Mutex
	issued  map[string]bool
	counter int
}

// New creates a generator. A zero configured seed means a fresh random
// seed for this run; the effective seed is retrievable via Seed so it
// can be reported alongside the mapping.
func New(cfg config.NamingConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]) >> 1)
		} else {
			seed = 1 // degenerate but functional
		}
	}
	return &Generator{
		cfg:    cfg,
		seed:   seed,
		issued: make(map[string]bool),
	}
}

// Seed returns the effective seed for this run.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Reserve marks a name as taken so generated names can never collide
// with it. Used for names the run leaves unrenamed.
func (g *Generator) Reserve(name string) {
	g.mu.Lock()
	g.issued[name] = true
	g.mu.Unlock()
}

// Generate returns a unique obfuscated name for sym. Multipart selector
// names get one generated segment per original segment, each keeping its
// trailing colon; uniqueness is checked on the joined form. After the
// collision retry budget is exhausted a running counter is appended,
// which cannot collide.
func (g *Generator) Generate(sym extractor.Symbol) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := g.synthesize(sym, attempt)
		if candidate == "" || candidate == sym.Name {
			continue
		}
		if !g.issued[candidate] {
			g.issued[candidate] = true
			return candidate
		}
	}

	// deterministic fallback: counter suffixes are unique by construction
	base := g.synthesize(sym, 0)
	for {
		g.counter++
		candidate := appendCounter(base, g.counter, sym.Multipart)
		if !g.issued[candidate] {
			g.issued[candidate] = true
			return candidate
		}
	}
}

// appendCounter grafts a numeric suffix onto a name. For multipart names
// the suffix lands on the last segment, before its colon, so the segment
// count is preserved.
func appendCounter(name string, n int, multipart bool) string {
	if multipart && strings.HasSuffix(name, ":") {
		return fmt.Sprintf("%s%d:", strings.TrimSuffix(name, ":"), n)
	}
	return fmt.Sprintf("%s%d", name, n)
}

// synthesize produces one candidate name without uniqueness bookkeeping.
func (g *Generator) synthesize(sym extractor.Symbol, attempt int) string {
	if sym.Multipart {
		segs := make([]string, len(sym.Parts))
		for i, part := range sym.Parts {
			segs[i] = g.word(part+sym.Name, sym.Kind, attempt) + ":"
		}
		return strings.Join(segs, "")
	}
	return g.word(sym.Name, sym.Kind, attempt)
}

// word generates a single identifier per the configured strategy, cased
// for the symbol kind: type-like kinds get an uppercase initial, member
// kinds a lowercase one.
func (g *Generator) word(key string, kind extractor.Kind, attempt int) string {
	rng := g.rng(key, kind, attempt)

	var name string
	switch g.cfg.Strategy {
	case config.StrategyDictionary:
		name = dictionaryWord(rng, g.cfg.MinNameLength, g.cfg.MaxNameLength)
	case config.StrategyPatternTemplate:
		name = templateWord(rng, g.cfg.Prefix, g.cfg.MinNameLength, g.cfg.MaxNameLength)
	case config.StrategyHashBased:
		name = hashWord(key, g.seed, attempt, g.cfg.MinNameLength, g.cfg.MaxNameLength)
	default: // StrategyRandomChars
		name = randomWord(rng, g.cfg.MinNameLength, g.cfg.MaxNameLength)
	}

	return applyKindCase(name, kind)
}

// rng builds the deterministic per-name random source. The same
// (key, kind, seed, attempt) always yields the same stream.
func (g *Generator) rng(key string, kind extractor.Kind, attempt int) *mrand.Rand {
	h := xxhash.New()
	_, _ = h.WriteString(string(kind))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(key)
	_, _ = h.WriteString(fmt.Sprintf("\x00%d\x00%d", g.seed, attempt))
	return mrand.New(mrand.NewSource(int64(h.Sum64() >> 1)))
}

func randomWord(rng *mrand.Rand, minLen, maxLen int) string {
	length := minLen
	if maxLen > minLen {
		length += rng.Intn(maxLen - minLen + 1)
	}
	var sb strings.Builder
	sb.Grow(length)
	sb.WriteByte(firstChars[rng.Intn(len(firstChars))])
	for i := 1; i < length; i++ {
		sb.WriteByte(bodyChars[rng.Intn(len(bodyChars))])
	}
	return sb.String()
}

func dictionaryWord(rng *mrand.Rand, minLen, maxLen int) string {
	var sb strings.Builder
	for sb.Len() < minLen {
		w := dictionary[rng.Intn(len(dictionary))]
		if sb.Len() == 0 {
			sb.WriteString(w)
		} else {
			sb.WriteString(strings.ToUpper(w[:1]))
			sb.WriteString(w[1:])
		}
	}
	name := sb.String()
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}

func templateWord(rng *mrand.Rand, prefix string, minLen, maxLen int) string {
	if prefix == "" {
		prefix = "OC"
	}
	fragLen := minLen - len(prefix)
	if fragLen < 4 {
		fragLen = 4
	}
	if len(prefix)+fragLen > maxLen {
		fragLen = maxLen - len(prefix)
		if fragLen < 1 {
			fragLen = 1
		}
	}
	const hexChars = "0123456789abcdef"
	var sb strings.Builder
	sb.WriteString(prefix)
	for i := 0; i < fragLen; i++ {
		sb.WriteByte(hexChars[rng.Intn(len(hexChars))])
	}
	return sb.String()
}

func hashWord(key string, seed int64, attempt, minLen, maxLen int) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%s\x00%d\x00%d", key, seed, attempt))
	name := fmt.Sprintf("%016x", sum)
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	for len(name) < minLen {
		name += "0"
	}
	// identifiers must not begin with a digit
	if name[0] >= '0' && name[0] <= '9' {
		name = string('g'+(name[0]-'0')) + name[1:]
	}
	return name
}

// applyKindCase fixes the initial letter: classes, protocols, categories
// and enums read as type names, everything else as member names.
func applyKindCase(name string, kind extractor.Kind) string {
	if name == "" {
		return name
	}
	switch kind {
	case extractor.KindClass, extractor.KindProtocol, extractor.KindCategory, extractor.KindEnum:
		return strings.ToUpper(name[:1]) + name[1:]
	default:
		return strings.ToLower(name[:1]) + name[1:]
	}
}
