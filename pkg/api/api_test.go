package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloakwork/objcloak/internal/config"
)

func init() {
	config.Testing = true
}

func newTestObfuscator(t *testing.T) *Obfuscator {
	t.Helper()
	obf, err := NewObfuscator(Options{Silent: true, Seed: 42})
	if err != nil {
		t.Fatalf("NewObfuscator failed: %v", err)
	}
	obf.Config.Whitelist.CustomPath = filepath.Join(t.TempDir(), "whitelist.json")
	return obf
}

const objcSnippet = `@interface LoginManager : NSObject
- (void)doThing:(TypeA)a second:(TypeB)b;
@end
`

func TestObfuscateCodeRenamesClass(t *testing.T) {
	obf := newTestObfuscator(t)

	out, err := obf.ObfuscateCode(objcSnippet, "Login.h")
	if err != nil {
		t.Fatalf("ObfuscateCode failed: %v", err)
	}
	if strings.Contains(out, "LoginManager") {
		t.Errorf("class name survived obfuscation:\n%s", out)
	}
	if !strings.Contains(out, "NSObject") {
		t.Errorf("platform superclass must survive:\n%s", out)
	}

	obfName, err := obf.LookupObfuscatedName("LoginManager")
	if err != nil {
		t.Fatalf("LookupObfuscatedName failed: %v", err)
	}
	if !strings.Contains(out, obfName) {
		t.Errorf("output does not contain issued name %q", obfName)
	}
}

func TestObfuscateCodeConsistentAcrossCalls(t *testing.T) {
	obf := newTestObfuscator(t)

	header, err := obf.ObfuscateCode(objcSnippet, "Login.h")
	if err != nil {
		t.Fatal(err)
	}
	impl, err := obf.ObfuscateCode("@implementation LoginManager\n@end\n", "Login.m")
	if err != nil {
		t.Fatal(err)
	}

	name, err := obf.LookupObfuscatedName("LoginManager")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(header, name) || !strings.Contains(impl, name) {
		t.Errorf("rename not shared across calls: header=%q impl=%q name=%q", header, impl, name)
	}
}

func TestObfuscateCodeUnknownExtension(t *testing.T) {
	obf := newTestObfuscator(t)
	if _, err := obf.ObfuscateCode("int x;", "main.c"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestObfuscateFileToFile(t *testing.T) {
	obf := newTestObfuscator(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "Login.h")
	out := filepath.Join(dir, "out", "Login.h")
	if err := os.WriteFile(in, []byte(objcSnippet), 0644); err != nil {
		t.Fatal(err)
	}

	if err := obf.ObfuscateFileToFile(in, out); err != nil {
		t.Fatalf("ObfuscateFileToFile failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if strings.Contains(string(data), "LoginManager") {
		t.Errorf("output file still contains the original name:\n%s", data)
	}
}

func TestSaveAndLoadMapping(t *testing.T) {
	first := newTestObfuscator(t)
	if _, err := first.ObfuscateCode(objcSnippet, "Login.h"); err != nil {
		t.Fatal(err)
	}
	issued, err := first.LookupObfuscatedName("LoginManager")
	if err != nil {
		t.Fatal(err)
	}

	mappingPath := filepath.Join(t.TempDir(), "mapping.json")
	if err := first.SaveMapping(mappingPath); err != nil {
		t.Fatalf("SaveMapping failed: %v", err)
	}

	second := newTestObfuscator(t)
	if err := second.LoadMapping(mappingPath); err != nil {
		t.Fatalf("LoadMapping failed: %v", err)
	}
	reloaded, err := second.LookupObfuscatedName("LoginManager")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded != issued {
		t.Errorf("loaded mapping issued %q, want %q", reloaded, issued)
	}
}

func TestObfuscateDirectory(t *testing.T) {
	obf := newTestObfuscator(t)
	obf.Config.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "Login.h"), []byte(objcSnippet), 0644); err != nil {
		t.Fatal(err)
	}
	dst := t.TempDir()

	stats, err := obf.ObfuscateDirectory(src, dst)
	if err != nil {
		t.Fatalf("ObfuscateDirectory failed: %v", err)
	}
	if stats.FilesRewritten != 1 {
		t.Errorf("FilesRewritten = %d, want 1", stats.FilesRewritten)
	}
	if _, err := os.Stat(filepath.Join(dst, "mapping.json")); err != nil {
		t.Errorf("mapping file missing: %v", err)
	}
}
