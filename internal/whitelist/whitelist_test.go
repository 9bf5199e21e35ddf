package whitelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloakwork/objcloak/internal/extractor"
)

func TestBuiltInTier(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	assert.True(t, r.IsProtected("NSString", extractor.KindClass), "NS prefix class")
	assert.True(t, r.IsProtected("UIViewController", extractor.KindClass), "UI prefix class")
	assert.True(t, r.IsProtected("viewDidLoad", extractor.KindMethod), "lifecycle selector")
	assert.True(t, r.IsProtected("application:didFinishLaunchingWithOptions:", extractor.KindMethod), "multipart delegate selector")
	assert.True(t, r.IsProtected("delegate", extractor.KindProperty), "framework property")
	assert.True(t, r.IsProtected("kCFAllocatorDefault", extractor.KindConstant), "kCF constant prefix")
	assert.True(t, r.IsProtected("URLSession", extractor.KindClass), "unprefixed Foundation type")

	assert.False(t, r.IsProtected("LoginManager", extractor.KindClass), "app class must not be built in")
	assert.False(t, r.IsProtected("doThing:second:", extractor.KindMethod), "app selector must not be built in")
	// a bare prefix with nothing after it is not a framework name
	assert.False(t, r.IsProtected("NS", extractor.KindClass))
}

func TestTierPrecedence(t *testing.T) {
	custom := &CustomList{}
	require.NoError(t, custom.Add("viewDidLoad", extractor.KindMethod, "user says so"))
	require.NoError(t, custom.Add("LoginManager", "", "keep for crash reports"))

	third := map[string]Entry{
		"AFNetworking": {Name: "AFNetworking", Reason: "declared in Podfile.lock"},
		"viewDidLoad":  {Name: "viewDidLoad", Reason: "bogus third-party claim"},
	}

	r := NewResolver(third, custom, nil)

	// built-in wins even when lower tiers also carry the name
	tier, ok := r.Lookup("viewDidLoad", extractor.KindMethod)
	require.True(t, ok)
	assert.Equal(t, TierBuiltIn, tier)

	tier, ok = r.Lookup("AFNetworking", extractor.KindClass)
	require.True(t, ok)
	assert.Equal(t, TierThirdParty, tier)

	tier, ok = r.Lookup("LoginManager", extractor.KindClass)
	require.True(t, ok)
	assert.Equal(t, TierCustom, tier)

	_, ok = r.Lookup("TotallyUnprotected", extractor.KindClass)
	assert.False(t, ok)
}

func TestKindScopedEntries(t *testing.T) {
	custom := &CustomList{}
	require.NoError(t, custom.Add("status", extractor.KindProperty, "KVC key"))

	r := NewResolver(nil, custom, nil)
	assert.True(t, r.IsProtected("status", extractor.KindProperty))
	assert.False(t, r.IsProtected("status", extractor.KindClass), "kind-scoped entry must not protect other kinds")
}

func TestExtraProtectedNames(t *testing.T) {
	r := NewResolver(nil, nil, []string{"SpecialCase"})
	tier, ok := r.Lookup("SpecialCase", extractor.KindClass)
	require.True(t, ok)
	assert.Equal(t, TierCustom, tier)
}

func TestScanManifests(t *testing.T) {
	root := t.TempDir()

	podfile := `PODS:
  - AFNetworking (4.0.1)
  - "Firebase/Core (8.9.0)":
      - FirebaseCore
  - SDWebImage (5.12.0)

DEPENDENCIES:
  - AFNetworking
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Podfile.lock"), []byte(podfile), 0644))

	cartfile := `github "Alamofire/Alamofire" ~> 5.4
github "ReactiveX/RxSwift"
# a comment line
binary "https://dl.example.com/Spec.json" ~> 2.0
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cartfile"), []byte(cartfile), 0644))

	pkgSwift := `// swift-tools-version:5.5
let package = Package(
    dependencies: [
        .package(url: "https://github.com/apple/swift-log.git", from: "1.0.0"),
    ],
    targets: [
        .target(name: "App", dependencies: [.product(name: "Logging", package: "swift-log")]),
    ]
)
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Package.swift"), []byte(pkgSwift), 0644))

	pkgJSON := `{"dependencies": {"react-native": "0.70.0", "@react-navigation/native": "6.0.0"}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(pkgJSON), 0644))

	entries, warnings := ScanManifests(root)
	assert.Empty(t, warnings)

	for _, want := range []string{
		"AFNetworking", "Firebase", "SDWebImage", // pods, subspec reduced to pod name
		"Alamofire", "RxSwift", "Spec", // carthage
		"swift-log", "Logging", // spm
		"react-native", "native", // npm, scope stripped
	} {
		_, ok := entries[want]
		assert.True(t, ok, "expected third-party entry %q", want)
	}
}

func TestScanManifestsDegradesOnGarbage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Podfile.lock"), []byte("\tPODS: [unclosed"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{not json"), 0644))

	entries, warnings := ScanManifests(root)
	assert.Empty(t, entries, "garbage manifests must contribute nothing")
	assert.Len(t, warnings, 2, "each garbage manifest surfaces one warning")
}

func TestScanManifestsMissingRoot(t *testing.T) {
	entries, warnings := ScanManifests(t.TempDir())
	assert.Empty(t, entries)
	assert.Empty(t, warnings, "absent manifests are not warnings")
}

func TestCustomListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")

	list, err := LoadCustomList(path)
	require.NoError(t, err, "missing file is an empty list")
	require.NoError(t, list.Add("LoginManager", extractor.KindClass, "crash symbolication"))
	require.NoError(t, list.Add("sessionToken", extractor.KindProperty, "KVC"))
	require.NoError(t, list.Save())

	loaded, err := LoadCustomList(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Entries, 2)
	assert.Equal(t, customFormatVersion, loaded.Version)
	assert.False(t, loaded.UpdatedAt.IsZero())

	require.NoError(t, loaded.Edit("LoginManager", "", "any kind now"))
	require.NoError(t, loaded.Delete("sessionToken"))
	assert.Error(t, loaded.Delete("sessionToken"), "double delete must fail")
	assert.Error(t, loaded.Add("LoginManager", "", "dup"), "duplicate add must fail")
}

func TestCustomListMalformedFileIsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0644))

	list, err := LoadCustomList(path)
	assert.Error(t, err, "malformed list surfaces an error for warning display")
	require.NotNil(t, list, "but still yields a usable empty list")
	assert.Empty(t, list.Entries)
	require.NoError(t, list.Add("Recovered", "", ""))
}

func TestImportCollisionRenames(t *testing.T) {
	dir := t.TempDir()

	list := &CustomList{path: filepath.Join(dir, "whitelist.json")}
	require.NoError(t, list.Add("LoginManager", extractor.KindClass, "existing"))

	importDoc := `{"version":1,"entries":[
		{"name":"LoginManager","kind":"class","reason":"imported"},
		{"name":"OtherThing","reason":"imported"}
	]}`
	importPath := filepath.Join(dir, "incoming.json")
	require.NoError(t, os.WriteFile(importPath, []byte(importDoc), 0644))

	n, err := list.Import(importPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// the colliding import was renamed, not overwritten
	assert.GreaterOrEqual(t, list.find("LoginManager"), 0)
	assert.GreaterOrEqual(t, list.find("LoginManager_1"), 0)
	assert.Equal(t, "existing", list.Entries[list.find("LoginManager")].Reason)
	assert.GreaterOrEqual(t, list.find("OtherThing"), 0)
}

func TestImportPlainNameList(t *testing.T) {
	dir := t.TempDir()
	plain := "# comment line\nFirstName\n\nSecondName\n"
	importPath := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(importPath, []byte(plain), 0644))

	list := &CustomList{}
	n, err := list.Import(importPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	i := list.find("FirstName")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, extractor.Kind(""), list.Entries[i].Kind, "plain import uses the unspecified kind")
	assert.NotEmpty(t, list.Entries[i].Reason)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()

	list := &CustomList{}
	require.NoError(t, list.Add("Alpha", extractor.KindClass, "a"))
	require.NoError(t, list.Add("Beta", extractor.KindMethod, "b"))

	exportPath := filepath.Join(dir, "export.json")
	require.NoError(t, list.Export(exportPath))

	other := &CustomList{}
	n, err := other.Import(exportPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.GreaterOrEqual(t, other.find("Alpha"), 0)
	assert.GreaterOrEqual(t, other.find("Beta"), 0)
}
