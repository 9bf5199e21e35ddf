package whitelist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScanManifests derives the third-party whitelist tier from dependency
// manifests found at the project root. Best effort by design: a missing
// or unparsable manifest contributes nothing and a warning, never an
// error. Supported manifests: Podfile.lock, Cartfile, Package.swift,
// package.json.
func ScanManifests(root string) (map[string]Entry, []string) {
	entries := make(map[string]Entry)
	var warnings []string

	add := func(name, source string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, exists := entries[name]; !exists {
			entries[name] = Entry{
				Name:   name,
				Kind:   "", // library names may surface as any kind
				Reason: "declared in " + source,
			}
		}
	}

	if names, err := scanPodfileLock(filepath.Join(root, "Podfile.lock")); err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("Podfile.lock: %v", err))
		}
	} else {
		for _, n := range names {
			add(n, "Podfile.lock")
		}
	}

	if names, err := scanCartfile(filepath.Join(root, "Cartfile")); err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("Cartfile: %v", err))
		}
	} else {
		for _, n := range names {
			add(n, "Cartfile")
		}
	}

	if names, err := scanPackageSwift(filepath.Join(root, "Package.swift")); err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("Package.swift: %v", err))
		}
	} else {
		for _, n := range names {
			add(n, "Package.swift")
		}
	}

	if names, err := scanPackageJSON(filepath.Join(root, "package.json")); err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("package.json: %v", err))
		}
	} else {
		for _, n := range names {
			add(n, "package.json")
		}
	}

	return entries, warnings
}

// podfileLock mirrors the top-level PODS section of a CocoaPods lockfile.
// List items are either plain strings ("AFNetworking (4.0.1)") or
// single-key maps whose key names a pod with subdependencies.
type podfileLock struct {
	Pods []interface{} `yaml:"PODS"`
}

func scanPodfileLock(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock podfileLock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("unparsable lockfile: %w", err)
	}
	var names []string
	for _, item := range lock.Pods {
		switch v := item.(type) {
		case string:
			names = append(names, podName(v))
		case map[string]interface{}:
			for k := range v {
				names = append(names, podName(k))
			}
		}
	}
	return names, nil
}

// podName reduces "Firebase/Core (8.0.1)" to "Firebase".
func podName(spec string) string {
	name := strings.TrimSpace(spec)
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '/'); i > 0 {
		name = name[:i]
	}
	return name
}

var cartfileRe = regexp.MustCompile(`^\s*(?:github|git|binary)\s+"([^"]+)"`)

func scanCartfile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		m := cartfileRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ref := m[1]
		if i := strings.LastIndexByte(ref, '/'); i >= 0 {
			ref = ref[i+1:]
		}
		ref = strings.TrimSuffix(ref, ".git")
		if i := strings.IndexByte(ref, '.'); i > 0 {
			// binary specs may carry a trailing ".json"
			ref = ref[:i]
		}
		names = append(names, ref)
	}
	return names, nil
}

var (
	spmURLRe     = regexp.MustCompile(`url:\s*"[^"]*/([A-Za-z0-9_.-]+?)(?:\.git)?"`)
	spmProductRe = regexp.MustCompile(`\.product\(\s*name:\s*"([A-Za-z0-9_]+)"`)
	spmPackageRe = regexp.MustCompile(`\.package\(\s*name:\s*"([A-Za-z0-9_]+)"`)
)

// scanPackageSwift pulls dependency names out of a Swift Package
// manifest. The manifest is Swift source, so this is pattern matching,
// not evaluation; good enough for name protection.
func scanPackageSwift(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := string(data)
	var names []string
	for _, re := range []*regexp.Regexp{spmURLRe, spmProductRe, spmPackageRe} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			names = append(names, m[1])
		}
	}
	return names, nil
}

func scanPackageJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("unparsable manifest: %w", err)
	}
	var names []string
	for name := range manifest.Dependencies {
		names = append(names, packageBaseName(name))
	}
	for name := range manifest.DevDependencies {
		names = append(names, packageBaseName(name))
	}
	return names, nil
}

// packageBaseName reduces "@react-native/metro" to "metro".
func packageBaseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
