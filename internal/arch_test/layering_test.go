package arch_test

import (
	"strings"
	"testing"
)

// layers orders the internal packages. A package may import packages on its
// own layer or below.
var layers = map[string]int{
	"ansi":   0,
	"config": 0,
	"geo":    0,

	"logging": 1,
	"model":   1,

	"disclosure": 2,
	"orgmatch":   2,
	"search":     2,
	"tour":       2,

	"viewstate": 3,

	"loader":    4,
	"telemetry": 4,
	"urlstate":  4,

	"ui": 5,

	"tui": 6,
}

// corePkgs hold the map semantics as pure functions over the data model.
var corePkgs = []string{"disclosure", "geo", "model", "orgmatch", "search", "tour"}

// importRule confines an import path (and everything below it) to the
// packages in only, or bans it from the packages in never.
type importRule struct {
	path  string
	only  []string
	never []string
}

var importRules = []importRule{
	{path: "github.com/charmbracelet", only: []string{"tui"}},
	{path: "github.com/spf13", only: []string{"config"}},
	{path: "github.com/fsnotify/fsnotify", only: []string{"loader"}},
	{path: "github.com/pelletier/go-toml/v2", only: []string{"loader"}},
	{path: "gopkg.in/yaml.v3", only: []string{"loader"}},
	{path: "golang.org/x/sync", only: []string{"loader"}},
	{path: "net/http", only: []string{"loader"}},
	{path: "go.uber.org/zap", never: corePkgs},
	{path: "os", never: corePkgs},
	{path: internalPrefix + "viewstate", never: corePkgs},
}

func (r importRule) matches(imp string) bool {
	return imp == r.path || strings.HasPrefix(imp, r.path+"/")
}

func (r importRule) allows(pkg string) bool {
	if len(r.only) > 0 && !contains(r.only, pkg) {
		return false
	}
	return !contains(r.never, pkg)
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		own, ok := layers[p.name]
		if !ok {
			t.Errorf("package %s has no layer; add it to the layers map", p.name)
			continue
		}
		for _, imp := range p.internalImports() {
			dep, ok := layers[imp]
			if !ok {
				continue
			}
			if dep > own {
				t.Errorf("%s (layer %d) imports %s (layer %d)", p.name, own, imp, dep)
			}
		}
	}
}

func TestImportConfinement(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		for _, imp := range p.imports() {
			for _, r := range importRules {
				if r.matches(imp) && !r.allows(p.name) {
					t.Errorf("%s must not import %s", p.name, imp)
				}
			}
		}
	}
}

func TestImportRule(t *testing.T) {
	t.Parallel()

	zap := importRule{path: "go.uber.org/zap", never: []string{"geo"}}
	if !zap.matches("go.uber.org/zap/zapcore") || zap.matches("go.uber.org/zapx") {
		t.Error("rule must cover sub-packages and nothing else")
	}
	if zap.allows("geo") || !zap.allows("loader") {
		t.Error("never list not honored")
	}
	tea := importRule{path: "github.com/charmbracelet", only: []string{"tui"}}
	if !tea.allows("tui") || tea.allows("ui") {
		t.Error("only list not honored")
	}
}
