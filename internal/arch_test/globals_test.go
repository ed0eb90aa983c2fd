package arch_test

import (
	"go/ast"
	"go/token"
	"strings"
	"testing"
)

// globalPrefixes lists per-package name prefixes for package-level vars that
// are set once at init.
var globalPrefixes = map[string][]string{
	// lipgloss colors and styles.
	"tui": {"color", "style"},
}

// constructors are calls whose result is safe to hold in a package-level var.
var constructors = []string{"errors.New", "fmt.Errorf", "regexp.MustCompile"}

// Package state lives in values handed to constructors, not in globals. A
// package-level var is accepted when it is a sentinel error, a compiled
// regexp, a literal lookup table, or matches a prefix in globalPrefixes.
func TestNoMutableGlobals(t *testing.T) {
	t.Parallel()

	for _, p := range packages(t) {
		for _, rel := range p.paths() {
			for _, decl := range p.files[rel].Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.VAR {
					continue
				}
				for _, spec := range gd.Specs {
					for _, name := range mutableGlobals(spec.(*ast.ValueSpec), globalPrefixes[p.name]) {
						t.Errorf("%s: package-level var %s holds mutable state", p.position(name.Pos()), name.Name)
					}
				}
			}
		}
	}
}

func mutableGlobals(vs *ast.ValueSpec, prefixes []string) []*ast.Ident {
	var out []*ast.Ident
	for i, name := range vs.Names {
		if name.Name == "_" || hasPrefix(name.Name, prefixes) {
			continue
		}
		if ident, ok := vs.Type.(*ast.Ident); ok && ident.Name == "error" {
			continue
		}
		if i < len(vs.Values) && constantLike(vs.Values[i]) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func constantLike(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	case *ast.CallExpr:
		sel, ok := e.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		pkg, ok := sel.X.(*ast.Ident)
		return ok && contains(constructors, pkg.Name+"."+sel.Sel.Name)
	}
	return false
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func TestMutableGlobals(t *testing.T) {
	t.Parallel()

	f := parseSource(t, `package x

var ErrGone = errors.New("gone")
var re = regexp.MustCompile("a+")
var table = map[string]int{"a": 1}
var _ = 1
var styleTitle = lipgloss.NewStyle()
var counter int
var cache = make(map[string]int)
`)
	var got []string
	for _, decl := range f.Decls {
		for _, spec := range decl.(*ast.GenDecl).Specs {
			for _, id := range mutableGlobals(spec.(*ast.ValueSpec), []string{"style"}) {
				got = append(got, id.Name)
			}
		}
	}
	if want := "counter,cache"; strings.Join(got, ",") != want {
		t.Errorf("mutableGlobals = %v, want %s", got, want)
	}
}
