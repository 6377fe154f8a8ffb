// Package vet statically checks Go code that builds dist graphs for mistakes
// the runtime cannot report: a Filter predicate that can never hold makes
// rejection sampling loop forever, and constant primitive parameters out of
// range yield NaN densities.
package vet

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

const distPath = "github.com/gnolang/ppl/dist"

var Analyzer = &analysis.Analyzer{
	Name: "distcheck",
	Doc:  "reports dist graphs that cannot sample: unsatisfiable filters and out-of-range constant parameters",
	Run:  run,
}

// Diagnostic is one finding with a resolved position.
type Diagnostic struct {
	Rule     string
	Category string
	Position token.Position
	Message  string
}

const (
	CategoryFilter    = "unsatisfiable-filter"
	CategoryParameter = "invalid-parameter"
	CategoryEmpty     = "empty-choice"
)

// CheckFile parses and checks one Go file.
func CheckFile(filename string) ([]Diagnostic, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return CheckSource(filename, src)
}

// CheckSource checks src as if it were the file filename.
func CheckSource(filename string, src []byte) ([]Diagnostic, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	pass := &analysis.Pass{
		Analyzer: Analyzer,
		Fset:     fset,
		Files:    []*ast.File{file},
		ResultOf: make(map[*analysis.Analyzer]interface{}),
		Report: func(d analysis.Diagnostic) {
			diags = append(diags, Diagnostic{
				Rule:     Analyzer.Name,
				Category: d.Category,
				Position: fset.Position(d.Pos),
				Message:  d.Message,
			})
		},
	}

	if _, err := Analyzer.Run(pass); err != nil {
		return nil, err
	}
	return diags, nil
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		name, ok := distImportName(file)
		if !ok {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if fn, ok := distCall(call, name); ok {
				checkCall(pass, call, fn)
			}
			return true
		})
	}
	return nil, nil
}

// distImportName returns the local name the file uses for the dist package.
func distImportName(file *ast.File) (string, bool) {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != distPath {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return "", false
			}
			return imp.Name.Name, true
		}
		return path[strings.LastIndex(path, "/")+1:], true
	}
	return "", false
}

func distCall(call *ast.CallExpr, pkg string) (string, bool) {
	fun := call.Fun
	// explicit instantiation: dist.Filter[int](...)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
	case *ast.IndexListExpr:
		fun = f.X
	}
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok || ident.Name != pkg {
		return "", false
	}
	return sel.Sel.Name, true
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr, fn string) {
	switch fn {
	case "Filter":
		if len(call.Args) == 2 && neverHolds(call.Args[1]) {
			pass.Report(analysis.Diagnostic{
				Pos:      call.Pos(),
				End:      call.End(),
				Category: CategoryFilter,
				Message:  "filter predicate always returns false; sampling this graph never terminates",
			})
		}

	case "Flip":
		if len(call.Args) == 1 {
			if p, ok := constant(call.Args[0]); ok && (p < 0 || p > 1) {
				reportParameterf(pass, call, "Flip probability %g is outside [0, 1]", p)
			}
		}

	case "Gaussian":
		if len(call.Args) == 2 {
			if sigma, ok := constant(call.Args[1]); ok && sigma <= 0 {
				reportParameterf(pass, call, "Gaussian standard deviation %g must be positive", sigma)
			}
		}

	case "Choice":
		if len(call.Args) == 0 {
			pass.Report(analysis.Diagnostic{
				Pos:      call.Pos(),
				End:      call.End(),
				Category: CategoryEmpty,
				Message:  "Choice without values panics when the graph is built",
			})
		}
	}
}

func reportParameterf(pass *analysis.Pass, call *ast.CallExpr, format string, args ...any) {
	pass.Report(analysis.Diagnostic{
		Pos:      call.Pos(),
		End:      call.End(),
		Category: CategoryParameter,
		Message:  fmt.Sprintf(format, args...),
	})
}

// neverHolds reports whether expr is a function literal whose every return
// statement returns the constant false.
func neverHolds(expr ast.Expr) bool {
	lit, ok := expr.(*ast.FuncLit)
	if !ok || lit.Body == nil {
		return false
	}

	returns := 0
	allFalse := true
	ast.Inspect(lit.Body, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.FuncLit:
			// nested closures return on their own behalf
			return false
		case *ast.ReturnStmt:
			returns++
			if len(x.Results) != 1 || !isFalse(x.Results[0]) {
				allFalse = false
			}
		}
		return true
	})
	return returns > 0 && allFalse
}

func isFalse(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "false"
	case *ast.ParenExpr:
		return isFalse(x.X)
	case *ast.UnaryExpr:
		return x.Op == token.NOT && isTrue(x.X)
	}
	return false
}

func isTrue(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "true"
	case *ast.ParenExpr:
		return isTrue(x.X)
	}
	return false
}

// constant evaluates numeric literals, optionally negated or parenthesized.
func constant(expr ast.Expr) (float64, bool) {
	switch x := expr.(type) {
	case *ast.BasicLit:
		if x.Kind != token.INT && x.Kind != token.FLOAT {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(x.Value, "_", ""), 64)
		return v, err == nil
	case *ast.ParenExpr:
		return constant(x.X)
	case *ast.UnaryExpr:
		v, ok := constant(x.X)
		switch x.Op {
		case token.SUB:
			return -v, ok
		case token.ADD:
			return v, ok
		}
	}
	return 0, false
}
