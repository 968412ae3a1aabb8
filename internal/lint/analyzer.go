// Package lint provides an analyzer that guards the immutability of network
// snapshots and the integer-only arithmetic of the reward schedule.
package lint

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var consensusPkg = "github.com/phoenixkonsole/papara/consensus"

// Analyzer reports writes through a *consensus.Network outside the consensus
// package, and float to integer conversions inside it.
var Analyzer = &analysis.Analyzer{
	Name:     "snapshotlint",
	Doc:      "reports in-place edits of consensus.Network snapshots and float arithmetic in consensus code",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func init() {
	Analyzer.Flags.StringVar(&consensusPkg, "consensus", consensusPkg, "import path of the consensus package")
}

func isNetworkPtr(t types.Type) bool {
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return false
	}
	named, ok := ptr.Elem().(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == consensusPkg && obj.Name() == "Network"
}

// snapshotWrite reports whether the assignment target e reaches a field of a
// Network through a pointer.
func snapshotWrite(pass *analysis.Pass, e ast.Expr) bool {
	for {
		switch x := e.(type) {
		case *ast.ParenExpr:
			e = x.X
		case *ast.IndexExpr:
			e = x.X
		case *ast.SelectorExpr:
			if isNetworkPtr(pass.TypesInfo.TypeOf(x.X)) {
				return true
			}
			e = x.X
		case *ast.StarExpr:
			return isNetworkPtr(pass.TypesInfo.TypeOf(x.X))
		default:
			return false
		}
	}
}

func isFloat(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsFloat != 0
}

func isInteger(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

func run(pass *analysis.Pass) (any, error) {
	inConsensus := pass.Pkg.Path() == consensusPkg

	nodeFilter := []ast.Node{
		(*ast.AssignStmt)(nil),
		(*ast.IncDecStmt)(nil),
		(*ast.CallExpr)(nil),
	}
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.AssignStmt:
			if inConsensus || node.Tok == token.DEFINE {
				return
			}
			for _, lhs := range node.Lhs {
				if snapshotWrite(pass, lhs) {
					pass.Reportf(lhs.Pos(), "in-place write to a consensus.Network snapshot; derive a new one with Clone and NewNetwork")
				}
			}
		case *ast.IncDecStmt:
			if !inConsensus && snapshotWrite(pass, node.X) {
				pass.Reportf(node.X.Pos(), "in-place write to a consensus.Network snapshot; derive a new one with Clone and NewNetwork")
			}
		case *ast.CallExpr:
			if !inConsensus || len(node.Args) != 1 {
				return
			}
			tv, ok := pass.TypesInfo.Types[node.Fun]
			if !ok || !tv.IsType() || !isInteger(tv.Type) {
				return
			}
			if at := pass.TypesInfo.TypeOf(node.Args[0]); at != nil && isFloat(at) {
				pass.Reportf(node.Pos(), "float to integer conversion in consensus code")
			}
		}
	})
	return nil, nil
}
