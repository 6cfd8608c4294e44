package driver

import (
	"fortio.org/safecast"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/lexer"
	"typeflow/internal/parser"
	"typeflow/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse loads path and builds its syntax tree.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fileID, maxDiagnostics)
}

// ParseSource parses in-memory source registered under name.
func ParseSource(name string, src []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	return parseFile(fs, fs.AddVirtual(name, src), maxDiagnostics)
}

func parseFile(fs *source.FileSet, id source.FileID, maxDiagnostics int) (*ParseResult, error) {
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	result := parser.ParseFile(lx, builder, parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
	})
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
