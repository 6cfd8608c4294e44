package ast

import "typeflow/internal/source"

// File is one parsed module. Body is the top-level statement sequence in
// source order; the evaluator walks it once.
type File struct {
	Span source.Span
	Body []StmtID
}

// Files is the arena of parsed modules. A parse produces exactly one.
type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

// New registers a module covering sp with an empty body.
func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp}))
}

// Get returns nil for NoFileID and unknown IDs.
func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
