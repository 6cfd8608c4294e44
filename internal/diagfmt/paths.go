package diagfmt

import (
	"fmt"
	"path/filepath"

	"typeflow/internal/source"
)

// hasLocation reports whether sp points into a file. Load failures and
// timing records carry the zero span.
func hasLocation(fs *source.FileSet, sp source.Span) bool {
	if fs == nil || sp == (source.Span{}) {
		return false
	}
	return int(sp.File) < fs.Len()
}

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.DisplayPath("", true)
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeRelative:
		if rel, err := source.RelativePath(f.Path, fs.BaseDir()); err == nil {
			return rel
		}
		return f.Path
	default:
		return f.DisplayPath(fs.BaseDir(), false)
	}
}

// formatSpan formats a span as "startLine:startCol-endLine:endCol", or as
// "span(start-end)" without a FileSet.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
