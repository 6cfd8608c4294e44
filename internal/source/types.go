package source

// FileID indexes a FileSet; IDs are dense and start at 0.
type FileID uint32

// FileFlags records how content was obtained and normalized.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // added from memory, no path on disk
	FileHadBOM                               // a UTF-8 BOM was stripped
	FileNormalizedCRLF                       // \r\n was rewritten to \n
)

// Has reports whether every bit of mask is set.
func (f FileFlags) Has(mask FileFlags) bool { return f&mask == mask }

// File is one loaded module. Content is already normalized; LineIdx holds
// the byte offset of each '\n' and Hash is the sha256 of Content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
