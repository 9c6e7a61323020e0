package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file.
const NoFileID FileID = 0

// FileFlags encodes metadata about a source file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a source file (both 1-based).
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet manages a collection of source files. FileID 0 is reserved so
// that the zero Span never points at real content.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1), // reserve slot 0 for NoFileID
		index: make(map[string]FileID),
	}
}

// Add stores a file, computes its line index and content hash, and returns
// a fresh FileID.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// AddVirtual stores an in-memory file (tests, programmatically built units).
func (fs *FileSet) AddVirtual(path string, content []byte) FileID {
	return fs.Add(path, content, FileVirtual)
}

// Load reads a file from disk and adds it to the set.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, fmt.Errorf("source: load %s: %w", path, err)
	}
	return fs.Add(path, content, 0), nil
}

// Get returns the file for an ID, or nil when the ID is invalid.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup returns the FileID previously assigned to path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[path]
	return id, ok
}

// Len returns the number of real files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files) - 1
}

// Position resolves a byte offset inside a file to a 1-based line/column.
func (fs *FileSet) Position(id FileID, offset uint32) (LineCol, bool) {
	f := fs.Get(id)
	if f == nil || int(offset) > len(f.Content) {
		return LineCol{}, false
	}
	line := uint32(0)
	for line+1 < uint32(len(f.LineIdx)) && f.LineIdx[line+1] <= offset {
		line++
	}
	return LineCol{Line: line + 1, Col: offset - f.LineIdx[line] + 1}, true
}

// buildLineIndex records the byte offset of the first character of each line.
func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			next, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("source: file too large: %w", err))
			}
			idx = append(idx, next)
		}
	}
	return idx
}
