package types

import (
	"io/fs"
)

// FS is the filesystem interface required for local data bag resolution
type FS interface {
	// Stat returns file metadata, used to verify bag roots are directories
	Stat(name string) (fs.FileInfo, error)

	// ReadFile returns the full contents of a file
	ReadFile(name string) ([]byte, error)

	// Glob returns the paths matching a shell pattern, in lexical order
	Glob(pattern string) ([]string, error)
}
