package dictionary

import (
	"context"
	"os"
	"path/filepath"

	"github.com/viant/foamcase/model/entry"
	"github.com/viant/foamcase/model/types"
)

// HeaderKeyword names the header block every OpenFOAM file starts with.
const HeaderKeyword = "FoamFile"

// File is the root dictionary of an OpenFOAM file on disk.
type File struct {
	*Dictionary
	path string
}

// Path returns the absolute file path.
func (f *File) Path() string {
	return f.path
}

// Header returns the FoamFile header block.
func (f *File) Header(ctx context.Context) (*Dictionary, error) {
	return f.Sub(ctx, HeaderKeyword)
}

// Open binds tool to the regular file at path. A missing path, or one that is
// not a regular file, yields types.ErrConfigurationNotFound.
func Open(tool Tool, path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, types.NewConfigurationNotFoundError(path, err.Error())
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, types.NewConfigurationNotFoundError(abs, "file does not exist")
	}
	if !info.Mode().IsRegular() {
		return nil, types.NewConfigurationNotFoundError(abs, "not a regular file")
	}
	return &File{Dictionary: New(tool, entry.Reference{File: abs}), path: abs}, nil
}
