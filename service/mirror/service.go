package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Matcher reports whether the source path should be left out of a copy.
type Matcher func(source string, info os.FileInfo) bool

// Service represents a filesystem mirroring service
type Service interface {
	// Copy recursively copies the source directory to dest, which must not
	// exist. Entries matched by exclude, and everything beneath them, are
	// skipped.
	Copy(ctx context.Context, source, dest string, exclude Matcher) error
	// Remove recursively removes location.
	Remove(ctx context.Context, location string) error
}

// FS implements Service on top of afs.
type FS struct {
	fs afs.Service
}

// Ensure FS implements Service
var _ Service = (*FS)(nil)

// Copy copies source to dest preserving symbolic links.
func (s *FS) Copy(ctx context.Context, source, dest string, exclude Matcher) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy source %s is not a directory", source)
	}
	exists, err := s.fs.Exists(ctx, s.location(dest))
	if err != nil {
		return fmt.Errorf("failed to check if %s exists: %w", dest, err)
	}
	if exists {
		return fmt.Errorf("copy destination %s already exists", dest)
	}
	return s.copyDir(ctx, source, dest, exclude)
}

func (s *FS) copyDir(ctx context.Context, source, dest string, exclude Matcher) error {
	if err := s.fs.Create(ctx, s.location(dest), file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dest, err)
	}
	entries, err := os.ReadDir(source)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", source, err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		sourcePath := filepath.Join(source, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", sourcePath, err)
		}
		if exclude != nil && exclude(sourcePath, info) {
			continue
		}
		switch mode := info.Mode(); {
		case mode&os.ModeSymlink != 0:
			target, err := os.Readlink(sourcePath)
			if err != nil {
				return fmt.Errorf("failed to read link %s: %w", sourcePath, err)
			}
			if err = os.Symlink(target, destPath); err != nil {
				return fmt.Errorf("failed to create link %s: %w", destPath, err)
			}
		case mode.IsDir():
			if err = s.copyDir(ctx, sourcePath, destPath, exclude); err != nil {
				return err
			}
		case mode.IsRegular():
			if err = s.copyFile(ctx, sourcePath, destPath, mode.Perm()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *FS) copyFile(ctx context.Context, source, dest string, mode os.FileMode) error {
	reader, err := s.fs.OpenURL(ctx, s.location(source))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer reader.Close()
	if err = s.fs.Upload(ctx, s.location(dest), mode, reader); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", source, dest, err)
	}
	return nil
}

// Remove deletes location and everything beneath it.
func (s *FS) Remove(ctx context.Context, location string) error {
	if err := s.fs.Delete(ctx, s.location(location)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", location, err)
	}
	return nil
}

func (s *FS) location(path string) string {
	return url.Normalize(path, file.Scheme)
}

// New creates an afs backed mirroring service
func New() *FS {
	return &FS{fs: afs.New()}
}
