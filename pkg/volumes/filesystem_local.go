package volumes

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JayJamieson/table-editor/pkg/utils"
)

// FilesystemLocal keeps files below a directory on disk.
type FilesystemLocal struct {
	basePath string
}

func NewFilesystemLocal(basePath string) Filesystem {
	return &FilesystemLocal{
		basePath: basePath,
	}
}

func (l *FilesystemLocal) full(path string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(path))
}

func (l *FilesystemLocal) Write(ctx context.Context, path string, reader io.Reader, size int64) error {
	fullPath := l.full(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(fullPath)
		return err
	}
	return file.Close()
}

func (l *FilesystemLocal) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(l.full(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *FilesystemLocal) Delete(ctx context.Context, path string) error {
	err := os.Remove(l.full(path))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (l *FilesystemLocal) ListFiles(ctx context.Context, prefix string) ([]File, error) {
	root := l.full(prefix)
	files := []File{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			Name:     filepath.ToSlash(relPath),
			Size:     info.Size(),
			MimeType: utils.GetMimeType(relPath),
		})
		return nil
	})

	return files, err
}
