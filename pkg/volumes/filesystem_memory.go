package volumes

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/JayJamieson/table-editor/pkg/utils"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// FilesystemMemory keeps files in memory using go-billy's memfs.
type FilesystemMemory struct {
	billy.Filesystem
}

func NewFilesystemMemory() Filesystem {
	return &FilesystemMemory{
		Filesystem: memfs.New(),
	}
}

// abs roots every key at "/".
func abs(path string) string {
	return "/" + strings.TrimPrefix(path, "/")
}

func (m *FilesystemMemory) Write(ctx context.Context, path string, reader io.Reader, size int64) error {
	file, err := m.Create(abs(path))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

func (m *FilesystemMemory) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := m.Filesystem.Open(abs(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (m *FilesystemMemory) Delete(ctx context.Context, path string) error {
	err := m.Remove(abs(path))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (m *FilesystemMemory) ListFiles(ctx context.Context, prefix string) ([]File, error) {
	files := []File{}
	root := abs(prefix)

	var walk func(dirPath string) error
	walk = func(dirPath string) error {
		entries, err := m.ReadDir(dirPath)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			entryPath := m.Join(dirPath, entry.Name())
			if entry.IsDir() {
				if err := walk(entryPath); err != nil {
					return err
				}
				continue
			}

			rel, ok := relativeTo(root, entryPath)
			if !ok {
				continue
			}
			files = append(files, File{
				Name:     rel,
				Size:     entry.Size(),
				MimeType: utils.GetMimeType(entry.Name()),
			})
		}
		return nil
	}

	if err := walk(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return files, nil
		}
		return nil, err
	}
	return files, nil
}
