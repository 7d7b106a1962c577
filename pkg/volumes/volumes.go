package volumes

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/utils"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound      = errors.New("file not found")
	ErrInvalidVolume = errors.New("volume must be catalog.schema.volume")
	ErrInvalidName   = errors.New("invalid file name")
)

// Volume names a catalog.schema.volume file area.
type Volume struct {
	Catalog string
	Schema  string
	Name    string
}

func ParseVolume(s string) (Volume, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Volume{}, fmt.Errorf("%w: %q", ErrInvalidVolume, s)
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, `/\`) {
			return Volume{}, fmt.Errorf("%w: %q", ErrInvalidVolume, s)
		}
	}
	return Volume{Catalog: parts[0], Schema: parts[1], Name: parts[2]}, nil
}

func (v Volume) String() string {
	return v.Catalog + "." + v.Schema + "." + v.Name
}

// Path is the absolute path users see, /Volumes/catalog/schema/volume.
func (v Volume) Path() string {
	return "/" + v.key()
}

func (v Volume) key() string {
	return path.Join("Volumes", v.Catalog, v.Schema, v.Name)
}

func (v Volume) fileKey(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path.Join(v.key(), name), nil
}

// Volumes reads and writes files of volumes on one Filesystem.
type Volumes struct {
	fs Filesystem
}

func New(fs Filesystem) *Volumes {
	return &Volumes{fs: fs}
}

// Upload stores a file and returns its volume path.
func (v *Volumes) Upload(ctx context.Context, volume Volume, name string, r io.Reader, size int64) (string, error) {
	key, err := volume.fileKey(name)
	if err != nil {
		return "", err
	}
	if err := v.fs.Write(ctx, key, r, size); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}

	log.Info().Str("volume", volume.String()).Str("file", name).Msg("file uploaded")
	return "/" + key, nil
}

// ImportURL downloads url into the volume. An empty name takes the last
// segment of the URL.
func (v *Volumes) ImportURL(ctx context.Context, volume Volume, url, name string) (string, error) {
	if name == "" {
		name = utils.FilenameFromURL(url, "download")
	}

	body, size, err := utils.DownloadFile(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return v.Upload(ctx, volume, name, body, size)
}

func (v *Volumes) Open(ctx context.Context, volume Volume, name string) (io.ReadCloser, error) {
	key, err := volume.fileKey(name)
	if err != nil {
		return nil, err
	}
	return v.fs.Open(ctx, key)
}

func (v *Volumes) Delete(ctx context.Context, volume Volume, name string) error {
	key, err := volume.fileKey(name)
	if err != nil {
		return err
	}
	return v.fs.Delete(ctx, key)
}

func (v *Volumes) List(ctx context.Context, volume Volume) ([]File, error) {
	return v.fs.ListFiles(ctx, volume.key())
}

// ExportCSV writes a snapshot as CSV with a header row. Null cells are
// empty fields.
func (v *Volumes) ExportCSV(ctx context.Context, volume Volume, name string, s *table.Snapshot) (string, error) {
	if path.Ext(name) == "" {
		name += ".csv"
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		return "", err
	}
	return v.Upload(ctx, volume, name, &buf, int64(buf.Len()))
}

func WriteCSV(w io.Writer, s *table.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Columns); err != nil {
		return err
	}

	record := make([]string, len(s.Columns))
	for _, r := range s.Rows {
		for i, val := range r {
			record[i] = table.FormatValue(val)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
