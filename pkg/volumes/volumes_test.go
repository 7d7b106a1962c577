package volumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVolume(t *testing.T) {
	v, err := ParseVolume(" main.default.files ")
	require.NoError(t, err)
	assert.Equal(t, "/Volumes/main/default/files", v.Path())
	assert.Equal(t, "main.default.files", v.String())

	for _, bad := range []string{"", "main.files", "a.b.c.d", "a..c", "a.b/c.d"} {
		_, err := ParseVolume(bad)
		assert.ErrorIs(t, err, ErrInvalidVolume, bad)
	}
}

func testFilesystems(t *testing.T) map[string]Filesystem {
	return map[string]Filesystem{
		"memory": NewFilesystemMemory(),
		"local":  NewFilesystemLocal(t.TempDir()),
	}
}

func TestVolumes(t *testing.T) {
	ctx := context.Background()
	vol, err := ParseVolume("main.default.files")
	require.NoError(t, err)
	other, err := ParseVolume("main.default.other")
	require.NoError(t, err)

	for name, fs := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			v := New(fs)

			files, err := v.List(ctx, vol)
			require.NoError(t, err)
			assert.Empty(t, files)

			p, err := v.Upload(ctx, vol, "notes.txt", strings.NewReader("hello"), 5)
			require.NoError(t, err)
			assert.Equal(t, "/Volumes/main/default/files/notes.txt", p)
			_, err = v.Upload(ctx, other, "elsewhere.txt", strings.NewReader("x"), 1)
			require.NoError(t, err)

			files, err = v.List(ctx, vol)
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "notes.txt", files[0].Name)
			assert.Equal(t, int64(5), files[0].Size)

			r, err := v.Open(ctx, vol, "notes.txt")
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			r.Close()
			require.NoError(t, err)
			assert.Equal(t, "hello", string(data))

			_, err = v.Open(ctx, vol, "missing.txt")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = v.Upload(ctx, vol, "../escape.txt", strings.NewReader("x"), 1)
			assert.ErrorIs(t, err, ErrInvalidName)

			require.NoError(t, v.Delete(ctx, vol, "notes.txt"))
			assert.ErrorIs(t, v.Delete(ctx, vol, "notes.txt"), ErrNotFound)
		})
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	vol, err := ParseVolume("main.default.exports")
	require.NoError(t, err)
	v := New(NewFilesystemMemory())

	s := table.SampleSnapshot()
	require.NoError(t, s.SetCell(0, "review", nil))

	p, err := v.ExportCSV(ctx, vol, "reviews", s)
	require.NoError(t, err)
	assert.Equal(t, "/Volumes/main/default/exports/reviews.csv", p)

	r, err := v.Open(ctx, vol, "reviews.csv")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "customer_id,state,review,review_score", lines[0])
	assert.Equal(t, "cust_1,CA,,5", lines[1])
}

func TestImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	ctx := context.Background()
	vol, err := ParseVolume("main.default.files")
	require.NoError(t, err)
	v := New(NewFilesystemMemory())

	p, err := v.ImportURL(ctx, vol, srv.URL+"/data/input.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "/Volumes/main/default/files/input.csv", p)

	r, err := v.Open(ctx, vol, "input.csv")
	require.NoError(t, err)
	defer r.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestNewFilesystem(t *testing.T) {
	fs, err := NewFilesystem(StorageConfig{Mode: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &FilesystemMemory{}, fs)

	_, err = NewFilesystem(StorageConfig{Mode: "s3"})
	assert.Error(t, err)

	_, err = NewFilesystem(StorageConfig{Mode: "ftp"})
	assert.Error(t, err)
}

func TestLocalWriteFailure(t *testing.T) {
	ctx := context.Background()
	fs := NewFilesystemLocal(t.TempDir())

	broken := io.MultiReader(strings.NewReader("a,b\n"), iotest.ErrReader(errors.New("connection reset")))
	err := fs.Write(ctx, "files/partial.csv", broken, -1)
	require.EqualError(t, err, "connection reset")

	_, err = fs.Open(ctx, "files/partial.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}
