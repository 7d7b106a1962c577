package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	body, size, err := DownloadFile(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
	assert.Equal(t, int64(8), size)

	_, _, err = DownloadFile(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFilenameFromURL(t *testing.T) {
	assert.Equal(t, "reviews.csv", FilenameFromURL("https://example.com/data/reviews.csv?x=1", "download"))
	assert.Equal(t, "download", FilenameFromURL("https://example.com/", "download"))
	assert.Equal(t, "download", FilenameFromURL("https://example.com", "download"))
}

func TestGetMimeType(t *testing.T) {
	assert.Equal(t, "application/json", GetMimeType("a.json"))
	assert.Equal(t, "application/octet-stream", GetMimeType("a.unknownext"))
}
