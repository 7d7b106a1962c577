package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/JayJamieson/table-editor/pkg/db"
	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/JayJamieson/table-editor/pkg/warehouse"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	reviews      = "memory.main.reviews"
	keyedReviews = "memory.main.keyed_reviews"
	exportVolume = "main.default.exports"
)

const seedSQL = `
CREATE TABLE reviews (customer_id VARCHAR, state VARCHAR, review VARCHAR, review_score INTEGER);
CREATE TABLE keyed_reviews (customer_id VARCHAR PRIMARY KEY, state VARCHAR, review VARCHAR, review_score INTEGER);
INSERT INTO reviews VALUES
	('cust_1', 'CA', 'Great product', 5),
	('cust_2', 'NY', 'Good', 4),
	('cust_3', 'TX', 'Average', 3),
	('cust_4', 'FL', 'Poor', 2),
	('cust_5', 'WA', 'Excellent', 5);
INSERT INTO keyed_reviews SELECT * FROM reviews;
`

type testServer struct {
	*Server
	wh *warehouse.Warehouse
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = conn.Exec(seedSQL)
	require.NoError(t, err)
	wh := warehouse.New(conn, warehouse.DuckDB)

	logConn, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	saves, err := db.NewWithConn(logConn)
	require.NoError(t, err)
	t.Cleanup(func() { saves.Close() })

	srv, err := New(Config{
		LogLevel: zerolog.ErrorLevel,
		CSRFKey:  bytes.Repeat([]byte("k"), 32),
	}, Deps{
		Sessions: session.NewStore(wh, saves, time.Hour),
		Tables:   wh,
		Saves:    saves,
		Volumes:  volumes.New(volumes.NewFilesystemMemory()),
	})
	require.NoError(t, err)

	return &testServer{Server: srv, wh: wh}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createSession(t *testing.T, req models.CreateSessionRequest) models.SessionResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/sessions", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.SessionResponse](t, rec)
}

func (s *testServer) score(t *testing.T, name, customer string) any {
	t.Helper()
	snapshot, err := s.wh.Fetch(context.Background(), table.ParseIdentifier(name))
	require.NoError(t, err)
	for _, r := range snapshot.Rows {
		if r[0] == customer {
			return r[3]
		}
	}
	return nil
}

func rowIndex(rows [][]any, customer string) int {
	for i, r := range rows {
		if r[0] == customer {
			return i
		}
	}
	return -1
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.HealthResponse](t, rec).OK)
}

func TestReadTable(t *testing.T) {
	s := newTestServer(t)

	t.Run("Objects", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/tables?name="+reviews, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[models.DataResponseObjects](t, rec)
		assert.True(t, resp.OK)
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, []string{"customer_id", "state", "review", "review_score"}, resp.Columns)
		assert.Equal(t, "cust_1", resp.Rows[0]["customer_id"])
	})

	t.Run("Array", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/tables?shape=array&name="+reviews, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[models.DataResponseArray](t, rec)
		require.Len(t, resp.Rows, 5)
		assert.IsType(t, []any{}, resp.Rows[0])
	})

	t.Run("Unknown table", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/tables?name=memory.main.missing", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Query error", decode[models.ErrorResponse](t, rec).Error)
	})

	t.Run("Missing name", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/tables", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decode[models.ErrorResponse](t, rec).Message)
	})

	t.Run("Invalid shape", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/tables?shape=rows&name="+reviews, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStructuralRoundTrip(t *testing.T) {
	s := newTestServer(t)

	sess := s.createSession(t, models.CreateSessionRequest{Table: reviews})
	assert.True(t, sess.Writable)
	assert.Equal(t, table.StrategyStructural, sess.Diff)
	require.Len(t, sess.Rows, 5)
	base := "/api/sessions/" + sess.ID

	row := rowIndex(sess.Rows, "cust_3")
	require.GreaterOrEqual(t, row, 0)
	rec := s.do(t, http.MethodPatch, fmt.Sprintf("%s/rows/%d", base, row), models.SetCellRequest{Column: "review_score", Value: 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[models.SessionResponse](t, rec).Changes)

	rec = s.do(t, http.MethodGet, base+"/diff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	diff := decode[models.DiffResponse](t, rec)
	assert.False(t, diff.Empty)
	require.Len(t, diff.Inserted, 1)
	require.Len(t, diff.Deleted, 1)
	assert.Equal(t, "cust_3", diff.Inserted[0][0])

	rec = s.do(t, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[models.SaveResponse](t, rec)
	assert.True(t, saved.OK)
	assert.Equal(t, session.SaveUpsert, saved.Strategy)
	assert.Equal(t, 2, saved.Statements)
	assert.Equal(t, int64(5), s.score(t, reviews, "cust_3"))

	rec = s.do(t, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.SaveResponse](t, rec).NoChanges)

	rec = s.do(t, http.MethodGet, "/api/saves?table="+reviews, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	log := decode[models.SavesResponse](t, rec)
	require.Len(t, log.Saves, 1)
	assert.Equal(t, models.SaveStatusOK, log.Saves[0].Status)
	assert.Equal(t, sess.ID, log.Saves[0].SessionID)
}

func TestKeyedRoundTrip(t *testing.T) {
	s := newTestServer(t)

	sess := s.createSession(t, models.CreateSessionRequest{
		Table: keyedReviews,
		Diff:  table.StrategyKeyed,
		Key:   []string{"customer_id"},
	})
	assert.Equal(t, []string{"customer_id"}, sess.Key)
	base := "/api/sessions/" + sess.ID

	row := rowIndex(sess.Rows, "cust_1")
	require.GreaterOrEqual(t, row, 0)
	rec := s.do(t, http.MethodPatch, fmt.Sprintf("%s/rows/%d", base, row), models.SetCellRequest{Column: "review_score", Value: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, base+"/rows", models.InsertRowRequest{Values: map[string]any{
		"customer_id": "cust_6", "state": "OR", "review": "Fine", "review_score": 4,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, base+"/diff", nil)
	diff := decode[models.DiffResponse](t, rec)
	require.Len(t, diff.Updated, 1)
	require.Len(t, diff.Inserted, 1)
	assert.Empty(t, diff.Deleted)
	assert.Equal(t, "cust_1", diff.Updated[0].New[0])

	rec = s.do(t, http.MethodPost, base+"/save?strategy=upsert", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[models.SaveResponse](t, rec).Statements)
	assert.Equal(t, int64(1), s.score(t, keyedReviews, "cust_1"))
	assert.Equal(t, int64(4), s.score(t, keyedReviews, "cust_6"))
}

func TestOverwrite(t *testing.T) {
	s := newTestServer(t)

	sess := s.createSession(t, models.CreateSessionRequest{Table: reviews})
	base := "/api/sessions/" + sess.ID

	rec := s.do(t, http.MethodPut, base+"/rows", models.ReplaceRowsRequest{
		Columns: sess.Columns,
		Rows:    [][]any{{"cust_9", "NV", nil, 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, base+"/save?strategy=overwrite", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snapshot, err := s.wh.Fetch(context.Background(), table.ParseIdentifier(reviews))
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Len())
	assert.Nil(t, snapshot.Rows[0][2])
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(t, models.CreateSessionRequest{Table: reviews})
	base := "/api/sessions/" + sess.ID

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{"Unknown session", http.MethodGet, "/api/sessions/8f1d3c1e-4e55-4c43-9f3a-2b9d5a0c7e11", nil, http.StatusNotFound},
		{"Malformed session id", http.MethodGet, "/api/sessions/not-a-uuid", nil, http.StatusBadRequest},
		{"Row out of range", http.MethodDelete, base + "/rows/99", nil, http.StatusBadRequest},
		{"Unknown column", http.MethodPatch, base + "/rows/0", models.SetCellRequest{Column: "nope", Value: 1}, http.StatusBadRequest},
		{"Unknown insert column", http.MethodPost, base + "/rows", models.InsertRowRequest{Values: map[string]any{"nope": 1}}, http.StatusBadRequest},
		{"Column mismatch", http.MethodPut, base + "/rows", models.ReplaceRowsRequest{Columns: []string{"a"}, Rows: [][]any{{1}}}, http.StatusBadRequest},
		{"Unknown save strategy", http.MethodPost, base + "/save?strategy=merge", nil, http.StatusBadRequest},
		{"Keyed without key", http.MethodPost, "/api/sessions", models.CreateSessionRequest{Diff: table.StrategyKeyed}, http.StatusBadRequest},
		{"Unknown diff strategy", http.MethodPost, "/api/sessions", map[string]any{"diff": "fuzzy"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	t.Run("Sample session cannot save", func(t *testing.T) {
		sample := s.createSession(t, models.CreateSessionRequest{})
		assert.False(t, sample.Writable)
		assert.Equal(t, "No table selected. Showing sample data.", sample.Message)

		rec := s.do(t, http.MethodPost, "/api/sessions/"+sample.ID+"/save", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Failed load falls back to sample", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, base+"/table", models.LoadTableRequest{Table: "memory.main.missing"})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[models.SessionResponse](t, rec)
		assert.False(t, resp.Writable)
		assert.Contains(t, resp.Message, "Could not load memory.main.missing")
		assert.Len(t, resp.Rows, 5)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodGet, base, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVolumeFiles(t *testing.T) {
	s := newTestServer(t)
	files := "/api/volumes/" + exportVolume + "/files"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "scores.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("customer_id,review_score\ncust_1,5\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, files, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploaded := decode[models.FilesResponse](t, rec)
	require.Len(t, uploaded.Files, 1)
	assert.Equal(t, "scores.csv", uploaded.Files[0].Name)

	rec = s.do(t, http.MethodGet, files, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[models.FilesResponse](t, rec)
	require.Len(t, listed.Files, 1)
	assert.Equal(t, int64(34), listed.Files[0].Size)

	rec = s.do(t, http.MethodGet, files+"/scores.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "customer_id,review_score\ncust_1,5\n", rec.Body.String())

	rec = s.do(t, http.MethodDelete, files+"/scores.csv", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, files+"/scores.csv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/volumes/not-a-volume/files", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportSession(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(t, models.CreateSessionRequest{Table: reviews})

	rec := s.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/export?volume="+exportVolume+"&name=reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.ExportResponse](t, rec)
	assert.Equal(t, "/Volumes/main/default/exports/reviews.csv", resp.Path)
	assert.Equal(t, 5, resp.Rows)

	rec = s.do(t, http.MethodGet, "/api/volumes/"+exportVolume+"/files/reviews.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "customer_id,state,review,review_score\n"))
	assert.Contains(t, rec.Body.String(), "cust_1,CA,Great product,5\n")
}

func TestDocs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/doc.yml", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "operationId: saveSession")
}

var tokenPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func TestEditor(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/editor?table="+reviews, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(page, "/editor/"))

	rec = s.do(t, http.MethodGet, page, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "Loaded 5 rows from "+reviews)
	assert.Contains(t, html, `value="save-upsert"`)

	state := decode[models.SessionResponse](t, s.do(t, http.MethodGet, "/api/sessions/"+strings.TrimPrefix(page, "/editor/"), nil))
	cust1 := rowIndex(state.Rows, "cust_1")
	cust3 := rowIndex(state.Rows, "cust_3")
	cust5 := rowIndex(state.Rows, "cust_5")

	match := tokenPattern.FindStringSubmatch(html)
	require.Len(t, match, 2)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	post := func(form url.Values, withToken bool) *httptest.ResponseRecorder {
		if withToken {
			form.Set("gorilla.csrf.Token", match[1])
		}
		req := httptest.NewRequest(http.MethodPost, page+"/grid", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	t.Run("Missing token", func(t *testing.T) {
		rec := post(url.Values{"rows": {"5"}, "action": {"apply"}}, false)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Edit and save", func(t *testing.T) {
		rec := post(url.Values{
			"rows":     {"5"},
			fmt.Sprintf("cell-%d-3", cust3): {"4"},
			fmt.Sprintf("cell-%d-2", cust1): {"Great product"},
			"action":   {"save-upsert"},
		}, true)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, int64(4), s.score(t, reviews, "cust_3"))
		assert.Equal(t, int64(5), s.score(t, reviews, "cust_1"))
	})

	t.Run("Delete row", func(t *testing.T) {
		rec := post(url.Values{"rows": {"5"}, "delete": {strconv.Itoa(cust5)}}, true)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

		rec = s.do(t, http.MethodGet, page, nil)
		assert.NotContains(t, rec.Body.String(), "cust_5")
	})

	t.Run("Stale grid", func(t *testing.T) {
		rec := post(url.Values{"rows": {"5"}, "action": {"apply"}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTablePage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/tables?name="+reviews, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>cust_5</td>")

	rec = s.do(t, http.MethodGet, "/tables?name=memory.main.missing", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "QueryError")
}
