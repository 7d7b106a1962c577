package api

import (
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/utils"
	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime/types"
)

func (h *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, models.HealthResponse{OK: true})
}

// ReadTable implements ServerInterface.
func (h *Server) ReadTable(ctx echo.Context, params ReadTableParams) error {
	id := table.ParseIdentifier(params.Name)
	if id.IsZero() {
		return createErrorResponse(ctx, http.StatusBadRequest, "Missing parameter", "table name is required")
	}

	start := time.Now()
	snapshot, err := h.tables.Fetch(ctx.Request().Context(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	queryMS := float64(time.Since(start).Microseconds()) / 1000

	base := models.DataResponseBase{
		OK:      true,
		Table:   id.String(),
		QueryMS: queryMS,
		Columns: snapshot.Columns,
		Total:   snapshot.Len(),
	}

	if params.Shape == ReadTableParamsShapeArray {
		return ctx.JSON(http.StatusOK, models.DataResponseArray{
			DataResponseBase: base,
			Rows:             snapshot.Shape(table.ShapeArray),
		})
	}

	return ctx.JSON(http.StatusOK, models.DataResponseObjects{
		DataResponseBase: base,
		Rows:             snapshot.Objects(),
	})
}

// CreateSession implements ServerInterface. A table that fails to load
// still yields a session showing the sample data.
func (h *Server) CreateSession(ctx echo.Context) error {
	var req CreateSessionJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	sess, err := h.sessions.Create(ctx.Request().Context(), session.Options{
		Table: req.Table,
		Diff:  req.Diff,
		Key:   req.Key,
	})
	if sess == nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	return ctx.JSON(http.StatusCreated, sessionResponse(sess.State()))
}

func (h *Server) session(id types.UUID) (*session.Session, error) {
	sess, ok := h.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return sess, nil
}

func (h *Server) GetSession(ctx echo.Context, id types.UUID) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) DeleteSession(ctx echo.Context, id types.UUID) error {
	if !h.sessions.Delete(id) {
		return respondError(ctx, fmt.Errorf("%w: %s", errSessionNotFound, id))
	}
	return ctx.NoContent(http.StatusNoContent)
}

// LoadTable implements ServerInterface. A failed fetch is not an HTTP
// error: the session falls back to the sample and says why.
func (h *Server) LoadTable(ctx echo.Context, id types.UUID) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	var req LoadTableJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	_ = sess.Load(ctx.Request().Context(), req.Table)
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) InsertRow(ctx echo.Context, id types.UUID) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	var req InsertRowJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if _, err := sess.InsertRow(req.Values); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) ReplaceRows(ctx echo.Context, id types.UUID) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	var req ReplaceRowsJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	edited, err := table.NewSnapshot(req.Columns, req.Rows)
	if err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}
	if _, err := sess.ReplaceEdited(edited); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) SetCell(ctx echo.Context, id types.UUID, index int) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	var req SetCellJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return createErrorResponse(ctx, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if _, err := sess.SetCell(index, req.Column, req.Value); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) DeleteRow(ctx echo.Context, id types.UUID, index int) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}
	if _, err := sess.DeleteRow(index); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess.State()))
}

func (h *Server) GetDiff(ctx echo.Context, id types.UUID) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	diff, err := sess.Diff()
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, diffResponse(diff))
}

// SaveSession implements ServerInterface.
func (h *Server) SaveSession(ctx echo.Context, id types.UUID, params SaveSessionParams) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := sess.Save(ctx.Request().Context(), string(params.Strategy))
	if err != nil {
		return respondError(ctx, err)
	}

	resp := models.SaveResponse{
		OK:        true,
		Strategy:  res.Strategy,
		Message:   res.Message,
		NoChanges: res.NoChanges,
	}
	if res.Result != nil {
		resp.Statements = res.Result.Statements
		resp.RowsAffected = res.Result.RowsAffected
		resp.DurationMS = float64(res.Result.Duration.Microseconds()) / 1000
	}
	return ctx.JSON(http.StatusOK, resp)
}

// ExportSession implements ServerInterface.
func (h *Server) ExportSession(ctx echo.Context, id types.UUID, params ExportSessionParams) error {
	sess, err := h.session(id)
	if err != nil {
		return respondError(ctx, err)
	}

	vol, err := volumes.ParseVolume(params.Volume)
	if err != nil {
		return respondError(ctx, err)
	}

	edited := sess.State().Edited
	filePath, err := h.volumes.ExportCSV(ctx.Request().Context(), vol, params.Name, edited)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, models.ExportResponse{
		OK:   true,
		Path: filePath,
		Rows: edited.Len(),
	})
}

func (h *Server) ListSaves(ctx echo.Context, params ListSavesParams) error {
	saves, err := h.saves.ListSaves(ctx.Request().Context(), params.Table, params.Limit)
	if err != nil {
		return createErrorResponse(ctx, http.StatusInternalServerError, "Query error", err.Error())
	}
	return ctx.JSON(http.StatusOK, models.SavesResponse{OK: true, Saves: saves})
}

func (h *Server) ListFiles(ctx echo.Context, volume string) error {
	vol, err := volumes.ParseVolume(volume)
	if err != nil {
		return respondError(ctx, err)
	}

	files, err := h.volumes.List(ctx.Request().Context(), vol)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, filesResponse(vol, files))
}

// UploadFiles implements ServerInterface. Files come from a multipart
// form, a URL to download, or the raw body stored under name.
func (h *Server) UploadFiles(ctx echo.Context, volume string, params UploadFilesParams) error {
	reqCtx := ctx.Request().Context()

	vol, err := volumes.ParseVolume(volume)
	if err != nil {
		return respondError(ctx, err)
	}

	var stored []volumes.File

	switch {
	case params.Url != "":
		p, err := h.volumes.ImportURL(reqCtx, vol, params.Url, params.Name)
		if err != nil {
			if status, _ := errorStatus(err); status == http.StatusBadRequest {
				return respondError(ctx, err)
			}
			return createErrorResponse(ctx, http.StatusBadRequest, "URL fetch error", err.Error())
		}
		stored = append(stored, volumes.File{Name: path.Base(p), MimeType: utils.GetMimeType(p)})

	case params.Name != "":
		body := ctx.Request().Body
		defer body.Close()
		if _, err := h.volumes.Upload(reqCtx, vol, params.Name, body, ctx.Request().ContentLength); err != nil {
			return respondError(ctx, err)
		}
		stored = append(stored, volumes.File{
			Name:     params.Name,
			Size:     ctx.Request().ContentLength,
			MimeType: utils.GetMimeType(params.Name),
		})

	default:
		form, err := ctx.MultipartForm()
		if err != nil || len(form.File["files"]) == 0 {
			return createErrorResponse(ctx, http.StatusBadRequest, "Missing upload",
				"Either 'files', 'url' or 'name' must be provided")
		}

		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return createErrorResponse(ctx, http.StatusBadRequest, "Invalid upload", err.Error())
			}
			_, err = h.volumes.Upload(reqCtx, vol, fh.Filename, f, fh.Size)
			f.Close()
			if err != nil {
				return respondError(ctx, err)
			}
			stored = append(stored, volumes.File{
				Name:     fh.Filename,
				Size:     fh.Size,
				MimeType: utils.GetMimeType(fh.Filename),
			})
		}
	}

	return ctx.JSON(http.StatusOK, filesResponse(vol, stored))
}

func (h *Server) DownloadFile(ctx echo.Context, volume string, name string) error {
	vol, err := volumes.ParseVolume(volume)
	if err != nil {
		return respondError(ctx, err)
	}

	rc, err := h.volumes.Open(ctx.Request().Context(), vol, name)
	if err != nil {
		return respondError(ctx, err)
	}
	defer rc.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Stream(http.StatusOK, utils.GetMimeType(name), rc)
}

func (h *Server) DeleteFile(ctx echo.Context, volume string, name string) error {
	vol, err := volumes.ParseVolume(volume)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := h.volumes.Delete(ctx.Request().Context(), vol, name); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func rows(rs []table.Row) [][]any {
	out := make([][]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, []any(r))
	}
	return out
}

func sessionResponse(st session.State) models.SessionResponse {
	return models.SessionResponse{
		ID:       st.ID.String(),
		Table:    st.Table,
		Writable: st.Writable,
		Message:  st.Message,
		Diff:     st.Diff,
		Key:      st.Key,
		Changes:  st.Changes,
		Columns:  st.Edited.Columns,
		Rows:     rows(st.Edited.Rows),
	}
}

func diffResponse(d *table.Diff) models.DiffResponse {
	resp := models.DiffResponse{
		Strategy: d.Strategy,
		Columns:  d.Columns,
		Key:      d.Key,
		Empty:    d.Empty(),
		Inserted: rows(d.Inserted),
		Deleted:  rows(d.Deleted),
	}
	for _, u := range d.Updated {
		resp.Updated = append(resp.Updated, models.RowChange{Old: u.Old, New: u.New})
	}
	return resp
}

func filesResponse(vol volumes.Volume, files []volumes.File) models.FilesResponse {
	resp := models.FilesResponse{
		OK:     true,
		Volume: vol.String(),
		Files:  make([]models.File, 0, len(files)),
	}
	for _, f := range files {
		resp.Files = append(resp.Files, models.File{Name: f.Name, Size: f.Size, MimeType: f.MimeType})
	}
	return resp
}
