package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/view"
	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func (s *Server) csrfMiddleware() []echo.MiddlewareFunc {
	protect := csrf.Protect(
		s.config.CSRFKey,
		csrf.Path("/"),
		csrf.Secure(s.config.SecureCookies),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(handleCSRFError)),
	)

	plaintext := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.config.SecureCookies {
				c.SetRequest(csrf.PlaintextHTTPRequest(c.Request()))
			}
			return next(c)
		}
	}

	return []echo.MiddlewareFunc{plaintext, echo.WrapMiddleware(protect)}
}

func (s *Server) setupEditorRoutes() {
	mw := s.csrfMiddleware()

	s.router.GET("/editor", s.NewEditor, mw...)
	s.router.GET("/editor/:id", s.ShowEditor, mw...)
	s.router.POST("/editor/:id/table", s.EditorLoadTable, mw...)
	s.router.POST("/editor/:id/grid", s.EditorGrid, mw...)
	s.router.GET("/tables", s.ShowTable)
}

func render(ctx echo.Context, t templ.Component, status ...int) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(ctx.Request().Context(), buf); err != nil {
		return err
	}

	if len(status) > 0 {
		return ctx.HTML(status[0], buf.String())
	}
	return ctx.HTML(http.StatusOK, buf.String())
}

func handleCSRFError(w http.ResponseWriter, r *http.Request) {
	log.Warn().Err(csrf.FailureReason(r)).Str("path", r.URL.Path).Msg("csrf check failed")

	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)
	if err := view.ErrorPage("Error", "Invalid CSRF token, please reload the page.").Render(r.Context(), buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write(buf.Bytes())
}

func editorURL(id uuid.UUID) string {
	return "/editor/" + id.String()
}

func splitKey(s string) []string {
	var key []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			key = append(key, k)
		}
	}
	return key
}

func (s *Server) editorSession(c echo.Context) (*session.Session, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Unknown editor session.")
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "This editor session has expired.")
	}
	return sess, nil
}

// NewEditor opens a session, optionally loading ?table=, and redirects to
// its page.
func (s *Server) NewEditor(c echo.Context) error {
	sess, err := s.sessions.Create(c.Request().Context(), session.Options{
		Table: c.QueryParam("table"),
		Diff:  c.QueryParam("diff"),
		Key:   splitKey(c.QueryParam("key")),
	})
	if sess == nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Redirect(http.StatusSeeOther, editorURL(sess.ID))
}

func (s *Server) ShowEditor(c echo.Context) error {
	sess, err := s.editorSession(c)
	if err != nil {
		return err
	}

	st := sess.State()
	page := view.Editor{
		SessionID: st.ID.String(),
		Table:     st.Table,
		Message:   st.Message,
		Writable:  st.Writable,
		Diff:      st.Diff,
		Key:       st.Key,
		CSRFToken: csrf.Token(c.Request()),
		Grid:      st.Edited,
	}
	if diff, err := sess.Diff(); err == nil {
		page.Changes = diff
	}
	return render(c, view.EditorPage(page))
}

// EditorLoadTable switches the diff strategy and loads the named table,
// discarding edits.
func (s *Server) EditorLoadTable(c echo.Context) error {
	sess, err := s.editorSession(c)
	if err != nil {
		return err
	}

	if err := sess.SetDiffer(c.FormValue("diff"), splitKey(c.FormValue("key"))); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	_ = sess.Load(c.Request().Context(), c.FormValue("table"))
	return c.Redirect(http.StatusSeeOther, editorURL(sess.ID))
}

// EditorGrid applies the submitted cells and then the chosen action.
func (s *Server) EditorGrid(c echo.Context) error {
	sess, err := s.editorSession(c)
	if err != nil {
		return err
	}

	action := c.FormValue("action")
	if action != "reset" {
		if err := applyCells(c, sess); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if del := c.FormValue("delete"); del != "" {
		index, err := strconv.Atoi(del)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid row index")
		}
		if _, err := sess.DeleteRow(index); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.Redirect(http.StatusSeeOther, editorURL(sess.ID))
	}

	switch action {
	case "", "apply":
	case "add":
		if _, err := sess.InsertRow(nil); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	case "reset":
		sess.Reset()
	case "save-upsert", "save-overwrite":
		strategy := strings.TrimPrefix(action, "save-")
		// warehouse failures are already on the session message
		if _, err := sess.Save(c.Request().Context(), strategy); err != nil {
			if status, _ := errorStatus(err); status < http.StatusInternalServerError {
				return echo.NewHTTPError(status, err.Error())
			}
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action "+action)
	}

	return c.Redirect(http.StatusSeeOther, editorURL(sess.ID))
}

// applyCells copies changed cell inputs into the edited grid. A cell whose
// text still matches the current value keeps its type.
func applyCells(c echo.Context, sess *session.Session) error {
	edited := sess.State().Edited

	n, err := strconv.Atoi(c.FormValue("rows"))
	if err != nil {
		return errors.New("missing row count")
	}
	if n != edited.Len() {
		return errors.New("the grid changed since the page was loaded, reload and try again")
	}

	for i, row := range edited.Rows {
		for j, current := range row {
			text, ok := c.Request().PostForm["cell-"+strconv.Itoa(i)+"-"+strconv.Itoa(j)]
			if !ok || len(text) == 0 || text[0] == table.FormatValue(current) {
				continue
			}
			if _, err := sess.SetCell(i, edited.Columns[j], table.ParseCell(text[0])); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShowTable renders a fetched table read-only.
func (s *Server) ShowTable(c echo.Context) error {
	name := c.QueryParam("name")
	id := table.ParseIdentifier(name)
	if id.IsZero() {
		return render(c, view.TablePage(view.TableView{}))
	}

	start := time.Now()
	snapshot, err := s.tables.Fetch(c.Request().Context(), id)
	if err != nil {
		status, _ := errorStatus(err)
		return render(c, view.TablePage(view.TableView{Table: id.String(), Error: err.Error()}), status)
	}

	return render(c, view.TablePage(view.TableView{
		Table:   id.String(),
		QueryMS: float64(time.Since(start).Microseconds()) / 1000,
		Grid:    snapshot,
	}))
}
