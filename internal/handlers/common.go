package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-commandes/confirm"
	"github.com/diewo77/go-commandes/i18n"
	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/middleware"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/view"
	"github.com/rs/zerolog"
)

// Deps are shared by every handler.
type Deps struct {
	API     *backend.Client
	Audit   *services.AuditService
	Confirm *confirm.Signer
	Log     zerolog.Logger
}

type base struct {
	Deps
}

func (b base) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	b.renderStatus(w, r, http.StatusOK, name, data)
}

func (b base) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		b.Log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail renders the error page for a backend failure on a page that cannot
// be shown at all (detail of a missing record, edit form...).
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	msg := backend.Message(err)
	if backend.IsNotFound(err) {
		status = http.StatusNotFound
		msg = i18n.T(middleware.LangFrom(r), "error.not_found")
	}
	b.renderStatus(w, r, status, "error.html", map[string]any{"Error": msg, "Status": status})
}

func (b base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderStatus(w, r, http.StatusNotFound, "error.html", map[string]any{
		"Error":  i18n.T(middleware.LangFrom(r), "error.not_found"),
		"Status": http.StatusNotFound,
	})
}

// redirect flashes code and sends the browser to url.
func redirect(w http.ResponseWriter, r *http.Request, url, code string) {
	if code != "" {
		middleware.Flash(w, r, code)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// redirectError flashes the backend message instead of a translation code.
func redirectError(w http.ResponseWriter, r *http.Request, url string, err error) {
	redirect(w, r, url, backend.Message(err))
}

func (b base) record(r *http.Request, entity string, id int64, action, field, oldValue, newValue string) {
	b.Audit.Record(r.Context(), models.AuditLog{
		RequestID:  middleware.RequestID(r.Context()),
		EntityType: entity,
		EntityID:   id,
		Action:     action,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

// pathID parses the {id} wildcard.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func queryID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return id
}

// confirmPage shows the second step of a destructive action.
func (b base) confirmPage(w http.ResponseWriter, r *http.Request, action, resource string, id int64, messageCode, backURL string) {
	b.render(w, r, "confirm.html", map[string]any{
		"Message":   i18n.T(middleware.LangFrom(r), messageCode),
		"Action":    r.URL.Path,
		"Token":     b.Confirm.Issue(action, resource, id),
		"TokenName": confirm.FieldName,
		"BackURL":   backURL,
	})
}

// confirmed checks the posted token. On failure the user is sent back with
// a flash and no backend call must follow.
func (b base) confirmed(w http.ResponseWriter, r *http.Request, action, resource string, id int64, backURL string) bool {
	if b.Confirm.Verify(r.PostFormValue(confirm.FieldName), action, resource, id) {
		return true
	}
	b.Log.Warn().Str("action", action).Str("resource", resource).Int64("id", id).Msg("confirmation rejected")
	redirect(w, r, backURL, "error.confirm")
	return false
}

// listing builds the common data of a filtered list page.
func listing(query string, shown, total int) map[string]any {
	return map[string]any{"Query": query, "Shown": shown, "Total": total}
}
