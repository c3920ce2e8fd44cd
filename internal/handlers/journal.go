package handlers

import (
	"net/http"
	"strconv"
)

type JournalHandler struct {
	base
}

func NewJournalHandler(d Deps) *JournalHandler {
	return &JournalHandler{base{d}}
}

// List shows the latest audit rows, or those of one record when
// ?entite=&id= are given.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entity := q.Get("entite")
	limit, _ := strconv.Atoi(q.Get("limit"))
	data := map[string]any{"Entity": entity}

	var err error
	if id := queryID(r, "id"); entity != "" && id > 0 {
		data["ID"] = id
		data["Entries"], err = h.Audit.ForEntity(r.Context(), entity, id)
	} else {
		data["Entries"], err = h.Audit.Recent(r.Context(), limit)
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("journal query failed")
		data["Error"] = err.Error()
	}
	h.render(w, r, "journal.html", data)
}
