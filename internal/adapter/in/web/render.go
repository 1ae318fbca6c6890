package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"myblog/internal/model"
	"myblog/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{
	"home",
	"index",
	"new",
	"edit",
	"show",
	"register",
	"login",
	"error",
}

// views holds one template set per page, each parsed together with the shared
// layout.
type views struct {
	pages map[string]*template.Template
}

// pageData is what the layout receives.
type pageData struct {
	Title   string
	Actor   *model.User
	Success []string
	Errors  []string
	Content any
}

type errorPage struct {
	Status  int
	Message string
}

// showPage is the content of the post detail view.
type showPage struct {
	model.PostDetails
	CanEdit bool
}

var funcs = template.FuncMap{
	"isAuthor": func(actor *model.User, userID int64) bool {
		return actor != nil && actor.ID == userID
	},
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes page inside the layout. Pending notices are consumed, so the
// session is saved before anything is written.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, rc *RequestContext, status int, page, title string, content any) {
	log := logger.FromContext(r.Context())

	data := pageData{Title: title, Content: content}
	if rc != nil {
		data.Actor = rc.Actor
		data.Success, data.Errors = rc.notices()
		if err := rc.save(w, r); err != nil {
			log.Error("save session before render", "error", err)
		}
	}

	t, ok := h.views.pages[page]
	if !ok {
		log.Error("unknown page", "page", page)
		http.Error(w, defaultErrorMessage, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("execute template", "page", page, "error", err)
		http.Error(w, defaultErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
