package ui

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/models/task"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const createdAtLayout = "Jan 2, 15:04"

type pageData struct {
	State    State
	Visible  []*task.Task
	Statuses []task.Status
	Filters  []string
}

type confirmData struct {
	Task *task.Task
}

// Server отдаёт HTML страницу и принимает её формы (POST, затем редирект на /)
type Server struct {
	controller *Controller
	templates  *template.Template
	router     chi.Router
}

func NewServer(controller *Controller) (*Server, error) {
	tmpl, err := template.New("ui").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		controller: controller,
		templates:  tmpl,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)

	r.Get("/", s.index)
	r.Post("/filter", s.setFilter)
	r.Post("/refresh", s.refresh)
	r.Post("/tasks", s.create)

	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Post("/status", s.updateStatus)
		r.Post("/edit", s.startEdit)
		r.Post("/cancel", s.cancelEdit)
		r.Post("/save", s.saveEdit)
		r.Get("/delete", s.confirmDelete)
		r.Post("/delete", s.delete)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	// ошибка уже лежит в состоянии и будет показана на странице
	_ = s.controller.EnsureLoaded(r.Context())

	state := s.controller.State()
	s.render(w, r, "index", pageData{
		State:    state,
		Visible:  state.Visible(),
		Statuses: task.Statuses,
		Filters:  filters(),
	})
}

func (s *Server) setFilter(w http.ResponseWriter, r *http.Request) {
	s.controller.SetFilter(r.FormValue("filter"))
	redirectHome(w, r)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	_ = s.controller.Refresh(r.Context())
	redirectHome(w, r)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	_ = s.controller.Create(r.Context(),
		r.FormValue("title"),
		r.FormValue("description"),
		task.Status(r.FormValue("status")),
	)
	redirectHome(w, r)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	_ = s.controller.UpdateStatus(r.Context(), chi.URLParam(r, "id"), task.Status(r.FormValue("status")))
	redirectHome(w, r)
}

func (s *Server) startEdit(w http.ResponseWriter, r *http.Request) {
	s.controller.StartEdit(chi.URLParam(r, "id"))
	redirectHome(w, r)
}

func (s *Server) cancelEdit(w http.ResponseWriter, r *http.Request) {
	s.controller.CancelEdit(chi.URLParam(r, "id"))
	redirectHome(w, r)
}

func (s *Server) saveEdit(w http.ResponseWriter, r *http.Request) {
	_ = s.controller.SaveEdit(r.Context(), chi.URLParam(r, "id"), r.FormValue("title"), r.FormValue("description"))
	redirectHome(w, r)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	t := s.controller.State().Find(chi.URLParam(r, "id"))
	if t == nil {
		redirectHome(w, r)
		return
	}
	s.render(w, r, "confirm", confirmData{Task: t})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	_ = s.controller.Delete(r.Context(), chi.URLParam(r, "id"), r.FormValue("confirm") == "yes")
	redirectHome(w, r)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("UI: ошибка рендеринга шаблона", err,
			zap.String("template", name),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func filters() []string {
	out := []string{FilterAll}
	for _, st := range task.Statuses {
		out = append(out, string(st))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Local().Format(createdAtLayout)
}
