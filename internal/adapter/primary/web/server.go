package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
	"clock-radio/internal/telemetry"
	"clock-radio/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server is a primary adapter that exposes the admin UI and JSON API.
// It depends on the use case (primary port) handed to its constructor.
type Server struct {
	usecase usecase.RadioUseCase
	router  chi.Router
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.RadioUseCase, addr string) *Server {
	srv := &Server{usecase: uc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.MetricsMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/", srv.handleRoot)
	r.Handle("/metrics", telemetry.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", srv.handleStatus)
		r.Post("/snooze", srv.handle(func(*http.Request) (action, error) { return action{kind: actSnooze}, nil }))
		r.Delete("/snooze", srv.handle(func(*http.Request) (action, error) { return action{kind: actCancelSnooze}, nil }))
		r.Post("/discard", srv.handle(func(*http.Request) (action, error) { return action{kind: actDiscard}, nil }))
		r.Delete("/discard", srv.handle(func(*http.Request) (action, error) { return action{kind: actCancelDiscard}, nil }))
		r.Post("/save", srv.handle(func(*http.Request) (action, error) { return action{kind: actSave}, nil }))
		r.Post("/tick", srv.handle(func(*http.Request) (action, error) { return action{kind: actTick}, nil }))
		r.Put("/profile", srv.handle(parseSwitchProfile))
		r.Put("/snooze-duration", srv.handle(parseSnoozeDuration))
		r.Put("/profiles/{profile}/timetable", srv.handle(parseSetTimetable))
		r.Post("/playlists", srv.handle(parseNewPlaylist))
		r.Patch("/playlists/{playlist}", srv.handle(parseRenamePlaylist))
		r.Delete("/playlists/{playlist}", srv.handle(parseDeletePlaylist))
		r.Post("/playlists/{playlist}/items", srv.handle(parseItem(actAddItem)))
		r.Delete("/playlists/{playlist}/items", srv.handle(parseItem(actRemoveItem)))
	})
	srv.router = r

	srv.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, snapshotToView(s.usecase.Snapshot())); err != nil {
		logging.Errorf("render page: %v", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

// handle parses the request into an action once and hands it to dispatch.
func (s *Server) handle(parse func(*http.Request) (action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := parse(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.dispatch(act); err != nil {
			respondError(w, statusFor(err), err)
			return
		}
		respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
	}
}

func (s *Server) dispatch(act action) error {
	uc := s.usecase
	switch act.kind {
	case actSnooze:
		uc.Snooze()
		return nil
	case actCancelSnooze:
		uc.CancelSnooze()
		return nil
	case actDiscard:
		uc.Discard()
		return nil
	case actCancelDiscard:
		uc.CancelDiscard()
		return nil
	case actSave:
		uc.RequestSave()
		return nil
	case actTick:
		uc.TickNow()
		return nil
	case actSwitchProfile:
		return uc.SwitchProfile(act.name)
	case actSetSnoozeDuration:
		return uc.SetSnoozeDuration(act.snooze)
	case actSetTimetable:
		return uc.SetTimetable(act.name, act.timetable)
	case actNewPlaylist:
		return uc.NewPlaylist(act.name)
	case actRenamePlaylist:
		return uc.RenamePlaylist(act.name, act.target)
	case actDeletePlaylist:
		return uc.DeletePlaylist(act.name)
	case actAddItem:
		return uc.AddItem(act.name, act.item)
	case actRemoveItem:
		return uc.RemoveItem(act.name, act.item)
	default:
		return errUnknownAction
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrPlaylistNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPlaylistExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidTimetable),
		errors.Is(err, domain.ErrUnknownPeriod),
		errors.Is(err, domain.ErrInvalidSnooze),
		errors.Is(err, errUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warnf("encode JSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s %s (%s)", r.Method, r.URL.Path, time.Since(start), middleware.GetReqID(r.Context()))
	})
}
