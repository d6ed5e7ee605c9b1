package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

type Server struct {
	controller *quiz.Controller
	screen     *screenView
	log        logrus.FieldLogger
}

func NewServer(questions []quiz.Question, log logrus.FieldLogger, opts ...quiz.Option) *Server {
	screen := newScreenView(len(questions))
	opts = append([]quiz.Option{quiz.WithLogger(log)}, opts...)
	return &Server{
		controller: quiz.NewController(questions, screen, opts...),
		screen:     screen,
		log:        log,
	}
}

// Run serves the quiz on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, questions []quiz.Question, log logrus.FieldLogger) error {
	s := NewServer(questions, log)
	defer s.controller.Close()

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("web quiz listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "web server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleHome)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/start", s.handleStart)
		r.Post("/reset", s.handleStart)
		r.Post("/answer", s.handleAnswer)
	})
	return r
}

type stateResponse struct {
	Session string `json:"session,omitempty"`
	Locked  bool   `json:"locked"`
	screen
}

type answerRequest struct {
	Answer *int `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Reset(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"answer\": <index>}"})
		return
	}
	if err := s.controller.SubmitAnswer(*req.Answer); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

// state reports the lock from the rendered phase, so locked and phase always
// agree even while an advance is running.
func (s *Server) state() stateResponse {
	snap := s.controller.Snapshot()
	cur := s.screen.current()
	return stateResponse{
		Session: snap.Session,
		Locked:  cur.locked(),
		screen:  cur,
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quiz.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, quiz.ErrInputLocked), errors.Is(err, quiz.ErrNotStarted):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
