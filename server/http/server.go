package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vie-scout/vigie/embedder"
	"github.com/vie-scout/vigie/rag"
	"github.com/vie-scout/vigie/refresh"
	"github.com/vie-scout/vigie/search"
	"github.com/vie-scout/vigie/store"
)

const defaultLimit = 5

// Server exposes the retrieval read path over HTTP. The write path stays in
// the ingest CLI; nothing here mutates the store.
type Server struct {
	options Options
	service *rag.Service
	store   store.Store
	tracker refresh.Tracker
	router  *mux.Router
}

func NewServer(service *rag.Service, st store.Store, tracker refresh.Tracker, opts ...Option) *Server {
	options := NewOptions(opts...)

	s := &Server{
		options: options,
		service: service,
		store:   st,
		tracker: tracker,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/offers/search", s.handleSearch).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/answers", s.handleAnswer).Methods(http.MethodPost)

	for _, m := range options.Middleware {
		s.router.Use(m)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.options.Address,
		Handler: s.router,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("http server listening", "address", s.options.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusResponse struct {
	Count       int        `json:"count"`
	Dimensions  int        `json:"dimensions"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rsp := statusResponse{
		Count:      s.store.Count(),
		Dimensions: s.store.Dimensions(),
	}

	last, err := s.tracker.Last(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !last.IsZero() {
		rsp.LastRefresh = &last
	}

	writeJSON(w, http.StatusOK, rsp)
}

type matchResponse struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("q")
	if len(question) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter q"))
		return
	}

	k := defaultLimit
	if raw := r.URL.Query().Get("k"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("k must be a positive integer"))
			return
		}
		k = parsed
	}

	var opts []search.QueryOption
	if filter := filterFromQuery(r.URL.Query()); filter != nil {
		opts = append(opts, search.WithFilter(filter))
	}

	matches, err := s.service.Search(r.Context(), question, k, opts...)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponses(matches))
}

type answerRequest struct {
	Question string  `json:"question"`
	K        int     `json:"k,omitempty"`
	Filter   *filter `json:"filter,omitempty"`
}

type answerResponse struct {
	Answer  string          `json:"answer"`
	Matches []matchResponse `json:"matches"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Question) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("question is required"))
		return
	}

	k := req.K
	if k == 0 {
		k = defaultLimit
	}
	if k < 0 {
		writeError(w, http.StatusBadRequest, errors.New("k must be a positive integer"))
		return
	}

	var opts []search.QueryOption
	if req.Filter != nil {
		opts = append(opts, search.WithFilter(req.Filter.toSearchFilter()))
	}

	answer, err := s.service.Ask(r.Context(), req.Question, k, opts...)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Answer:  answer.Text,
		Matches: toMatchResponses(answer.Matches),
	})
}

func toMatchResponses(matches []search.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchResponse{
			ID:       m.Entry.ID,
			Score:    m.Score,
			Text:     m.Entry.Text,
			Metadata: m.Entry.Metadata,
		})
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, search.ErrInvalidLimit), errors.Is(err, store.ErrDimensionMismatch):
		return http.StatusBadRequest
	case embedder.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
