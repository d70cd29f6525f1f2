package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	pollfeedservice "pollfeed/contexts/social-polling/poll-feed-service"
	pollfeederrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	pollfeedhttp "pollfeed/contexts/social-polling/poll-feed-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "pollfeed/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	pollFeed pollfeedservice.Module
}

func New(pollFeed pollfeedservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		pollFeed: pollFeed,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /feed", s.handleFeed)
	s.mux.HandleFunc("GET /categories", s.handleCategories)
	s.mux.HandleFunc("POST /polls", s.handleCreatePoll)
	s.mux.HandleFunc("POST /polls/{poll_id}/vote", s.handleCastVote)
	s.mux.HandleFunc("POST /polls/{poll_id}/like", s.handleToggleLike)
	s.mux.HandleFunc("GET /polls/{poll_id}/comments", s.handleListComments)
	s.mux.HandleFunc("POST /polls/{poll_id}/comments", s.handleCreateComment)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writePollFeedError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.pollFeed.Handler.FeedHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		query.Get("categoryId"),
		query.Get("cursor"),
		limit,
	)
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pollFeed.Handler.CategoriesHandler(r.Context()))
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writePollFeedError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req pollfeedhttp.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollFeedError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pollFeed.Handler.CreatePollHandler(r.Context(), userID, req)
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writePollFeedError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req pollfeedhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollFeedError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pollFeed.Handler.CastVoteHandler(r.Context(), r.PathValue("poll_id"), userID, req)
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writePollFeedError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.pollFeed.Handler.ToggleLikeHandler(r.Context(), r.PathValue("poll_id"), userID)
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pollFeed.Handler.ListCommentsHandler(r.Context(), r.PathValue("poll_id"))
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writePollFeedError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req pollfeedhttp.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollFeedError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pollFeed.Handler.CreateCommentHandler(r.Context(), r.PathValue("poll_id"), userID, req)
	if err != nil {
		writePollFeedDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writePollFeedDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pollfeederrors.ErrInvalidPollInput),
		errors.Is(err, pollfeederrors.ErrInvalidVoteInput),
		errors.Is(err, pollfeederrors.ErrInvalidLikeInput),
		errors.Is(err, pollfeederrors.ErrInvalidCommentInput):
		writePollFeedError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, pollfeederrors.ErrOptionNotFound),
		errors.Is(err, pollfeederrors.ErrOptionMismatch):
		writePollFeedError(w, http.StatusBadRequest, "option_mismatch", err.Error())
	case errors.Is(err, pollfeederrors.ErrPollNotFound):
		writePollFeedError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, pollfeederrors.ErrConflict):
		writePollFeedError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writePollFeedError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePollFeedError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollfeedhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
