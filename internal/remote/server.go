// Package remote is the reference score service: the sync target the
// device-side engine pushes to and pulls from.
//
// It keeps its own SQLite database with one score row per (user, date),
// re-runs the scoring arithmetic on every submission to reject
// implausible claims, and maintains the same per-user streak state
// machine the device runs locally.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/score"
	"github.com/marcward/gridstreak/internal/streak"
)

// maxBodySize bounds a submission body.
const maxBodySize = 1 << 20

// Options tune server behavior.
type Options struct {
	// AutoRegister creates users on first submission instead of
	// answering 404. The default service runs with it on; a deployment
	// fronted by real accounts turns it off.
	AutoRegister bool

	// Now supplies the server clock for future-date checks. Nil means
	// time.Now.
	Now func() time.Time
}

// Server is the HTTP surface of the score service.
type Server struct {
	storage *Storage
	log     *slog.Logger

	autoRegister bool
	now          func() time.Time
}

// NewServer wires the service over storage. logger may be nil for the
// default.
func NewServer(storage *Storage, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		storage:      storage,
		log:          logger,
		autoRegister: opts.AutoRegister,
		now:          now,
	}
}

// Handler returns the service's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scores", s.handleSubmit)
	mux.HandleFunc("GET /scores", s.handleScores)
	mux.HandleFunc("GET /streak", s.handleStreak)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type submitRequest struct {
	UserID         string `json:"userId"`
	Date           string `json:"date"`
	Score          int    `json:"score"`
	CompletionTime int    `json:"completionTime"`
	HintsUsed      int    `json:"hintsUsed"`
	PuzzleType     string `json:"puzzleType"`
	Difficulty     string `json:"difficulty"`
}

type scorePayload struct {
	Date           string `json:"date"`
	Score          int    `json:"score"`
	CompletionTime int    `json:"completionTime"`
	HintsUsed      int    `json:"hintsUsed"`
	PuzzleType     string `json:"puzzleType"`
	Difficulty     string `json:"difficulty"`
}

type submitResponse struct {
	Success   bool         `json:"success"`
	Duplicate bool         `json:"duplicate"`
	Score     scorePayload `json:"score"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.Date == "" || req.Score == 0 ||
		req.CompletionTime == 0 || req.PuzzleType == "" {
		s.fail(w, http.StatusBadRequest, "userId, date, score, completionTime and puzzleType are required")
		return
	}

	if _, err := time.ParseInLocation(puzzle.DateLayout, req.Date, time.UTC); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", req.Date))
		return
	}
	// Date keys compare lexicographically, so the calendar-day boundary
	// is a plain string comparison.
	if req.Date > s.now().UTC().Format(puzzle.DateLayout) {
		s.fail(w, http.StatusBadRequest, "date is in the future")
		return
	}

	if !score.Plausible(req.Score, req.CompletionTime, req.HintsUsed, puzzle.Difficulty(req.Difficulty)) {
		s.log.Warn("implausible score rejected",
			"user", req.UserID, "date", req.Date, "score", req.Score, "time", req.CompletionTime)
		s.fail(w, http.StatusBadRequest, "score is not plausible for the reported completion")
		return
	}

	ctx := r.Context()
	if err := s.requireUser(ctx, req.UserID); err != nil {
		if errors.Is(err, ErrUnknownUser) {
			s.fail(w, http.StatusNotFound, "unknown user")
			return
		}
		s.serverError(w, err)
		return
	}

	stored, duplicate, err := s.storage.InsertScore(ctx, ScoreRow{
		UserID:         req.UserID,
		Date:           req.Date,
		Score:          req.Score,
		CompletionTime: req.CompletionTime,
		HintsUsed:      req.HintsUsed,
		PuzzleType:     req.PuzzleType,
		Difficulty:     req.Difficulty,
	})
	if err != nil {
		s.serverError(w, err)
		return
	}

	if !duplicate {
		if err := s.advanceStreak(ctx, req.UserID, req.Date); err != nil {
			s.serverError(w, err)
			return
		}
	}

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	s.respond(w, status, submitResponse{
		Success:   true,
		Duplicate: duplicate,
		Score:     payloadFrom(stored),
	})
}

// advanceStreak feeds a newly stored date into the user's streak state.
// Out-of-order backfill dates run through the same transition the device
// uses, so a stale date resets rather than corrupts.
func (s *Server) advanceStreak(ctx context.Context, userID, date string) error {
	prev, err := s.storage.StreakFor(ctx, userID)
	if err != nil {
		return err
	}
	next, changed, err := streak.Next(prev, date)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.storage.SaveStreak(ctx, userID, next)
}

func (s *Server) requireUser(ctx context.Context, userID string) error {
	if s.autoRegister {
		return s.storage.EnsureUser(ctx, userID, "")
	}
	exists, err := s.storage.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownUser
	}
	return nil
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.fail(w, http.StatusBadRequest, "userId is required")
		return
	}

	rows, err := s.storage.ScoresForUser(r.Context(), userID)
	if err != nil {
		s.serverError(w, err)
		return
	}

	scores := make([]scorePayload, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, payloadFrom(row))
	}
	s.respond(w, http.StatusOK, map[string]any{"scores": scores})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.fail(w, http.StatusBadRequest, "userId is required")
		return
	}

	st, err := s.storage.StreakFor(r.Context(), userID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.respond(w, http.StatusOK, st)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func payloadFrom(row ScoreRow) scorePayload {
	return scorePayload{
		Date:           row.Date,
		Score:          row.Score,
		CompletionTime: row.CompletionTime,
		HintsUsed:      row.HintsUsed,
		PuzzleType:     row.PuzzleType,
		Difficulty:     row.Difficulty,
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("write response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", "error", err)
	s.fail(w, http.StatusInternalServerError, "internal error")
}
