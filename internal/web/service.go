package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openarcade/chessmind/internal/board"
	"github.com/openarcade/chessmind/internal/config"
	"github.com/openarcade/chessmind/internal/engine"
)

// Service exposes the search engine over HTTP. It owns no game state:
// callers send positions as FEN and apply returned moves themselves.
type Service struct {
	engine *engine.Engine
	config *config.Config
	hub    *Hub
}

func NewService(eng *engine.Engine, cfg *config.Config, hub *Hub) *Service {
	return &Service{
		engine: eng,
		config: cfg,
		hub:    hub,
	}
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"maxDepth":  s.config.Engine.MaxDepth,
		"maxTimeMs": s.config.Engine.MaxTimeMs,
	})
}

type AnalyzeRequest struct {
	FEN         string `json:"fen"`
	Depth       int    `json:"depth,omitempty"`
	TimeLimitMs int    `json:"time_limit_ms,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Session     string `json:"session,omitempty"`
}

// resolveLimits turns a request into a concrete (depth, time) pair: a
// named difficulty preset wins, explicit values are clamped to the
// configured maxima, and missing values fall back to intermediate.
func (s *Service) resolveLimits(req AnalyzeRequest) (int, time.Duration, error) {
	if req.Difficulty != "" {
		d, ok := s.config.Engine.Difficulties[req.Difficulty]
		if !ok {
			return 0, 0, fmt.Errorf("unknown difficulty %q", req.Difficulty)
		}
		return d.Depth, time.Duration(d.TimeMs) * time.Millisecond, nil
	}

	depth := req.Depth
	timeMs := req.TimeLimitMs
	fallback := s.config.Engine.Difficulties["intermediate"]
	if depth <= 0 {
		depth = fallback.Depth
	}
	if depth > s.config.Engine.MaxDepth {
		depth = s.config.Engine.MaxDepth
	}
	if timeMs <= 0 {
		timeMs = fallback.TimeMs
	}
	if timeMs > s.config.Engine.MaxTimeMs {
		timeMs = s.config.Engine.MaxTimeMs
	}
	return depth, time.Duration(timeMs) * time.Millisecond, nil
}

func (s *Service) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, turn, err := board.ParseFEN(req.FEN)
	if err != nil {
		log.Error().Err(err).Str("fen", req.FEN).Msg("Invalid FEN")
		http.Error(w, "Invalid FEN", http.StatusBadRequest)
		return
	}

	depth, timeLimit, err := s.resolveLimits(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis := s.engine.BestMove(b, turn, depth, timeLimit)

	log.Info().
		Str("fen", req.FEN).
		Str("turn", string(turn)).
		Int("depth", depth).
		Int("nodes", analysis.NodesSearched).
		Int64("timeMs", analysis.TimeSpentMs).
		Msg("Analysis complete")

	if s.hub != nil && req.Session != "" {
		s.hub.BroadcastAnalysis(req.Session, analysis)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analysis)
}

type MoveRequest struct {
	FEN        string `json:"fen"`
	Difficulty string `json:"difficulty,omitempty"`
	Session    string `json:"session,omitempty"`
}

type MoveResponse struct {
	Move      *board.Move `json:"move"`
	Notation  string      `json:"notation,omitempty"`
	FEN       string      `json:"fen"`
	Check     bool        `json:"check"`
	Checkmate bool        `json:"checkmate"`
	Stalemate bool        `json:"stalemate"`
}

// MoveHandler is the computer-opponent endpoint: the engine picks a move
// for the side to move, applies it, and returns the resulting position.
// A null move means the engine found nothing (terminal position or an
// aborted search); the caller applies its own fallback.
func (s *Service) MoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, turn, err := board.ParseFEN(req.FEN)
	if err != nil {
		log.Error().Err(err).Str("fen", req.FEN).Msg("Invalid FEN")
		http.Error(w, "Invalid FEN", http.StatusBadRequest)
		return
	}

	depth, timeLimit, err := s.resolveLimits(AnalyzeRequest{Difficulty: req.Difficulty})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis := s.engine.BestMove(b, turn, depth, timeLimit)

	resp := MoveResponse{Move: analysis.BestMove, FEN: req.FEN}
	if analysis.BestMove != nil {
		b.Apply(*analysis.BestMove)
		opponent := turn.Other()
		resp.Notation = analysis.BestMove.Notation
		resp.FEN = b.FEN(opponent)
		resp.Check = board.IsInCheck(b, opponent)
		noReplies := len(board.LegalMoves(b, opponent)) == 0
		resp.Checkmate = resp.Check && noReplies
		resp.Stalemate = !resp.Check && noReplies
	}

	log.Info().
		Str("move", resp.Notation).
		Str("resultFEN", resp.FEN).
		Bool("check", resp.Check).
		Bool("checkmate", resp.Checkmate).
		Msg("Engine move")

	if s.hub != nil && req.Session != "" {
		s.hub.BroadcastMove(req.Session, resp)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Service) DifficultiesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.config.Engine.Difficulties)
}
