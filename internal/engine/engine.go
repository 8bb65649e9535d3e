package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openarcade/chessmind/internal/board"
)

// Analysis is the result of one search: the chosen move (nil when none
// was found), the evaluation breakdown, search statistics, and
// human-readable hints. The hints are presentation aids only.
type Analysis struct {
	BestMove      *board.Move `json:"bestMove"`
	Evaluation    Metrics     `json:"evaluation"`
	NodesSearched int         `json:"nodesSearched"`
	TimeSpentMs   int64       `json:"timeSpentMs"`
	Threats       []string    `json:"threats"`
	Suggestions   []string    `json:"suggestions"`
}

// Engine computes best moves. It is stateless: every call builds its own
// search state, so one instance may serve concurrent games.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// BestMove runs a depth-limited alpha-beta search for color on a clone of
// b, bounded by the wall-clock time limit. The board itself is never
// mutated. Any internal fault is recovered here and converted into an
// Analysis with a nil BestMove; it never propagates to the caller.
func (e *Engine) BestMove(b *board.Board, color board.Color, depth int, timeLimit time.Duration) (analysis Analysis) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("color", string(color)).Msg("search failed")
			analysis = Analysis{
				Threats:     []string{},
				Suggestions: []string{},
			}
		}
	}()

	if depth < 1 {
		depth = 1
	}

	s := &searcher{
		root:     color,
		deadline: start.Add(timeLimit),
	}

	root := b.Clone()
	moves := board.LegalMoves(root, color)
	s.orderMoves(moves)

	var best *board.Move
	bestScore := -infinity
	alpha := -infinity

	for i := range moves {
		if s.expired() {
			break
		}
		child := root.Clone()
		child.Apply(moves[i])
		score, aborted := s.search(child, color.Other(), depth-1, alpha, infinity, 1, false)
		if aborted {
			// Partial subtrees are discarded, not merged.
			break
		}
		if score > bestScore || best == nil {
			bestScore = score
			best = &moves[i]
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	metrics := Evaluate(b, color)
	if best != nil {
		// The search score is the authoritative bottom line.
		metrics.Total = bestScore
	}

	return Analysis{
		BestMove:      best,
		Evaluation:    metrics,
		NodesSearched: s.nodes,
		TimeSpentMs:   time.Since(start).Milliseconds(),
		Threats:       describeThreats(b, color),
		Suggestions:   suggest(metrics),
	}
}

// describeThreats lists the side's pieces currently under attack and
// whether it stands in check.
func describeThreats(b *board.Board, color board.Color) []string {
	threats := []string{}
	if board.IsInCheck(b, color) {
		threats = append(threats, fmt.Sprintf("%s king is in check", color))
	}
	for _, pos := range b.Pieces(color) {
		p := b.At(pos)
		if p.Type == board.King {
			continue
		}
		if board.IsAttacked(b, pos, color.Other()) {
			threats = append(threats, fmt.Sprintf("%s on %s is attacked", p.Type, pos))
		}
	}
	return threats
}

// suggest derives coaching hints from threshold checks on the evaluation
// sub-scores.
func suggest(m Metrics) []string {
	suggestions := []string{}
	if m.KingSafety < -30 {
		suggestions = append(suggestions, "improve king safety")
	}
	if m.Material < -100 {
		suggestions = append(suggestions, "material is down; look for tactics or trades into a holdable endgame")
	}
	if m.PawnStructure < -30 {
		suggestions = append(suggestions, "repair the pawn structure; avoid creating more weaknesses")
	}
	if m.Activity < -10 {
		suggestions = append(suggestions, "activate your pieces; they have too few squares")
	}
	if m.Total > 300 {
		suggestions = append(suggestions, "you are winning; simplify and convert the advantage")
	}
	return suggestions
}
