package engine

import (
	"sort"
	"time"

	"github.com/openarcade/chessmind/internal/board"
)

const (
	// mateScore is the base checkmate score; the distance from the root is
	// subtracted so nearer mates score higher.
	mateScore = 9999

	infinity = 1 << 20

	// quiescenceDepth is how many extra capture-only plies are searched at
	// depth-zero leaves to settle positions mid-exchange.
	quiescenceDepth = 3
)

// searcher holds the state of one search call. The history table lives
// here rather than on the engine so concurrent searches for different
// games never share heuristics.
type searcher struct {
	root     board.Color
	deadline time.Time
	nodes    int
	history  [8][8][8][8]int
}

// expired reports whether the wall-clock deadline has passed. It is
// checked at the entry of every recursive call; an expired search unwinds
// through the aborted return flag rather than a thrown error.
func (s *searcher) expired() bool {
	return time.Now().After(s.deadline)
}

// orderMoves sorts captures first by MVV-LVA, then quiet moves by the
// history table.
func (s *searcher) orderMoves(moves []board.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return s.moveScore(moves[i]) > s.moveScore(moves[j])
	})
}

func (s *searcher) moveScore(m board.Move) int {
	if m.Captured != nil {
		victim := pieceValues[m.Captured.Type]
		attacker := pieceValues[m.Piece.Type]
		return 100000 + victim - attacker/10
	}
	return s.history[m.From.File][m.From.Rank][m.To.File][m.To.Rank]
}

// recordCutoff bumps the history table for the quiet move that produced a
// beta cutoff.
func (s *searcher) recordCutoff(m board.Move, depth int) {
	if m.Captured == nil {
		s.history[m.From.File][m.From.Rank][m.To.File][m.To.Rank] += depth * depth
	}
}

// search is the alpha-beta minimax. maximizing is true when the side to
// move is the root color. The second return reports a deadline abort; an
// aborted subtree's score is meaningless and must be discarded.
func (s *searcher) search(b *board.Board, toMove board.Color, depth, alpha, beta, ply int, maximizing bool) (int, bool) {
	if s.expired() {
		return 0, true
	}
	s.nodes++

	moves := board.LegalMoves(b, toMove)
	if len(moves) == 0 {
		if board.IsInCheck(b, toMove) {
			// The side to move is mated; the score favors the other side.
			if maximizing {
				return -(mateScore - ply), false
			}
			return mateScore - ply, false
		}
		return 0, false
	}

	if depth == 0 {
		return s.quiescence(b, toMove, moves, quiescenceDepth, alpha, beta, maximizing)
	}

	s.orderMoves(moves)

	if maximizing {
		best := -infinity
		for _, m := range moves {
			child := b.Clone()
			child.Apply(m)
			score, aborted := s.search(child, toMove.Other(), depth-1, alpha, beta, ply+1, false)
			if aborted {
				return 0, true
			}
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				s.recordCutoff(m, depth)
				break
			}
		}
		return best, false
	}

	best := infinity
	for _, m := range moves {
		child := b.Clone()
		child.Apply(m)
		score, aborted := s.search(child, toMove.Other(), depth-1, alpha, beta, ply+1, true)
		if aborted {
			return 0, true
		}
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			s.recordCutoff(m, depth)
			break
		}
	}
	return best, false
}

// quiescence extends depth-zero leaves with capture-only search so the
// engine does not misjudge a position in the middle of an exchange. The
// stand-pat score comes from the absolute evaluator, sign-adjusted to the
// root perspective.
func (s *searcher) quiescence(b *board.Board, toMove board.Color, moves []board.Move, depth, alpha, beta int, maximizing bool) (int, bool) {
	if s.expired() {
		return 0, true
	}
	s.nodes++

	stand := evaluateAbsolute(b)
	if s.root == board.Black {
		stand = -stand
	}
	if depth == 0 {
		return stand, false
	}

	var captures []board.Move
	for _, m := range moves {
		if m.Captured != nil {
			captures = append(captures, m)
		}
	}
	s.orderMoves(captures)

	if maximizing {
		best := stand
		if best > alpha {
			alpha = best
		}
		if beta <= alpha {
			return best, false
		}
		for _, m := range captures {
			child := b.Clone()
			child.Apply(m)
			next := board.LegalMoves(child, toMove.Other())
			score, aborted := s.quiescence(child, toMove.Other(), next, depth-1, alpha, beta, false)
			if aborted {
				return 0, true
			}
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best, false
	}

	best := stand
	if best < beta {
		beta = best
	}
	if beta <= alpha {
		return best, false
	}
	for _, m := range captures {
		child := b.Clone()
		child.Apply(m)
		next := board.LegalMoves(child, toMove.Other())
		score, aborted := s.quiescence(child, toMove.Other(), next, depth-1, alpha, beta, true)
		if aborted {
			return 0, true
		}
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best, false
}
