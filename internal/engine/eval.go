package engine

import (
	"github.com/openarcade/chessmind/internal/board"
)

// Metrics is the evaluation breakdown for one position, every sub-score
// signed so that positive favors the perspective color.
type Metrics struct {
	Material      int `json:"material"`
	Position      int `json:"position"`
	PawnStructure int `json:"pawnStructure"`
	KingSafety    int `json:"kingSafety"`
	Activity      int `json:"activity"`
	Total         int `json:"total"`
}

var pieceValues = map[board.PieceType]int{
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   0,
}

// kingSentinel replaces the zero king value inside the absolute leaf
// evaluator so a missing king swamps every other term.
const kingSentinel = 20000

const missingKingPenalty = 10000

// Piece-square tables, written from white's point of view with rank 8 on
// the first row. White reads row 7-rank, black reads row rank, so both
// colors see the table relative to their own advance direction.
var pieceSquareTables = map[board.PieceType][8][8]int{
	board.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	board.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	board.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	},
	board.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
	board.King: {
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{20, 30, 10, 0, 0, 10, 30, 20},
	},
}

func squareBonus(t board.PieceType, color board.Color, pos board.Position) int {
	table := pieceSquareTables[t]
	if color == board.White {
		return table[7-pos.Rank][pos.File]
	}
	return table[pos.Rank][pos.File]
}

// Evaluate scores the position from the given perspective. It reads the
// board without mutating it and is safe to call repeatedly.
func Evaluate(b *board.Board, perspective board.Color) Metrics {
	opp := perspective.Other()
	m := Metrics{
		Material:      materialScore(b, perspective) - materialScore(b, opp),
		Position:      positionScore(b, perspective) - positionScore(b, opp),
		PawnStructure: pawnStructureScore(b, perspective) - pawnStructureScore(b, opp),
		KingSafety:    kingSafetyScore(b, perspective) - kingSafetyScore(b, opp),
		Activity:      activityScore(b, perspective) - activityScore(b, opp),
	}
	m.Total = m.Material + m.Position + m.PawnStructure + m.KingSafety + m.Activity
	return m
}

// evaluateAbsolute is the quiescence leaf evaluator: material plus square
// bonuses, always from white's point of view. Its sign convention never
// mixes with the perspective-relative Metrics.
func evaluateAbsolute(b *board.Board) int {
	score := 0
	for _, c := range []board.Color{board.White, board.Black} {
		side := 0
		for _, pos := range b.Pieces(c) {
			p := b.At(pos)
			v := pieceValues[p.Type]
			if p.Type == board.King {
				v = kingSentinel
			}
			side += v + squareBonus(p.Type, c, pos)
		}
		if c == board.White {
			score += side
		} else {
			score -= side
		}
	}
	return score
}

func materialScore(b *board.Board, color board.Color) int {
	score := 0
	for _, pos := range b.Pieces(color) {
		score += pieceValues[b.At(pos).Type]
	}
	return score
}

func positionScore(b *board.Board, color board.Color) int {
	score := 0
	for _, pos := range b.Pieces(color) {
		score += squareBonus(b.At(pos).Type, color, pos)
	}
	return score
}

func pawnFiles(b *board.Board, color board.Color) ([]board.Position, [8]int) {
	var pawns []board.Position
	var perFile [8]int
	for _, pos := range b.Pieces(color) {
		if b.At(pos).Type == board.Pawn {
			pawns = append(pawns, pos)
			perFile[pos.File]++
		}
	}
	return pawns, perFile
}

func pawnStructureScore(b *board.Board, color board.Color) int {
	pawns, perFile := pawnFiles(b, color)
	_, enemyPerFile := pawnFiles(b, color.Other())
	dir := 1
	promoRank := 7
	if color == board.Black {
		dir = -1
		promoRank = 0
	}

	score := 0
	for file := 0; file < 8; file++ {
		if perFile[file] > 1 {
			score -= 20 * (perFile[file] - 1)
		}
	}

	for _, pos := range pawns {
		isolated := true
		for _, df := range []int{-1, 1} {
			f := pos.File + df
			if f >= 0 && f < 8 && perFile[f] > 0 {
				isolated = false
			}
		}
		if isolated {
			score -= 15
		}

		if isPassedPawn(b, pos, color, enemyPerFile) {
			remaining := promoRank - pos.Rank
			if dir < 0 {
				remaining = pos.Rank - promoRank
			}
			score += 10 * remaining
		}
	}
	return score
}

// isPassedPawn reports whether no enemy pawn on the same or an adjacent
// file can still block the pawn's path to promotion.
func isPassedPawn(b *board.Board, pos board.Position, color board.Color, enemyPerFile [8]int) bool {
	dir := pawnDirection(color)
	for _, df := range []int{-1, 0, 1} {
		f := pos.File + df
		if f < 0 || f > 7 || enemyPerFile[f] == 0 {
			continue
		}
		for r := pos.Rank + dir; r >= 0 && r < 8; r += dir {
			p := b.At(board.Position{File: f, Rank: r})
			if p != nil && p.Type == board.Pawn && p.Color != color {
				return false
			}
		}
	}
	return true
}

func pawnDirection(color board.Color) int {
	if color == board.White {
		return 1
	}
	return -1
}

func kingSafetyScore(b *board.Board, color board.Color) int {
	king, ok := board.FindKing(b, color)
	if !ok {
		return -missingKingPenalty
	}

	score := 0
	shieldRank := king.Rank + pawnDirection(color)
	if shieldRank >= 0 && shieldRank < 8 {
		for f := king.File - 1; f <= king.File+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			p := b.At(board.Position{File: f, Rank: shieldRank})
			if p != nil && p.Type == board.Pawn && p.Color == color {
				score += 10
			} else {
				score -= 15
			}
		}
	}

	// An exposed king in the middle of the board is its own hazard.
	if king.File >= 3 && king.File <= 4 && king.Rank >= 3 && king.Rank <= 4 {
		score -= 50
	}
	return score
}

func activityScore(b *board.Board, color board.Color) int {
	score := 2 * len(board.LegalMoves(b, color))
	for _, pos := range b.Pieces(color) {
		// 0..3 bonus for standing near the center.
		fd := abs(2*pos.File - 7)
		rd := abs(2*pos.Rank - 7)
		score += (14 - fd - rd) / 4
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
