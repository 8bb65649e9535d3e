package board

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// pawnDir is the rank direction a color's pawns advance in.
func pawnDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// LegalMoves generates every legal move for color: pseudo-legal moves per
// piece, filtered by simulating each one on a clone and rejecting any that
// leaves the mover's own king attacked.
func LegalMoves(b *Board, color Color) []Move {
	pseudo := pseudoLegalMoves(b, color)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		clone := b.Clone()
		clone.Apply(m)
		if IsInCheck(clone, color) {
			continue
		}
		m.Notation = notation(m)
		legal = append(legal, m)
	}
	return legal
}

// IsInCheck reports whether color's king is attacked. A board with no such
// king is degenerate and reported as not in check.
func IsInCheck(b *Board, color Color) bool {
	king, ok := FindKing(b, color)
	if !ok {
		return false
	}
	return IsAttacked(b, king, color.Other())
}

// AttackedSquares returns the union of squares attacked by color. Pawn
// attacks are the two capture diagonals only; pushes never attack.
func AttackedSquares(b *Board, color Color) []Position {
	seen := [8][8]bool{}
	var out []Position
	for _, from := range b.Pieces(color) {
		for _, to := range attacksFrom(b, from) {
			if !seen[to.Rank][to.File] {
				seen[to.Rank][to.File] = true
				out = append(out, to)
			}
		}
	}
	return out
}

// IsAttacked reports whether any piece of the given color attacks target.
func IsAttacked(b *Board, target Position, by Color) bool {
	for _, from := range b.Pieces(by) {
		for _, to := range attacksFrom(b, from) {
			if to == target {
				return true
			}
		}
	}
	return false
}

// attacksFrom enumerates the squares attacked by the piece on from,
// independent of whose turn it is. Slider rays stop at the first occupied
// square, inclusive.
func attacksFrom(b *Board, from Position) []Position {
	piece := b.At(from)
	if piece == nil {
		return nil
	}
	var out []Position
	switch piece.Type {
	case Pawn:
		dir := pawnDir(piece.Color)
		for _, df := range []int{-1, 1} {
			to := Position{File: from.File + df, Rank: from.Rank + dir}
			if to.Valid() {
				out = append(out, to)
			}
		}
	case Knight:
		for _, o := range knightOffsets {
			to := Position{File: from.File + o[0], Rank: from.Rank + o[1]}
			if to.Valid() {
				out = append(out, to)
			}
		}
	case King:
		for _, o := range kingOffsets {
			to := Position{File: from.File + o[0], Rank: from.Rank + o[1]}
			if to.Valid() {
				out = append(out, to)
			}
		}
	case Bishop:
		out = rayAttacks(b, from, bishopDirs[:])
	case Rook:
		out = rayAttacks(b, from, rookDirs[:])
	case Queen:
		out = rayAttacks(b, from, bishopDirs[:])
		out = append(out, rayAttacks(b, from, rookDirs[:])...)
	}
	return out
}

func rayAttacks(b *Board, from Position, dirs [][2]int) []Position {
	var out []Position
	for _, d := range dirs {
		to := Position{File: from.File + d[0], Rank: from.Rank + d[1]}
		for to.Valid() {
			out = append(out, to)
			if b.At(to) != nil {
				break
			}
			to = Position{File: to.File + d[0], Rank: to.Rank + d[1]}
		}
	}
	return out
}

func pseudoLegalMoves(b *Board, color Color) []Move {
	var moves []Move
	for _, from := range b.Pieces(color) {
		piece := b.At(from)
		switch piece.Type {
		case Pawn:
			moves = append(moves, pawnMoves(b, from, *piece)...)
		case Knight:
			moves = append(moves, offsetMoves(b, from, *piece, knightOffsets[:])...)
		case King:
			moves = append(moves, offsetMoves(b, from, *piece, kingOffsets[:])...)
			moves = append(moves, castlingMoves(b, from, *piece)...)
		case Bishop:
			moves = append(moves, rayMoves(b, from, *piece, bishopDirs[:])...)
		case Rook:
			moves = append(moves, rayMoves(b, from, *piece, rookDirs[:])...)
		case Queen:
			moves = append(moves, rayMoves(b, from, *piece, bishopDirs[:])...)
			moves = append(moves, rayMoves(b, from, *piece, rookDirs[:])...)
		}
	}
	return moves
}

func pawnMoves(b *Board, from Position, piece Piece) []Move {
	var moves []Move
	dir := pawnDir(piece.Color)
	promoRank := 7
	startRank := 1
	if piece.Color == Black {
		promoRank = 0
		startRank = 6
	}

	add := func(m Move) {
		if m.To.Rank == promoRank {
			m.Promotion = Queen
		}
		moves = append(moves, m)
	}

	one := Position{File: from.File, Rank: from.Rank + dir}
	if one.Valid() && b.At(one) == nil {
		add(Move{From: from, To: one, Piece: piece})
		two := Position{File: from.File, Rank: from.Rank + 2*dir}
		if from.Rank == startRank && two.Valid() && b.At(two) == nil {
			add(Move{From: from, To: two, Piece: piece})
		}
	}

	for _, df := range []int{-1, 1} {
		to := Position{File: from.File + df, Rank: from.Rank + dir}
		if !to.Valid() {
			continue
		}
		if target := b.At(to); target != nil && target.Color != piece.Color {
			captured := *target
			add(Move{From: from, To: to, Piece: piece, Captured: &captured})
			continue
		}
		// En passant: the target square is empty, the victim pawn sits
		// beside the mover.
		if b.enPassant != nil && *b.enPassant == to {
			victimPos := Position{File: to.File, Rank: from.Rank}
			if victim := b.At(victimPos); victim != nil && victim.Type == Pawn && victim.Color != piece.Color {
				captured := *victim
				add(Move{From: from, To: to, Piece: piece, Captured: &captured, EnPassant: true})
			}
		}
	}
	return moves
}

func offsetMoves(b *Board, from Position, piece Piece, offsets [][2]int) []Move {
	var moves []Move
	for _, o := range offsets {
		to := Position{File: from.File + o[0], Rank: from.Rank + o[1]}
		if !to.Valid() {
			continue
		}
		target := b.At(to)
		if target == nil {
			moves = append(moves, Move{From: from, To: to, Piece: piece})
		} else if target.Color != piece.Color {
			captured := *target
			moves = append(moves, Move{From: from, To: to, Piece: piece, Captured: &captured})
		}
	}
	return moves
}

func rayMoves(b *Board, from Position, piece Piece, dirs [][2]int) []Move {
	var moves []Move
	for _, d := range dirs {
		to := Position{File: from.File + d[0], Rank: from.Rank + d[1]}
		for to.Valid() {
			target := b.At(to)
			if target == nil {
				moves = append(moves, Move{From: from, To: to, Piece: piece})
			} else {
				if target.Color != piece.Color {
					captured := *target
					moves = append(moves, Move{From: from, To: to, Piece: piece, Captured: &captured})
				}
				break
			}
			to = Position{File: to.File + d[0], Rank: to.Rank + d[1]}
		}
	}
	return moves
}

// castlingMoves generates castling when king and rook are unmoved, the
// squares between them are empty, the king is not in check, and neither
// the transit nor the landing square is attacked.
func castlingMoves(b *Board, from Position, king Piece) []Move {
	if king.Moved || from.File != 4 {
		return nil
	}
	rank := 0
	if king.Color == Black {
		rank = 7
	}
	if from.Rank != rank || IsInCheck(b, king.Color) {
		return nil
	}

	var moves []Move
	enemy := king.Color.Other()

	rookK := b.At(Position{File: 7, Rank: rank})
	if rookK != nil && rookK.Type == Rook && rookK.Color == king.Color && !rookK.Moved {
		f := Position{File: 5, Rank: rank}
		g := Position{File: 6, Rank: rank}
		if b.At(f) == nil && b.At(g) == nil &&
			!IsAttacked(b, f, enemy) && !IsAttacked(b, g, enemy) {
			moves = append(moves, Move{From: from, To: g, Piece: king, Castling: CastleKingside})
		}
	}

	rookQ := b.At(Position{File: 0, Rank: rank})
	if rookQ != nil && rookQ.Type == Rook && rookQ.Color == king.Color && !rookQ.Moved {
		bSq := Position{File: 1, Rank: rank}
		c := Position{File: 2, Rank: rank}
		d := Position{File: 3, Rank: rank}
		if b.At(bSq) == nil && b.At(c) == nil && b.At(d) == nil &&
			!IsAttacked(b, c, enemy) && !IsAttacked(b, d, enemy) {
			moves = append(moves, Move{From: from, To: c, Piece: king, Castling: CastleQueenside})
		}
	}
	return moves
}
