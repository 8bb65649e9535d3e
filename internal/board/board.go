package board

// Board is an 8x8 grid of optional pieces plus the current en passant
// target square, if any. The authoritative board belongs to the calling
// layer; the search only ever works on clones.
type Board struct {
	squares   [8][8]*Piece // indexed [rank][file]
	enPassant *Position
}

// New returns a board in the standard initial position.
func New() *Board {
	b := &Board{}
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, t := range back {
		b.squares[0][file] = &Piece{Type: t, Color: White}
		b.squares[7][file] = &Piece{Type: t, Color: Black}
		b.squares[1][file] = &Piece{Type: Pawn, Color: White}
		b.squares[6][file] = &Piece{Type: Pawn, Color: Black}
	}
	return b
}

// At returns the piece on the given square, or nil. Callers must not
// mutate the returned piece.
func (b *Board) At(p Position) *Piece {
	if !p.Valid() {
		return nil
	}
	return b.squares[p.Rank][p.File]
}

func (b *Board) put(p Position, piece *Piece) {
	b.squares[p.Rank][p.File] = piece
}

// EnPassantTarget returns the square a pawn may capture onto en passant,
// or nil when no double push just happened.
func (b *Board) EnPassantTarget() *Position {
	return b.enPassant
}

// Clone returns a full deep copy. Pieces are copied by value so that a
// search branch flipping a Moved flag never leaks into siblings.
func (b *Board) Clone() *Board {
	c := &Board{}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.squares[r][f]; p != nil {
				cp := *p
				c.squares[r][f] = &cp
			}
		}
	}
	if b.enPassant != nil {
		ep := *b.enPassant
		c.enPassant = &ep
	}
	return c
}

// Apply commits a generated move to the board. The move must have come
// from LegalMoves for the current position.
func (b *Board) Apply(m Move) {
	piece := b.At(m.From)
	if piece == nil {
		return
	}

	if m.EnPassant {
		// The captured pawn sits beside the destination, not on it.
		b.put(Position{File: m.To.File, Rank: m.From.Rank}, nil)
	}

	b.put(m.From, nil)
	piece.Moved = true
	if m.Promotion != "" {
		piece.Type = m.Promotion
	}
	b.put(m.To, piece)

	// Castling also hops the rook over the king.
	switch m.Castling {
	case CastleKingside:
		rook := b.At(Position{File: 7, Rank: m.From.Rank})
		b.put(Position{File: 7, Rank: m.From.Rank}, nil)
		if rook != nil {
			rook.Moved = true
			b.put(Position{File: 5, Rank: m.From.Rank}, rook)
		}
	case CastleQueenside:
		rook := b.At(Position{File: 0, Rank: m.From.Rank})
		b.put(Position{File: 0, Rank: m.From.Rank}, nil)
		if rook != nil {
			rook.Moved = true
			b.put(Position{File: 3, Rank: m.From.Rank}, rook)
		}
	}

	b.enPassant = nil
	if piece.Type == Pawn && abs(m.To.Rank-m.From.Rank) == 2 {
		b.enPassant = &Position{File: m.From.File, Rank: (m.From.Rank + m.To.Rank) / 2}
	}
}

// FindKing scans for the king of the given color. The second return is
// false on degenerate boards with no such king; callers treat that as a
// non-fatal condition rather than an error.
func FindKing(b *Board, color Color) (Position, bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b.squares[r][f]
			if p != nil && p.Type == King && p.Color == color {
				return Position{File: f, Rank: r}, true
			}
		}
	}
	return Position{}, false
}

// Pieces returns every position occupied by the given color.
func (b *Board) Pieces(color Color) []Position {
	var out []Position
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.squares[r][f]; p != nil && p.Color == color {
				out = append(out, Position{File: f, Rank: r})
			}
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
