package board

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Initial returns the uppercase algebraic initial for the piece type.
// Pawns have no initial in algebraic notation.
func (t PieceType) Initial() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// Piece is a single chessman. Type and Color never change after creation;
// Moved flips to true the first time the piece moves and stays set.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
	Moved bool      `json:"-"`
}

// Position is a square on the board. File 0 is the a-file, rank 0 is
// white's back rank.
type Position struct {
	File int
	Rank int
}

// Valid reports whether the position lies on the 8x8 board.
func (p Position) Valid() bool {
	return p.File >= 0 && p.File < 8 && p.Rank >= 0 && p.Rank < 8
}

// String renders the square in algebraic form, e.g. "e4".
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return string(rune('a'+p.File)) + string(rune('1'+p.Rank))
}

func (p Position) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Position) UnmarshalJSON(data []byte) error {
	if len(data) != 4 || data[0] != '"' || data[3] != '"' {
		return fmt.Errorf("invalid square %q", string(data))
	}
	sq, err := ParseSquare(string(data[1:3]))
	if err != nil {
		return err
	}
	*p = sq
	return nil
}

// ParseSquare converts algebraic notation ("e4") into a Position.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square notation %q", s)
	}
	p := Position{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}
	if !p.Valid() {
		return Position{}, fmt.Errorf("invalid square notation %q", s)
	}
	return p, nil
}

type CastleSide string

const (
	CastleKingside  CastleSide = "kingside"
	CastleQueenside CastleSide = "queenside"
)

// Move describes a single legal move. Moves are produced only by the move
// generator; callers never construct them by hand.
type Move struct {
	From      Position   `json:"from"`
	To        Position   `json:"to"`
	Piece     Piece      `json:"piece"`
	Captured  *Piece     `json:"captured,omitempty"`
	Promotion PieceType  `json:"promotion,omitempty"`
	Castling  CastleSide `json:"castling,omitempty"`
	EnPassant bool       `json:"enPassant,omitempty"`
	Notation  string     `json:"notation"`
}

// IsCapture reports whether the move takes an enemy piece, including
// en passant captures.
func (m Move) IsCapture() bool {
	return m.Captured != nil
}
