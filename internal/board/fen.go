package board

import (
	"fmt"
	"strings"
)

var fenPieces = map[byte]PieceType{
	'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn,
}

var pieceFEN = map[PieceType]byte{
	King: 'k', Queen: 'q', Rook: 'r', Bishop: 'b', Knight: 'n', Pawn: 'p',
}

// ParseFEN builds a board and side to move from a FEN record. Castling
// availability is folded into the Moved flags of the kings and rooks, and
// the en passant field becomes the board's en passant target.
func ParseFEN(fen string) (*Board, Color, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, "", fmt.Errorf("invalid FEN: expected 6 fields, got %d", len(fields))
	}

	b := &Board{}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, "", fmt.Errorf("invalid FEN: expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			t, ok := fenPieces[byte(ch)|0x20]
			if !ok || file > 7 {
				return nil, "", fmt.Errorf("invalid FEN: bad placement %q", row)
			}
			color := Black
			if ch >= 'A' && ch <= 'Z' {
				color = White
			}
			piece := &Piece{Type: t, Color: color}
			if t == Pawn {
				home := 1
				if color == Black {
					home = 6
				}
				piece.Moved = rank != home
			}
			b.squares[rank][file] = piece
			file++
		}
		if file != 8 {
			return nil, "", fmt.Errorf("invalid FEN: rank %q does not span 8 files", row)
		}
	}

	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return nil, "", fmt.Errorf("invalid FEN: bad side to move %q", fields[1])
	}

	rights := fields[2]
	b.applyCastlingRights(White, strings.Contains(rights, "K"), strings.Contains(rights, "Q"))
	b.applyCastlingRights(Black, strings.Contains(rights, "k"), strings.Contains(rights, "q"))

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, "", fmt.Errorf("invalid FEN: bad en passant square %q", fields[3])
		}
		b.enPassant = &sq
	}

	return b, turn, nil
}

// applyCastlingRights marks kings and rooks as moved when FEN denies the
// corresponding right, so castling generation falls out of the Moved flags.
func (b *Board) applyCastlingRights(color Color, kingside, queenside bool) {
	rank := 0
	if color == Black {
		rank = 7
	}
	if !kingside {
		if r := b.squares[rank][7]; r != nil && r.Type == Rook && r.Color == color {
			r.Moved = true
		}
	}
	if !queenside {
		if r := b.squares[rank][0]; r != nil && r.Type == Rook && r.Color == color {
			r.Moved = true
		}
	}
	if !kingside && !queenside {
		if k := b.squares[rank][4]; k != nil && k.Type == King && k.Color == color {
			k.Moved = true
		}
	}
}

// FEN renders the position with the given side to move. Halfmove and
// fullmove counters are not tracked and always render as "0 1".
func (b *Board) FEN(turn Color) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[rank][file]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := pieceFEN[p.Type]
			if p.Color == White {
				ch &^= 0x20
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	rights := ""
	if b.hasCastlingRight(White, CastleKingside) {
		rights += "K"
	}
	if b.hasCastlingRight(White, CastleQueenside) {
		rights += "Q"
	}
	if b.hasCastlingRight(Black, CastleKingside) {
		rights += "k"
	}
	if b.hasCastlingRight(Black, CastleQueenside) {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if b.enPassant != nil {
		sb.WriteString(b.enPassant.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteString(" 0 1")
	return sb.String()
}

func (b *Board) hasCastlingRight(color Color, side CastleSide) bool {
	rank := 0
	if color == Black {
		rank = 7
	}
	king := b.squares[rank][4]
	if king == nil || king.Type != King || king.Color != color || king.Moved {
		return false
	}
	rookFile := 7
	if side == CastleQueenside {
		rookFile = 0
	}
	rook := b.squares[rank][rookFile]
	return rook != nil && rook.Type == Rook && rook.Color == color && !rook.Moved
}
