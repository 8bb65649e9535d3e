package board

// notation renders a move in plain algebraic form. Captures carry "x",
// pawn pushes are just the destination square, and castling uses O-O /
// O-O-O. No check or disambiguation suffixes are added.
func notation(m Move) string {
	switch m.Castling {
	case CastleKingside:
		return "O-O"
	case CastleQueenside:
		return "O-O-O"
	}

	s := ""
	if m.Piece.Type == Pawn {
		if m.IsCapture() {
			s = m.From.String()[:1] + "x"
		}
	} else {
		s = m.Piece.Type.Initial()
		if m.IsCapture() {
			s += "x"
		}
	}
	s += m.To.String()
	if m.Promotion != "" {
		s += "=" + m.Promotion.Initial()
	}
	return s
}
