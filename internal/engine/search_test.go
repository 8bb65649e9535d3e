package engine

import (
	"testing"
	"time"

	"github.com/openarcade/chessmind/internal/board"
)

func TestFindsMateInOne(t *testing.T) {
	testCases := []struct {
		name string
		fen  string
		from string
		to   string
	}{
		{
			name: "back rank mate as white",
			fen:  "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
			from: "a1", to: "a8",
		},
		{
			name: "back rank mate as black",
			fen:  "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1",
			from: "a8", to: "a1",
		},
	}

	for _, tc := range testCases {
		for _, depth := range []int{1, 3} {
			t.Run(tc.name, func(t *testing.T) {
				b, turn := mustParse(t, tc.fen)
				analysis := New().BestMove(b, turn, depth, 10*time.Second)

				if analysis.BestMove == nil {
					t.Fatalf("Expected a mating move at depth %d, got none", depth)
				}
				got := analysis.BestMove.From.String() + analysis.BestMove.To.String()
				if got != tc.from+tc.to {
					t.Errorf("Expected mating move %s%s at depth %d, got %s", tc.from, tc.to, depth, got)
				}
				if analysis.Evaluation.Total < 9000 {
					t.Errorf("Expected an extreme mate score, got %d", analysis.Evaluation.Total)
				}
			})
		}
	}
}

func TestPrefersWinningCapture(t *testing.T) {
	// The black queen on d5 hangs to the rook on d2.
	b, turn := mustParse(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")
	analysis := New().BestMove(b, turn, 3, 10*time.Second)

	if analysis.BestMove == nil {
		t.Fatal("Expected a move")
	}
	if analysis.BestMove.Notation != "Rxd5" {
		t.Errorf("Expected Rxd5, got %s", analysis.BestMove.Notation)
	}
	if !analysis.BestMove.IsCapture() {
		t.Errorf("Expected a capture move")
	}
}

func TestNoLegalMovesReturnsNullMove(t *testing.T) {
	testCases := []struct {
		name string
		fen  string
	}{
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"},
		{"checkmate", "R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, turn := mustParse(t, tc.fen)
			analysis := New().BestMove(b, turn, 3, time.Second)
			if analysis.BestMove != nil {
				t.Errorf("Expected no move in a terminal position, got %s", analysis.BestMove.Notation)
			}
		})
	}
}

func TestTinyTimeLimitStillReturns(t *testing.T) {
	b := board.New()
	done := make(chan Analysis, 1)
	go func() {
		done <- New().BestMove(b, board.White, 8, time.Millisecond)
	}()

	select {
	case analysis := <-done:
		// BestMove may be nil or best-so-far; either way the call must
		// come back promptly and without panicking.
		if analysis.TimeSpentMs > 2000 {
			t.Errorf("Search overran its deadline by far: %d ms", analysis.TimeSpentMs)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Search did not return after the deadline")
	}
}

func TestSearchDoesNotMutateCallerBoard(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1"
	b, turn := mustParse(t, fen)
	_ = New().BestMove(b, turn, 3, 5*time.Second)
	if got := b.FEN(turn); got != fen {
		t.Errorf("Search mutated the caller's board:\n before %s\n after  %s", fen, got)
	}
}

func TestNodesAndTimeAreReported(t *testing.T) {
	b := board.New()
	analysis := New().BestMove(b, board.White, 2, 10*time.Second)
	if analysis.BestMove == nil {
		t.Fatal("Expected a move from the initial position")
	}
	if analysis.NodesSearched <= 0 {
		t.Errorf("Expected a positive node count, got %d", analysis.NodesSearched)
	}
	if analysis.TimeSpentMs < 0 {
		t.Errorf("Expected non-negative time, got %d", analysis.TimeSpentMs)
	}
}

func TestThreatsAndSuggestions(t *testing.T) {
	// White's rook on d2 is attacked by the queen; white is also down a
	// queen for a rook, so material advice should fire.
	b, turn := mustParse(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")
	metrics := Evaluate(b, turn)
	if metrics.Material >= 0 {
		t.Fatalf("Expected white to be down material, got %d", metrics.Material)
	}

	threats := describeThreats(b, turn)
	foundRook := false
	for _, th := range threats {
		if th == "rook on d2 is attacked" {
			foundRook = true
		}
	}
	if !foundRook {
		t.Errorf("Expected threat for the attacked rook, got %v", threats)
	}

	suggestions := suggest(metrics)
	if len(suggestions) == 0 {
		t.Errorf("Expected at least one suggestion for a bad position")
	}
}

func TestCheckThreatIsReported(t *testing.T) {
	b, turn := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !board.IsInCheck(b, turn) {
		t.Fatal("Expected white to be in check")
	}
	threats := describeThreats(b, turn)
	found := false
	for _, th := range threats {
		if th == "white king is in check" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected check threat, got %v", threats)
	}
}

func TestInternalFaultYieldsNullAnalysis(t *testing.T) {
	// A nil board blows up inside the search; the public boundary must
	// swallow it and hand back a null move with empty statistics.
	analysis := New().BestMove(nil, board.White, 3, time.Second)

	if analysis.BestMove != nil {
		t.Errorf("Expected a null move after an internal fault, got %+v", analysis.BestMove)
	}
	if analysis.NodesSearched != 0 || analysis.TimeSpentMs != 0 {
		t.Errorf("Expected empty statistics, got nodes=%d timeMs=%d",
			analysis.NodesSearched, analysis.TimeSpentMs)
	}
	if analysis.Threats == nil || analysis.Suggestions == nil {
		t.Errorf("Expected empty, non-nil hint slices")
	}
}

func TestHistoryTableIsPerSearch(t *testing.T) {
	// Two engines analyzing different games concurrently share nothing;
	// run a handful of simultaneous searches and make sure results are
	// stable and race-free.
	b := board.New()
	eng := New()

	results := make(chan *board.Move, 4)
	for i := 0; i < 4; i++ {
		go func() {
			a := eng.BestMove(b, board.White, 3, 10*time.Second)
			results <- a.BestMove
		}()
	}

	var first *board.Move
	for i := 0; i < 4; i++ {
		m := <-results
		if m == nil {
			t.Fatal("Expected a move from every concurrent search")
		}
		if first == nil {
			first = m
		} else if m.Notation != first.Notation {
			t.Errorf("Concurrent searches disagreed: %s vs %s", m.Notation, first.Notation)
		}
	}
}
