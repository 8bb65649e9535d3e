package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openarcade/chessmind/internal/board"
	"github.com/openarcade/chessmind/internal/engine"
)

const initialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func main() {
	var (
		fen    string
		depth  int
		timeMs int
	)
	flag.StringVar(&fen, "fen", initialFEN, "Position to analyze, as FEN")
	flag.IntVar(&depth, "depth", 4, "Search depth in plies")
	flag.IntVar(&timeMs, "time", 5000, "Time limit in milliseconds")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	b, turn, err := board.ParseFEN(fen)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid FEN")
	}

	analysis := engine.New().BestMove(b, turn, depth, time.Duration(timeMs)*time.Millisecond)

	if analysis.BestMove == nil {
		fmt.Println("No move found (terminal position or search aborted).")
	} else {
		fmt.Printf("Best move for %s: %s (%s -> %s)\n",
			turn, analysis.BestMove.Notation, analysis.BestMove.From, analysis.BestMove.To)
	}

	ev := analysis.Evaluation
	fmt.Printf("Evaluation:   total %+d (material %+d, position %+d, pawns %+d, king %+d, activity %+d)\n",
		ev.Total, ev.Material, ev.Position, ev.PawnStructure, ev.KingSafety, ev.Activity)
	fmt.Printf("Search:       %d nodes in %d ms at depth %d\n",
		analysis.NodesSearched, analysis.TimeSpentMs, depth)

	for _, t := range analysis.Threats {
		fmt.Printf("Threat:       %s\n", t)
	}
	for _, s := range analysis.Suggestions {
		fmt.Printf("Suggestion:   %s\n", s)
	}
}
