package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openarcade/chessmind/internal/config"
	"github.com/openarcade/chessmind/internal/engine"
)

const initialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080},
		Engine: config.EngineConfig{
			MaxDepth:  6,
			MaxTimeMs: 10000,
			Difficulties: map[string]config.Difficulty{
				"beginner":     {Depth: 2, TimeMs: 1000},
				"intermediate": {Depth: 3, TimeMs: 2000},
			},
		},
	}
}

func testService() *Service {
	return NewService(engine.New(), testConfig(), nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	svc := testService()
	rec := httptest.NewRecorder()
	svc.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 6, body["maxDepth"])
}

func TestAnalyzeHandlerReturnsAnalysis(t *testing.T) {
	svc := testService()
	rec := postJSON(t, svc.AnalyzeHandler, AnalyzeRequest{
		FEN:         initialFEN,
		Depth:       2,
		TimeLimitMs: 5000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis engine.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.NotNil(t, analysis.BestMove)
	assert.Positive(t, analysis.NodesSearched)
	assert.NotEmpty(t, analysis.BestMove.Notation)
}

func TestAnalyzeHandlerRejectsInvalidFEN(t *testing.T) {
	svc := testService()
	rec := postJSON(t, svc.AnalyzeHandler, AnalyzeRequest{FEN: "not-a-fen"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerRejectsUnknownDifficulty(t *testing.T) {
	svc := testService()
	rec := postJSON(t, svc.AnalyzeHandler, AnalyzeRequest{FEN: initialFEN, Difficulty: "impossible"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerNullMoveOnTerminalPosition(t *testing.T) {
	svc := testService()
	rec := postJSON(t, svc.AnalyzeHandler, AnalyzeRequest{
		FEN:   "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", // stalemate
		Depth: 2, TimeLimitMs: 1000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis engine.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Nil(t, analysis.BestMove)
}

func TestMoveHandlerPlaysAndDetectsMate(t *testing.T) {
	svc := testService()
	rec := postJSON(t, svc.MoveHandler, MoveRequest{
		FEN:        "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		Difficulty: "beginner",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MoveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Move)
	assert.Equal(t, "Ra8", resp.Notation)
	assert.True(t, resp.Check)
	assert.True(t, resp.Checkmate)
	assert.False(t, resp.Stalemate)
	assert.NotEqual(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", resp.FEN)
}

func TestResolveLimitsClampsToConfiguredMaxima(t *testing.T) {
	svc := testService()

	depth, limit, err := svc.resolveLimits(AnalyzeRequest{Depth: 50, TimeLimitMs: 999999})
	require.NoError(t, err)
	assert.Equal(t, 6, depth)
	assert.EqualValues(t, 10000, limit.Milliseconds())

	depth, limit, err = svc.resolveLimits(AnalyzeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
	assert.EqualValues(t, 2000, limit.Milliseconds())

	depth, limit, err = svc.resolveLimits(AnalyzeRequest{Difficulty: "beginner"})
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
	assert.EqualValues(t, 1000, limit.Milliseconds())

	// Partial requests borrow the missing half from the intermediate preset.
	depth, limit, err = svc.resolveLimits(AnalyzeRequest{Depth: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, depth)
	assert.EqualValues(t, 2000, limit.Milliseconds())

	depth, limit, err = svc.resolveLimits(AnalyzeRequest{TimeLimitMs: 1500})
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
	assert.EqualValues(t, 1500, limit.Milliseconds())
}

func TestDifficultiesHandler(t *testing.T) {
	svc := testService()
	rec := httptest.NewRecorder()
	svc.DifficultiesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/difficulties", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var presets map[string]config.Difficulty
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presets))
	assert.Len(t, presets, 2)
	assert.Equal(t, 2, presets["beginner"].Depth)
}
