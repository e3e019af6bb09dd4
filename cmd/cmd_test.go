package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/config"
	"github.com/helmcode/profile-comparator/pkg/gateway"
	"github.com/helmcode/profile-comparator/pkg/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"", command{kind: cmdEmpty}},
		{"   ", command{kind: cmdEmpty}},
		{"search Acme Cafe", command{kind: cmdSearch, input: model.SearchInput{BusinessName: "Acme Cafe"}}},
		{"SEARCH  Acme Cafe ", command{kind: cmdSearch, input: model.SearchInput{BusinessName: "Acme Cafe"}}},
		{"search Acme Cafe vs Beta Diner", command{kind: cmdSearch, input: model.SearchInput{BusinessName: "Acme Cafe", CompetitorNames: []string{"Beta Diner"}}}},
		{"search Acme Cafe VS Beta Diner, Gamma Grill,", command{kind: cmdSearch, input: model.SearchInput{BusinessName: "Acme Cafe", CompetitorNames: []string{"Beta Diner", "Gamma Grill"}}}},
		{"search", command{kind: cmdSearch, input: model.SearchInput{}}},
		{"retry", command{kind: cmdRetry}},
		{"clear", command{kind: cmdClear}},
		{"status", command{kind: cmdStatus}},
		{"show", command{kind: cmdShow}},
		{"reset", command{kind: cmdReset}},
		{"help", command{kind: cmdHelp}},
		{"quit", command{kind: cmdQuit}},
		{"exit", command{kind: cmdQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandUnknown(t *testing.T) {
	_, err := parseCommand("frobnicate now")
	assert.ErrorIs(t, err, errUnknownCommand)
	assert.Contains(t, err.Error(), "frobnicate")
}

// backend is a fake comparator API. failFirst makes the first request fail
// with a 500.
type backend struct {
	requests  atomic.Int32
	failFirst bool
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := b.requests.Add(1)
	if b.failFirst && n == 1 {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Analysis failed: quota"}`))
		return
	}

	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Path {
	case "/api/analyze/":
		json.NewEncoder(w).Encode(map[string]any{
			"business": map[string]any{"name": body["business_name"], "review_count": 120, "average_rating": 4.6},
			"analysis": map[string]any{"summary": "Solid profile.", "suggestions": []string{"Add photos"}},
			"score":    82,
		})
	case "/api/compare/":
		json.NewEncoder(w).Encode(map[string]any{
			"your_business":    map[string]any{"name": body["your_business"]},
			"competitor":       map[string]any{"name": body["competitor_business"]},
			"comparison":       map[string]any{"summary": "Close race.", "strengths": []string{"Better hours"}},
			"your_score":       82,
			"competitor_score": 70,
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestApp(t *testing.T, b *backend) *App {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	app := NewApp()
	app.Config = &config.Config{
		API:    config.APIConfig{BaseURL: srv.URL + "/api/", Timeout: time.Second},
		Output: config.OutputConfig{Format: "human", MaxReviews: 10},
	}
	app.NewGateway = func(cfg config.APIConfig, _ *zap.Logger) (gateway.Gateway, error) {
		return gateway.New(cfg, gateway.WithLogger(zap.NewNop()))
	}
	return app
}

func TestAnalyzeCommand(t *testing.T) {
	b := &backend{}
	app := newTestApp(t, b)

	var out bytes.Buffer
	cmd := NewAnalyzeCmd(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"Acme Cafe"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "✓ Analysis complete")
	assert.Contains(t, out.String(), "SCORE: 82 (Good)")
	assert.Contains(t, out.String(), "Solid profile.")
}

func TestAnalyzeCommandJSON(t *testing.T) {
	app := newTestApp(t, &backend{})

	var out bytes.Buffer
	cmd := NewAnalyzeCmd(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"Acme Cafe", "-c", "Beta Diner", "-c", "Gamma Grill", "-o", "json"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var got model.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, model.TypeComparison, got.Type)
	assert.Equal(t, "Beta Diner", got.Competitor.Name)
	assert.Equal(t, []string{"Beta Diner", "Gamma Grill"}, got.SelectedCompetitors)
}

func TestCompareCommandFailure(t *testing.T) {
	app := newTestApp(t, &backend{failFirst: true})

	var out bytes.Buffer
	cmd := NewCompareCmd(app)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"Acme Cafe", "Beta Diner"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Analysis failed: quota")
	assert.Contains(t, out.String(), "✗ Analysis failed: quota")
}

func TestSessionRetryAfterFailure(t *testing.T) {
	b := &backend{failFirst: true}
	app := newTestApp(t, b)

	input := strings.Join([]string{
		"search Acme Cafe vs Beta Diner, Gamma Grill",
		"status",
		"retry",
		"status",
		"bogus",
		"quit",
		"search never reached",
	}, "\n")

	var out bytes.Buffer
	cmd := NewSessionCmd(app)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Business Profile Comparator")
	assert.Contains(t, got, "✗ Analysis failed: quota")
	assert.Contains(t, got, "Error:    Analysis failed: quota")
	assert.Contains(t, got, "Acme Cafe vs Beta Diner")
	assert.Contains(t, got, "Skipped: Gamma Grill")
	assert.Contains(t, got, "comparison of Acme Cafe vs Beta Diner")
	assert.Contains(t, got, "unknown command")
	assert.EqualValues(t, 2, b.requests.Load())
}

func TestSessionClearResetAndShow(t *testing.T) {
	b := &backend{failFirst: true}
	app := newTestApp(t, b)

	input := strings.Join([]string{
		"retry",
		"search Acme Cafe",
		"clear",
		"status",
		"reset",
		"show",
	}, "\n")

	var out bytes.Buffer
	cmd := NewSessionCmd(app)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Nothing to retry.")
	assert.Contains(t, got, "✓ Error cleared")
	assert.NotContains(t, got, "Error:    ")
	assert.Contains(t, got, "✓ Session reset")
	assert.Contains(t, got, "No results yet")
	assert.EqualValues(t, 1, b.requests.Load())
}

func TestSessionRequiresConfig(t *testing.T) {
	cmd := NewSessionCmd(NewApp())
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "configuration not loaded")
}
