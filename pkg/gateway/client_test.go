package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/config"
	"github.com/helmcode/profile-comparator/pkg/model"
)

const analyzeOK = `{"business": {"name": "Acme Cafe"}, "analysis": {"summary": "ok", "suggestions": ["a"]}, "score": 82}`

const compareOK = `{"your_business": {"name": "Acme Cafe"}, "competitor": {"name": "Beta Diner"}, "comparison": {"summary": "close"}, "your_score": 82, "competitor_score": 70}`

func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return NewHTTPGateway(srv.URL+"/api", time.Second, opts...)
}

func TestAnalyzeBusiness(t *testing.T) {
	g := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"business_name": "Acme Cafe"}, body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(analyzeOK))
	})

	res, err := g.AnalyzeBusiness(context.Background(), "Acme Cafe")
	require.NoError(t, err)
	assert.Equal(t, model.TypeSingle, res.Type)
	assert.InDelta(t, 82, res.Score, 0.0001)
	assert.Equal(t, "Acme Cafe", res.Subject.Name)
}

func TestCompareBusinesses(t *testing.T) {
	g := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/compare/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme Cafe", body["your_business"])
		assert.Equal(t, "Beta Diner", body["competitor_business"])

		w.Write([]byte(compareOK))
	})

	res, err := g.CompareBusinesses(context.Background(), "Acme Cafe", "Beta Diner")
	require.NoError(t, err)
	assert.Equal(t, model.TypeComparison, res.Type)
	assert.Equal(t, "Beta Diner", res.Competitor.Name)
	assert.InDelta(t, 70, res.CompetitorScore, 0.0001)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantMsg    string
		wantStatus int
	}{
		{"400 with backend message", 400, `{"error": "name required"}`, KindInvalidRequest, "name required", 400},
		{"400 without message", 400, `{}`, KindInvalidRequest, MsgInvalidRequest, 400},
		{"400 non-json body", 400, `bad`, KindInvalidRequest, MsgInvalidRequest, 400},
		{"500 with backend message", 500, `{"error": "Analysis failed: quota"}`, KindServerError, "Analysis failed: quota", 500},
		{"500 without message", 500, ``, KindServerError, MsgServerError, 500},
		{"404", 404, `{"error": "not here"}`, KindHTTPError, "Server returned error 404", 404},
		{"503", 503, ``, KindHTTPError, "Server returned error 503", 503},
		{"200 missing fields", 200, `{"business": {"name": "A"}}`, KindStructural, MsgNoData, 200},
		{"200 html", 200, `<html></html>`, KindStructural, MsgNoData, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			res, err := g.AnalyzeBusiness(context.Background(), "Acme Cafe")
			require.Error(t, err)
			assert.Nil(t, res)

			var gwErr *Error
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.wantKind, gwErr.Kind)
			assert.Equal(t, tt.wantMsg, gwErr.Message)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantStatus, gwErr.StatusCode)
		})
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	g := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	_, err := g.AnalyzeBusiness(context.Background(), "Acme Cafe")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindNetwork, gwErr.Kind)
	assert.Equal(t, MsgNetworkError, gwErr.Message)
}

func TestConnectionRefusedIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewHTTPGateway(url, time.Second, WithLogger(zap.NewNop()))
	_, err := g.CompareBusinesses(context.Background(), "Acme Cafe", "Beta Diner")

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindNetwork, gwErr.Kind)
	assert.Zero(t, gwErr.StatusCode)
}

func TestMalformedBaseURLIsGenericError(t *testing.T) {
	g := NewHTTPGateway("http://bad host/", time.Second, WithLogger(zap.NewNop()))
	_, err := g.AnalyzeBusiness(context.Background(), "Acme Cafe")

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, KindGeneric, gwErr.Kind)
	assert.Equal(t, MsgGenericError, gwErr.Message)
}

func TestNewHTTPGatewayDefaults(t *testing.T) {
	g := NewHTTPGateway("", 0)
	assert.Equal(t, DefaultBaseURL, g.BaseURL())
	assert.Equal(t, DefaultTimeout, g.client.Timeout)

	g = NewHTTPGateway("http://backend:8000/api", 0)
	assert.Equal(t, "http://backend:8000/api/", g.BaseURL())
}

func TestNewFromConfig(t *testing.T) {
	g, err := New(config.APIConfig{BaseURL: "https://comparator.example.com/api/", Timeout: 5 * time.Second}, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, "https://comparator.example.com/api/", g.BaseURL())
	assert.Equal(t, 5*time.Second, g.client.Timeout)

	_, err = New(config.APIConfig{BaseURL: "ftp://files.example.com/", Timeout: time.Second})
	assert.ErrorContains(t, err, "unsupported base url scheme")

	_, err = New(config.APIConfig{BaseURL: "http:///api/", Timeout: time.Second})
	assert.ErrorContains(t, err, "no host")
}
