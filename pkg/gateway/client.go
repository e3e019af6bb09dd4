package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/model"
	"github.com/helmcode/profile-comparator/pkg/parser"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/"
	DefaultTimeout = 30 * time.Second

	analyzePath = "analyze/"
	comparePath = "compare/"
)

// Gateway is the comparator backend as seen by the workflow.
type Gateway interface {
	AnalyzeBusiness(ctx context.Context, name string) (*model.AnalysisResult, error)
	CompareBusinesses(ctx context.Context, subject, competitor string) (*model.AnalysisResult, error)
}

// Option configures the HTTP gateway.
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default client. Its Timeout bounds each request.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = hc
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(g *HTTPGateway) {
		g.log = l
	}
}

// HTTPGateway talks to the backend over JSON/HTTP. It never retries.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPGateway(baseURL string, timeout time.Duration, opts ...Option) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	g := &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     zap.L(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) BaseURL() string {
	return g.baseURL
}

func (g *HTTPGateway) AnalyzeBusiness(ctx context.Context, name string) (*model.AnalysisResult, error) {
	body := map[string]string{
		"business_name": name,
	}
	return g.call(ctx, analyzePath, body, parser.ParseAnalyzeResponse)
}

func (g *HTTPGateway) CompareBusinesses(ctx context.Context, subject, competitor string) (*model.AnalysisResult, error) {
	body := map[string]string{
		"your_business":       subject,
		"competitor_business": competitor,
	}
	return g.call(ctx, comparePath, body, parser.ParseCompareResponse)
}

// call issues one POST and turns every failure into a *Error. Classification
// happens here and nowhere else.
func (g *HTTPGateway) call(ctx context.Context, path string, payload any, parse func([]byte) (*model.AnalysisResult, error)) (*model.AnalysisResult, error) {
	requestID := uuid.NewString()
	log := g.log.With(zap.String("endpoint", path), zap.String("request_id", requestID))

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, g.fail(log, &Error{Kind: KindGeneric, Message: MsgGenericError, Cause: eris.Wrap(err, "marshal request")})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, g.fail(log, &Error{Kind: KindGeneric, Message: MsgGenericError, Cause: eris.Wrap(err, "create request")})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	log.Debug("sending request")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, g.fail(log, classifyTransport(err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		readErr := classifyTransport(err)
		readErr.Cause = eris.Wrap(err, "read response body")
		return nil, g.fail(log, readErr)
	}

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, g.fail(log, classifyStatus(resp.StatusCode, respBytes))
	}

	result, err := parse(respBytes)
	if err != nil {
		return nil, g.fail(log, classifyParse(err))
	}

	log.Info("request completed", zap.String("result_type", string(result.Type)))
	return result, nil
}

func (g *HTTPGateway) fail(log *zap.Logger, e *Error) *Error {
	log.Warn("request failed",
		zap.String("kind", string(e.Kind)),
		zap.String("message", e.Message),
		zap.Error(e.Cause),
	)
	return e
}
