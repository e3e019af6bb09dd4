package gateway

import (
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/config"
)

// New builds the HTTP gateway described by cfg.
func New(cfg config.APIConfig, opts ...Option) (*HTTPGateway, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "gateway: parse base url %q", cfg.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, eris.Errorf("gateway: unsupported base url scheme %q (supported: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, eris.Errorf("gateway: base url %q has no host", cfg.BaseURL)
	}

	g := NewHTTPGateway(cfg.BaseURL, cfg.Timeout, opts...)
	g.log.Debug("gateway configured",
		zap.String("base_url", g.baseURL),
		zap.Duration("timeout", g.client.Timeout),
	)
	return g, nil
}
