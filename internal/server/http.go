package server

import (
	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, shortener *service.ShortenerService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c != nil && c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if c.HTTP.Timeout > 0 {
			opts = append(opts, http.Timeout(c.HTTP.Timeout.AsDuration()))
		}
		if c.HTTP.RateLimit > 0 {
			opts = append(opts, http.Filter(NewRateLimiter(c.HTTP.RateLimit).Filter))
		}
	}
	srv := http.NewServer(opts...)
	service.RegisterShortenerHTTPServer(srv, shortener)

	return srv
}
