package server

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

func newShortenerService() *service.ShortenerService {
	store := biz.NewStore()
	return service.NewShortenerService(
		biz.NewCommandHandler(store, domain.NewSlugGenerator(domain.DefaultSlugLength), domain.NewURLValidator(), log.DefaultLogger),
		biz.NewQueryHandler(store, log.DefaultLogger),
		&conf.Shortener{},
		log.DefaultLogger,
	)
}

func listCodes(srv nethttp.Handler, n int) []int {
	codes := make([]int, 0, n)
	for range n {
		req := httptest.NewRequest(nethttp.MethodGet, "/v1/links", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestNewHTTPServer_RateLimitDisabledByDefault(t *testing.T) {
	// Arrange
	srv := NewHTTPServer(&conf.Server{HTTP: &conf.HTTP{}}, newShortenerService(), log.DefaultLogger)

	// Act
	codes := listCodes(srv, 20)

	// Assert
	for _, code := range codes {
		assert.Equal(t, nethttp.StatusOK, code)
	}
}

func TestNewHTTPServer_RateLimitEnabled(t *testing.T) {
	srv := NewHTTPServer(&conf.Server{HTTP: &conf.HTTP{RateLimit: 2}}, newShortenerService(), log.DefaultLogger)

	codes := listCodes(srv, 3)

	assert.Equal(t, []int{nethttp.StatusOK, nethttp.StatusOK, nethttp.StatusTooManyRequests}, codes)
}
