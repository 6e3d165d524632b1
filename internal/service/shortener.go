package service

import (
	"context"
	"errors"
	"strings"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/domain"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/samber/lo"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewShortenerService)

const (
	ReasonInvalidURL       = "INVALID_URL"
	ReasonInvalidSlug      = "INVALID_SLUG"
	ReasonSlugAlreadyInUse = "SLUG_ALREADY_IN_USE"
	ReasonSlugNotFound     = "SLUG_NOT_FOUND"
)

type CreateShortLinkRequest struct {
	URL  string `json:"url"`
	Slug string `json:"slug,omitempty"`
}

type CreateShortLinkReply struct {
	Slug     string `json:"slug"`
	URL      string `json:"url"`
	ShortURL string `json:"short_url"`
}

type RedirectRequest struct {
	Slug string `json:"slug"`
}

type RedirectReply struct {
	URL string `json:"url"`
}

type GetStatsRequest struct {
	Slug string `json:"slug"`
}

type GetStatsReply struct {
	Slug      string `json:"slug"`
	URL       string `json:"url"`
	ShortURL  string `json:"short_url"`
	Redirects uint64 `json:"redirects"`
}

type ListLinksRequest struct{}

type ListLinksReply struct {
	Links []*GetStatsReply `json:"links"`
}

type ShortenerService struct {
	commands *biz.CommandHandler
	queries  *biz.QueryHandler
	baseURL  string
	log      *log.Helper
}

func NewShortenerService(
	commands *biz.CommandHandler,
	queries *biz.QueryHandler,
	c *conf.Shortener,
	logger log.Logger,
) *ShortenerService {
	var baseURL string
	if c != nil {
		baseURL = c.BaseURL
	}
	return &ShortenerService{
		commands: commands,
		queries:  queries,
		baseURL:  baseURL,
		log:      log.NewHelper(log.With(logger, "module", "service/shortener")),
	}
}

func (s *ShortenerService) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkReply, error) {
	// Slugs travel as a single path segment of /r/{slug}.
	if strings.Contains(req.Slug, "/") {
		return nil, kerrors.BadRequest(ReasonInvalidSlug, "slug must not contain '/'")
	}

	link, err := s.commands.CreateShortLink(ctx, req.URL, domain.Slug(req.Slug))
	if err != nil {
		return nil, s.toServiceError(ctx, err)
	}

	return &CreateShortLinkReply{
		Slug:     link.Slug.String(),
		URL:      string(link.URL),
		ShortURL: s.shortURL(link.Slug),
	}, nil
}

func (s *ShortenerService) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectReply, error) {
	link, err := s.commands.Redirect(ctx, domain.Slug(req.Slug))
	if err != nil {
		return nil, s.toServiceError(ctx, err)
	}

	return &RedirectReply{URL: string(link.URL)}, nil
}

func (s *ShortenerService) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsReply, error) {
	stats, err := s.queries.GetStats(ctx, domain.Slug(req.Slug))
	if err != nil {
		return nil, s.toServiceError(ctx, err)
	}

	return s.toStatsReply(stats), nil
}

func (s *ShortenerService) ListLinks(ctx context.Context, _ *ListLinksRequest) (*ListLinksReply, error) {
	links, err := s.queries.ListLinks(ctx)
	if err != nil {
		return nil, s.toServiceError(ctx, err)
	}

	return &ListLinksReply{
		Links: lo.Map(links, func(stats domain.Stats, _ int) *GetStatsReply {
			return s.toStatsReply(stats)
		}),
	}, nil
}

func (s *ShortenerService) toStatsReply(stats domain.Stats) *GetStatsReply {
	return &GetStatsReply{
		Slug:      stats.Link.Slug.String(),
		URL:       string(stats.Link.URL),
		ShortURL:  s.shortURL(stats.Link.Slug),
		Redirects: stats.Redirects,
	}
}

func (s *ShortenerService) shortURL(slug domain.Slug) string {
	if s.baseURL == "" {
		return slug.String()
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + slug.String()
}

// toServiceError maps domain errors to transport errors.
func (s *ShortenerService) toServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return kerrors.BadRequest(ReasonInvalidURL, err.Error())
	case errors.Is(err, domain.ErrSlugAlreadyInUse):
		return kerrors.Conflict(ReasonSlugAlreadyInUse, err.Error())
	case errors.Is(err, domain.ErrSlugNotFound):
		return kerrors.NotFound(ReasonSlugNotFound, err.Error())
	default:
		s.log.WithContext(ctx).Errorf("unexpected error: %v", err)
		return kerrors.InternalServer("INTERNAL", "internal error").WithCause(err)
	}
}
