package biz

import (
	"context"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
)

// CommandHandler turns intents into events after validating them against the projections.
type CommandHandler struct {
	store     *Store
	generator domain.SlugGenerator
	validator domain.URLValidator
	log       *log.Helper
}

// NewCommandHandler creates a new command handler.
func NewCommandHandler(
	store *Store,
	generator domain.SlugGenerator,
	validator domain.URLValidator,
	logger log.Logger,
) *CommandHandler {
	return &CommandHandler{
		store:     store,
		generator: generator,
		validator: validator,
		log:       log.NewHelper(log.With(logger, "module", "biz/command")),
	}
}

// CreateShortLink registers rawURL under slug, or under a generated slug when slug is empty.
// A generated slug that is already taken fails with ErrSlugAlreadyInUse; retrying is up to the caller.
func (h *CommandHandler) CreateShortLink(ctx context.Context, rawURL string, slug domain.Slug) (domain.ShortLink, error) {
	if slug.IsEmpty() {
		generated, err := h.generator.Generate()
		if err != nil {
			return domain.ShortLink{}, err
		}
		slug = generated
	}

	if !h.validator.IsValidAbsoluteURL(rawURL) {
		h.log.WithContext(ctx).Warnf("CreateShortLink rejected: invalid url %q", rawURL)
		return domain.ShortLink{}, domain.ErrInvalidURL
	}

	link := domain.ShortLink{Slug: slug, URL: domain.URL(rawURL)}
	records, err := h.store.Do(func(tx *Tx) error {
		if tx.Contains(slug) {
			return domain.ErrSlugAlreadyInUse
		}
		tx.Emit(event.LinkCreated{Slug: link.Slug, URL: link.URL})
		return nil
	})
	if err != nil {
		h.log.WithContext(ctx).Warnf("CreateShortLink rejected: slug %q: %v", slug, err)
		return domain.ShortLink{}, err
	}

	h.log.WithContext(ctx).Infof("CreateShortLink: %s -> %s (seq %d)", link.Slug, link.URL, records[0].Seq)
	return link, nil
}

// Redirect resolves slug and records the redirect.
func (h *CommandHandler) Redirect(ctx context.Context, slug domain.Slug) (domain.ShortLink, error) {
	var link domain.ShortLink
	_, err := h.store.Do(func(tx *Tx) error {
		u, ok := tx.Lookup(slug)
		if !ok {
			return domain.ErrSlugNotFound
		}
		link = domain.ShortLink{Slug: slug, URL: u}
		tx.Emit(event.RedirectOccurred{Slug: slug})
		return nil
	})
	if err != nil {
		h.log.WithContext(ctx).Debugf("Redirect rejected: slug %q: %v", slug, err)
		return domain.ShortLink{}, err
	}

	return link, nil
}
