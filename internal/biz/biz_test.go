package biz

import (
	"context"
	"sync"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"

	"github.com/stretchr/testify/mock"
)

// sequenceGenerator hands out predetermined slugs.
type sequenceGenerator struct {
	mu    sync.Mutex
	slugs []domain.Slug
	err   error
}

func newSequenceGenerator(slugs ...domain.Slug) *sequenceGenerator {
	return &sequenceGenerator{slugs: slugs}
}

func (g *sequenceGenerator) Generate() (domain.Slug, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	if len(g.slugs) == 0 {
		panic("sequenceGenerator exhausted")
	}
	slug := g.slugs[0]
	g.slugs = g.slugs[1:]
	return slug, nil
}

// mockJournal is a testify mock for Journal.
type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Append(ctx context.Context, r event.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockJournal) Load(ctx context.Context) ([]event.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]event.Record)
	return records, args.Error(1)
}

// mockMirror is a testify mock for Mirror.
type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) Apply(ctx context.Context, r event.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockMirror) Cursor(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	cursor, _ := args.Get(0).(uint64)
	return cursor, args.Error(1)
}

func (m *mockMirror) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
