package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// IntegrationTestSuite is the test suite for integration tests using testcontainers.
type IntegrationTestSuite struct {
	suite.Suite
	ctx            context.Context
	pgContainer    *postgres.PostgresContainer
	redisContainer *tcredis.RedisContainer
	db             *sql.DB
	redisClient    *redis.Client
	journal        biz.Journal
	mirror         *RedisMirror
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(s.T(), err)
	s.pgContainer = pgContainer

	// Start Redis container
	redisContainer, err := tcredis.Run(s.ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(s.T(), err)
	s.redisContainer = redisContainer

	pgConnStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	redisEndpoint, err := redisContainer.Endpoint(s.ctx, "")
	require.NoError(s.T(), err)

	s.db, err = OpenDB(DriverPostgres, pgConnStr)
	require.NoError(s.T(), err)
	require.NoError(s.T(), RunMigrations(s.db, DriverPostgres))

	s.redisClient = redis.NewClient(&redis.Options{
		Addr: redisEndpoint,
	})

	d := &Data{
		db:     s.db,
		driver: DriverPostgres,
		rdb:    s.redisClient,
		prefix: "test",
	}
	s.journal = NewJournal(d, log.DefaultLogger)
	s.mirror = NewRedisMirror(d, log.DefaultLogger).(*RedisMirror)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		s.pgContainer.Terminate(s.ctx)
	}
	if s.redisContainer != nil {
		s.redisContainer.Terminate(s.ctx)
	}
}

func (s *IntegrationTestSuite) TearDownTest() {
	// Clean up data after each test
	_, err := s.db.ExecContext(s.ctx, "DELETE FROM event_journal")
	s.Require().NoError(err)
	s.redisClient.FlushAll(s.ctx)
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) records() []event.Record {
	at := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	return []event.Record{
		{Seq: 1, Event: event.LinkCreated{Slug: "abc", URL: "https://example.com/"}, RecordedAt: at},
		{Seq: 2, Event: event.RedirectOccurred{Slug: "abc"}, RecordedAt: at},
		{Seq: 3, Event: event.LinkCreated{Slug: "def", URL: "https://github.com/"}, RecordedAt: at},
		{Seq: 4, Event: event.RedirectOccurred{Slug: "abc"}, RecordedAt: at},
	}
}

func (s *IntegrationTestSuite) TestJournal_AppendAndLoad() {
	// Arrange
	records := s.records()

	// Act
	for _, r := range records {
		require.NoError(s.T(), s.journal.Append(s.ctx, r))
	}
	// Replayed deliveries are ignored
	require.NoError(s.T(), s.journal.Append(s.ctx, records[1]))
	loaded, err := s.journal.Load(s.ctx)

	// Assert
	require.NoError(s.T(), err)
	assert.Equal(s.T(), records, loaded)
}

func (s *IntegrationTestSuite) TestJournal_RecoverStore() {
	// Arrange
	for _, r := range s.records() {
		require.NoError(s.T(), s.journal.Append(s.ctx, r))
	}
	store := biz.NewStore()

	// Act
	err := biz.Recover(s.ctx, store, s.journal, log.DefaultLogger)

	// Assert
	require.NoError(s.T(), err)
	stats, err := biz.NewQueryHandler(store, log.DefaultLogger).GetStats(s.ctx, "abc")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(2), stats.Redirects)
}

func (s *IntegrationTestSuite) TestMirror_Apply() {
	// Act
	for _, r := range s.records() {
		require.NoError(s.T(), s.mirror.Apply(s.ctx, r))
	}

	// Assert
	u, ok, err := s.mirror.Lookup(s.ctx, "abc")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), domain.URL("https://example.com/"), u)

	n, err := s.mirror.Redirects(s.ctx, "abc")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(2), n)

	n, err = s.mirror.Redirects(s.ctx, "def")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(0), n)

	cursor, err := s.mirror.Cursor(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(4), cursor)
}

func (s *IntegrationTestSuite) TestMirror_ApplyIsIdempotent() {
	// Arrange
	records := s.records()
	for _, r := range records {
		require.NoError(s.T(), s.mirror.Apply(s.ctx, r))
	}

	// Act
	for _, r := range records {
		require.NoError(s.T(), s.mirror.Apply(s.ctx, r))
	}

	// Assert
	n, err := s.mirror.Redirects(s.ctx, "abc")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(2), n)
}

func (s *IntegrationTestSuite) TestMirror_LookupMissing() {
	_, ok, err := s.mirror.Lookup(s.ctx, "missing")

	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *IntegrationTestSuite) TestMirror_RestartWithoutJournal() {
	// Arrange: a previous run mirrored two records that no journal kept.
	require.NoError(s.T(), s.mirror.Apply(s.ctx, event.Record{Seq: 1, Event: event.LinkCreated{Slug: "old1", URL: "https://old.test/1"}}))
	require.NoError(s.T(), s.mirror.Apply(s.ctx, event.Record{Seq: 2, Event: event.LinkCreated{Slug: "old2", URL: "https://old.test/2"}}))
	store := biz.NewStore()

	// Act
	require.NoError(s.T(), biz.ReconcileMirror(s.ctx, store, s.mirror, log.DefaultLogger))
	require.NoError(s.T(), s.mirror.Apply(s.ctx, event.Record{Seq: 1, Event: event.LinkCreated{Slug: "fresh", URL: "https://fresh.test/"}}))

	// Assert
	u, ok, err := s.mirror.Lookup(s.ctx, "fresh")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), domain.URL("https://fresh.test/"), u)

	_, ok, err = s.mirror.Lookup(s.ctx, "old1")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)

	cursor, err := s.mirror.Cursor(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(1), cursor)
}

func (s *IntegrationTestSuite) TestMirror_ReconcileKeepsConsistentMirror() {
	// Arrange
	records := s.records()
	for _, r := range records {
		require.NoError(s.T(), s.journal.Append(s.ctx, r))
		require.NoError(s.T(), s.mirror.Apply(s.ctx, r))
	}
	store := biz.NewStore()
	require.NoError(s.T(), biz.Recover(s.ctx, store, s.journal, log.DefaultLogger))

	// Act
	err := biz.ReconcileMirror(s.ctx, store, s.mirror, log.DefaultLogger)

	// Assert
	require.NoError(s.T(), err)
	cursor, err := s.mirror.Cursor(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(len(records)), cursor)
}
