package main

import (
	"context"
	"flag"
	"os"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string = "go-shortener"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

func newApp(
	logger log.Logger,
	hs *http.Server,
	eventBus *eventbus.EventBus,
	router *eventbus.Router,
	forwarder *eventbus.Forwarder,
	store *biz.Store,
	journal biz.Journal,
	mirror biz.Mirror,
) *kratos.App {
	helper := log.NewHelper(logger)

	biz.RegisterEventHandlers(router, journal, mirror, logger)

	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
		kratos.BeforeStart(func(ctx context.Context) error {
			if err := biz.Recover(ctx, store, journal, logger); err != nil {
				return err
			}
			if err := biz.ReconcileMirror(ctx, store, mirror, logger); err != nil {
				return err
			}
			// The router must be subscribed before the forwarder publishes.
			go func() {
				if err := router.Run(context.Background()); err != nil {
					helper.Errorf("event router error: %v", err)
				}
			}()
			<-router.Running()
			forwarder.Start(context.Background())
			return nil
		}),
		kratos.AfterStop(func(ctx context.Context) error {
			// The HTTP server is down, so the log no longer grows while the forwarder drains.
			drained := make(chan struct{})
			go func() {
				forwarder.Stop()
				close(drained)
			}()
			select {
			case <-drained:
			case <-ctx.Done():
				helper.Warnf("forwarder did not drain before shutdown: cursor %d", forwarder.Cursor())
			}
			if err := router.Close(); err != nil {
				helper.Errorf("failed to close router: %v", err)
			}
			<-drained
			if err := eventBus.Close(); err != nil {
				helper.Errorf("failed to close event bus: %v", err)
			}
			return nil
		}),
	)
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Shortener, bc.Eventbus, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
