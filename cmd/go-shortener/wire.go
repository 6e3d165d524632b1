//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/data"
	"go-shortener-es/internal/infra/eventbus"
	"go-shortener-es/internal/server"
	"go-shortener-es/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Shortener, *conf.Eventbus, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		eventbus.ProviderSet,
		newApp,
	))
}
