package di

import (
	"go.uber.org/fx"

	"github.com/ordesk/ordesk/internal/adapter/pushgate"
	"github.com/ordesk/ordesk/internal/app"
	"github.com/ordesk/ordesk/internal/config"
	"github.com/ordesk/ordesk/internal/logger"
	"github.com/ordesk/ordesk/internal/pkg/auth"
	"github.com/ordesk/ordesk/internal/server/http/router"
	"github.com/ordesk/ordesk/internal/storage/postgres"
	"github.com/ordesk/ordesk/internal/stream"
	"github.com/ordesk/ordesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stream.Module,
		pushgate.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
