package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/ordesk/ordesk/internal/app"
	"github.com/ordesk/ordesk/internal/config"
)

// Module registers HTTP router construction for the fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade *app.OrderDeskFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Config, p.Logger)
}
