package pushgate

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ordesk/ordesk/internal/config"
	"github.com/ordesk/ordesk/internal/usecase"
)

// Module exposes the push gateway client to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(c Client) usecase.PushChecker { return c }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PushGatewayAddress, p.Logger)
}
