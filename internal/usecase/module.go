package usecase

import (
	"go.uber.org/fx"

	"github.com/ordesk/ordesk/internal/config"
	"github.com/ordesk/ordesk/internal/domain/repository"
	"github.com/ordesk/ordesk/internal/stream"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewTenantUseCase,
		NewAuthUseCase,
		NewOrderUseCase,
		NewCourierUseCase,
		NewClientUseCase,
		newDispatchUseCase,
	),
)

type dispatchParams struct {
	fx.In

	Orders    repository.OrderRepository
	Offers    repository.OfferRepository
	Couriers  repository.CourierRepository
	Publisher stream.Publisher
	Config    *config.Config
}

func newDispatchUseCase(p dispatchParams) *DispatchUseCase {
	return NewDispatchUseCase(p.Orders, p.Offers, p.Couriers, p.Publisher, p.Config.OfferTTL)
}
