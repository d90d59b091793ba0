package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/ordesk/ordesk/internal/config"
	"github.com/ordesk/ordesk/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.TenantRepository { return s.Tenants() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.CourierRepository { return s.Couriers() },
		func(s *Storage) repository.OfferRepository { return s.Offers() },
		func(s *Storage) repository.ClientRepository { return s.Clients() },
		func(s *Storage) repository.StaffRepository { return s.Staff() },
		func(s *Storage) repository.AuditRepository { return s.Audits() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
