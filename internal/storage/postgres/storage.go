package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool the storage relies on; tests
// substitute a pgxmock pool.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL. Every table
// carries a tenant_id column and every query filters on it; there is no
// cross-tenant read path.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type tenantRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type courierRepository struct {
	storage *Storage
}

type offerRepository struct {
	storage *Storage
}

type clientRepository struct {
	storage *Storage
}

type staffRepository struct {
	storage *Storage
}

type auditRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Tenants() repository.TenantRepository {
	return &tenantRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Couriers() repository.CourierRepository {
	return &courierRepository{storage: s}
}

func (s *Storage) Offers() repository.OfferRepository {
	return &offerRepository{storage: s}
}

func (s *Storage) Clients() repository.ClientRepository {
	return &clientRepository{storage: s}
}

func (s *Storage) Staff() repository.StaffRepository {
	return &staffRepository{storage: s}
}

func (s *Storage) Audits() repository.AuditRepository {
	return &auditRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
            id UUID PRIMARY KEY,
            slug TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            paid_through TIMESTAMPTZ NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            origin_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            origin_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            dispatch_radius_km DOUBLE PRECISION NOT NULL DEFAULT 5,
            settings JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS staff_accounts (
            id UUID PRIMARY KEY,
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            login TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (tenant_id, login)
        )`,
		`CREATE TABLE IF NOT EXISTS couriers (
            id UUID PRIMARY KEY,
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            login TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            vehicle TEXT NOT NULL DEFAULT '',
            payment_model TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'offline',
            push_capable BOOLEAN NOT NULL DEFAULT FALSE,
            push_handle TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (tenant_id, login)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            items TEXT NOT NULL DEFAULT '',
            amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            payment_method TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            courier_id UUID REFERENCES couriers(id),
            pickup_code TEXT NOT NULL,
            delivery_code TEXT NOT NULL,
            origin TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            assigned_at TIMESTAMPTZ,
            picked_up_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS driver_offers (
            id UUID PRIMARY KEY,
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            order_id UUID NOT NULL REFERENCES orders(id),
            courier_id UUID NOT NULL REFERENCES couriers(id),
            status TEXT NOT NULL DEFAULT 'pending',
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS clients (
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            phone_key TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            order_count INTEGER NOT NULL DEFAULT 0,
            last_order_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (tenant_id, phone_key)
        )`,
		`CREATE TABLE IF NOT EXISTS order_audit (
            id UUID PRIMARY KEY,
            tenant_id UUID NOT NULL REFERENCES tenants(id),
            order_id UUID NOT NULL REFERENCES orders(id),
            actor_id UUID NOT NULL,
            actor_role TEXT NOT NULL,
            from_status TEXT NOT NULL,
            to_status TEXT NOT NULL,
            forced BOOLEAN NOT NULL DEFAULT FALSE,
            at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_tenant_status ON orders(tenant_id, status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_courier ON driver_offers(tenant_id, courier_id, status, expires_at)`,
		// Only one live offer per courier and order. Settled offers drop out
		// of the index so the pair can be offered again later.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_pending ON driver_offers(order_id, courier_id) WHERE status = 'pending'`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, tenant_id, customer_name, customer_phone, address, items, amount, payment_method,
                      status, courier_id, pickup_code, delivery_code, origin, created_at, assigned_at, picked_up_at, completed_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.Items, &o.Amount,
		&o.PaymentMethod, &o.Status, &o.CourierID, &o.PickupCode, &o.DeliveryCode, &o.Origin,
		&o.CreatedAt, &o.AssignedAt, &o.PickedUpAt, &o.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --- TenantRepository implementation ---

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	const query = `INSERT INTO tenants (id, slug, name, status, paid_through, phone, address, origin_lat, origin_lng, dispatch_radius_km, settings)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING created_at`
	created := *tenant
	err := r.storage.pool.QueryRow(ctx, query,
		tenant.ID, tenant.Slug, tenant.Name, tenant.Status, tenant.PaidThrough,
		tenant.Phone, tenant.Address, tenant.OriginLat, tenant.OriginLng,
		tenant.DispatchRadiusKm, tenant.Settings,
	).Scan(&created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

const tenantColumns = `id, slug, name, status, paid_through, phone, address, origin_lat, origin_lng, dispatch_radius_km, settings, created_at`

func scanTenant(row pgx.Row) (*model.Tenant, error) {
	var t model.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Status, &t.PaidThrough, &t.Phone, &t.Address,
		&t.OriginLat, &t.OriginLng, &t.DispatchRadiusKm, &t.Settings, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	return scanTenant(r.storage.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id=$1`, id))
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	return scanTenant(r.storage.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug=$1`, slug))
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]model.Tenant, error) {
	rows, err := r.storage.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE status='active' AND paid_through >= NOW()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *tenantRepository) Patch(ctx context.Context, id uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
	const query = `UPDATE tenants SET
                       name = COALESCE($2, name),
                       phone = COALESCE($3, phone),
                       address = COALESCE($4, address),
                       origin_lat = COALESCE($5, origin_lat),
                       origin_lng = COALESCE($6, origin_lng),
                       dispatch_radius_km = COALESCE($7, dispatch_radius_km),
                       settings = COALESCE($8, settings)
                   WHERE id=$1
                   RETURNING ` + tenantColumns
	return scanTenant(r.storage.pool.QueryRow(ctx, query,
		id, patch.Name, patch.Phone, patch.Address, patch.OriginLat, patch.OriginLng,
		patch.DispatchRadiusKm, patch.Settings))
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, tenant_id, customer_name, customer_phone, address, items, amount, payment_method,
                                       status, pickup_code, delivery_code, origin)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING created_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.TenantID, order.CustomerName, order.CustomerPhone, order.Address,
		order.Items, order.Amount, order.PaymentMethod, order.Status,
		order.PickupCode, order.DeliveryCode, order.Origin,
	).Scan(&created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id=$1 AND id=$2`, tenantID, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1`
	args := []any{tenantID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		args = append(args, values)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) ListUnassigned(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   WHERE tenant_id=$1 AND status='ready' AND courier_id IS NULL
                   ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Update(ctx context.Context, tenantID, orderID uuid.UUID, update repository.OrderUpdate) (*model.Order, error) {
	const query = `UPDATE orders SET
                       status=$3,
                       assigned_at = COALESCE($4, assigned_at),
                       picked_up_at = COALESCE($5, picked_up_at),
                       completed_at = COALESCE($6, completed_at),
                       courier_id = CASE WHEN $7 THEN NULL ELSE courier_id END
                   WHERE tenant_id=$1 AND id=$2
                   RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		tenantID, orderID, update.Status,
		update.AssignedAt, update.PickedUpAt, update.CompletedAt, update.ClearCourier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// Claim performs the acceptance arbitration: a single serializable
// transaction that verifies the order is still claimable, assigns the
// courier, settles the offer set, and flips the courier to busy. At most
// one concurrent caller wins; the rest observe ErrAlreadyAssigned or
// ErrOfferExpired.
func (r *orderRepository) Claim(ctx context.Context, tenantID, orderID, courierID uuid.UUID, offerID *uuid.UUID) (*model.Order, error) {
	var claimed *model.Order
	err := r.storage.withinTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		current, err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE tenant_id=$1 AND id=$2 FOR UPDATE`, tenantID, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if current.CourierID != nil || current.Status != model.OrderStatusReady {
			return domainErrors.ErrAlreadyAssigned
		}

		if offerID != nil {
			var status model.OfferStatus
			var expiresAt time.Time
			err := tx.QueryRow(ctx,
				`SELECT status, expires_at FROM driver_offers
                 WHERE tenant_id=$1 AND id=$2 AND order_id=$3 AND courier_id=$4 FOR UPDATE`,
				tenantID, *offerID, orderID, courierID).Scan(&status, &expiresAt)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrOfferExpired
				}
				return err
			}
			if status != model.OfferStatusPending || !time.Now().Before(expiresAt) {
				return domainErrors.ErrOfferExpired
			}
			if _, err := tx.Exec(ctx,
				`UPDATE driver_offers SET status='accepted' WHERE tenant_id=$1 AND id=$2`,
				tenantID, *offerID); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE driver_offers SET status='expired'
             WHERE tenant_id=$1 AND order_id=$2 AND status='pending' AND ($3::uuid IS NULL OR id <> $3)`,
			tenantID, orderID, offerID); err != nil {
			return err
		}

		claimed, err = scanOrder(tx.QueryRow(ctx,
			`UPDATE orders SET status='assigned', courier_id=$3, assigned_at=NOW()
             WHERE tenant_id=$1 AND id=$2
             RETURNING `+orderColumns, tenantID, orderID, courierID))
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE couriers SET status='busy' WHERE tenant_id=$1 AND id=$2`,
			tenantID, courierID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// --- CourierRepository implementation ---

const courierColumns = `id, tenant_id, login, password_hash, name, phone, vehicle, payment_model,
                        status, push_capable, push_handle, lat, lng, created_at`

func scanCourier(row pgx.Row) (*model.Courier, error) {
	var c model.Courier
	err := row.Scan(&c.ID, &c.TenantID, &c.Login, &c.PasswordHash, &c.Name, &c.Phone, &c.Vehicle,
		&c.PaymentModel, &c.Status, &c.PushCapable, &c.PushHandle, &c.Lat, &c.Lng, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *courierRepository) Create(ctx context.Context, courier *model.Courier) (*model.Courier, error) {
	const query = `INSERT INTO couriers (id, tenant_id, login, password_hash, name, phone, vehicle, payment_model,
                                         status, push_capable, push_handle, lat, lng)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING created_at`
	created := *courier
	err := r.storage.pool.QueryRow(ctx, query,
		courier.ID, courier.TenantID, courier.Login, courier.PasswordHash, courier.Name,
		courier.Phone, courier.Vehicle, courier.PaymentModel, courier.Status,
		courier.PushCapable, courier.PushHandle, courier.Lat, courier.Lng,
	).Scan(&created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *courierRepository) Get(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error) {
	return scanCourier(r.storage.pool.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE tenant_id=$1 AND id=$2`, tenantID, courierID))
}

func (r *courierRepository) GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.Courier, error) {
	return scanCourier(r.storage.pool.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE tenant_id=$1 AND login=$2`, tenantID, login))
}

func (r *courierRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return r.collect(ctx, `SELECT `+courierColumns+` FROM couriers WHERE tenant_id=$1 ORDER BY created_at`, tenantID)
}

func (r *courierRepository) ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return r.collect(ctx, `SELECT `+courierColumns+` FROM couriers WHERE tenant_id=$1 AND status='available'`, tenantID)
}

func (r *courierRepository) collect(ctx context.Context, query string, args ...any) ([]model.Courier, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Courier
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *courierRepository) SetStatus(ctx context.Context, tenantID, courierID uuid.UUID, status model.CourierStatus) error {
	tag, err := r.storage.pool.Exec(ctx,
		`UPDATE couriers SET status=$3 WHERE tenant_id=$1 AND id=$2`, tenantID, courierID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *courierRepository) Patch(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error) {
	const query = `UPDATE couriers SET
                       name = COALESCE($3, name),
                       phone = COALESCE($4, phone),
                       vehicle = COALESCE($5, vehicle),
                       payment_model = COALESCE($6, payment_model),
                       push_capable = COALESCE($7, push_capable),
                       push_handle = COALESCE($8, push_handle),
                       lat = COALESCE($9, lat),
                       lng = COALESCE($10, lng)
                   WHERE tenant_id=$1 AND id=$2
                   RETURNING ` + courierColumns
	return scanCourier(r.storage.pool.QueryRow(ctx, query,
		tenantID, courierID, patch.Name, patch.Phone, patch.Vehicle, patch.PaymentModel,
		patch.PushCapable, patch.PushHandle, patch.Lat, patch.Lng))
}

// --- OfferRepository implementation ---

const offerColumns = `id, tenant_id, order_id, courier_id, status, expires_at, created_at`

func scanOffer(row pgx.Row) (*model.DriverOffer, error) {
	var o model.DriverOffer
	err := row.Scan(&o.ID, &o.TenantID, &o.OrderID, &o.CourierID, &o.Status, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// CreateBatch inserts offers and returns the ones actually written. A
// courier holding a live pending offer for the order is skipped; a pending
// offer past its expiry is re-armed in place and counts as written.
func (r *offerRepository) CreateBatch(ctx context.Context, offers []model.DriverOffer) ([]model.DriverOffer, error) {
	const query = `INSERT INTO driver_offers (id, tenant_id, order_id, courier_id, status, expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (order_id, courier_id) WHERE status = 'pending'
                   DO UPDATE SET id = EXCLUDED.id, expires_at = EXCLUDED.expires_at, created_at = NOW()
                   WHERE driver_offers.expires_at <= NOW()`
	var created []model.DriverOffer
	for _, offer := range offers {
		tag, err := r.storage.pool.Exec(ctx, query,
			offer.ID, offer.TenantID, offer.OrderID, offer.CourierID, offer.Status, offer.ExpiresAt)
		if err != nil {
			return created, err
		}
		if tag.RowsAffected() > 0 {
			created = append(created, offer)
		}
	}
	return created, nil
}

func (r *offerRepository) Get(ctx context.Context, tenantID, offerID uuid.UUID) (*model.DriverOffer, error) {
	return scanOffer(r.storage.pool.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM driver_offers WHERE tenant_id=$1 AND id=$2`, tenantID, offerID))
}

func (r *offerRepository) ListLiveForCourier(ctx context.Context, tenantID, courierID uuid.UUID, now time.Time) ([]model.DriverOffer, error) {
	return r.collect(ctx,
		`SELECT `+offerColumns+` FROM driver_offers
         WHERE tenant_id=$1 AND courier_id=$2 AND status='pending' AND expires_at > $3
         ORDER BY created_at`, tenantID, courierID, now)
}

func (r *offerRepository) ListLiveForOrder(ctx context.Context, tenantID, orderID uuid.UUID, now time.Time) ([]model.DriverOffer, error) {
	return r.collect(ctx,
		`SELECT `+offerColumns+` FROM driver_offers
         WHERE tenant_id=$1 AND order_id=$2 AND status='pending' AND expires_at > $3
         ORDER BY created_at`, tenantID, orderID, now)
}

func (r *offerRepository) collect(ctx context.Context, query string, args ...any) ([]model.DriverOffer, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DriverOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ClientRepository implementation ---

func (r *clientRepository) RecordOrder(ctx context.Context, client *model.Client) error {
	const query = `INSERT INTO clients (tenant_id, phone_key, name, phone, address, notes, order_count, last_order_at)
                   VALUES ($1, $2, $3, $4, $5, $6, 1, NOW())
                   ON CONFLICT (tenant_id, phone_key) DO UPDATE SET
                       name = EXCLUDED.name,
                       phone = EXCLUDED.phone,
                       address = EXCLUDED.address,
                       order_count = clients.order_count + 1,
                       last_order_at = NOW()`
	_, err := r.storage.pool.Exec(ctx, query,
		client.TenantID, client.PhoneKey, client.Name, client.Phone, client.Address, client.Notes)
	return err
}

func (r *clientRepository) GetByPhoneKey(ctx context.Context, tenantID uuid.UUID, phoneKey string) (*model.Client, error) {
	const query = `SELECT tenant_id, phone_key, name, phone, address, notes, order_count, last_order_at
                   FROM clients WHERE tenant_id=$1 AND phone_key=$2`
	var c model.Client
	err := r.storage.pool.QueryRow(ctx, query, tenantID, phoneKey).
		Scan(&c.TenantID, &c.PhoneKey, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.OrderCount, &c.LastOrderAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) ListTop(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
	const query = `SELECT tenant_id, phone_key, name, phone, address, notes, order_count, last_order_at
                   FROM clients WHERE tenant_id=$1 ORDER BY order_count DESC, last_order_at DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.TenantID, &c.PhoneKey, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.OrderCount, &c.LastOrderAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- StaffRepository implementation ---

func (r *staffRepository) Create(ctx context.Context, account *model.StaffAccount) (*model.StaffAccount, error) {
	const query = `INSERT INTO staff_accounts (id, tenant_id, login, password_hash, role)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at`
	created := *account
	err := r.storage.pool.QueryRow(ctx, query,
		account.ID, account.TenantID, account.Login, account.PasswordHash, account.Role,
	).Scan(&created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func scanStaff(row pgx.Row) (*model.StaffAccount, error) {
	var a model.StaffAccount
	err := row.Scan(&a.ID, &a.TenantID, &a.Login, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *staffRepository) GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.StaffAccount, error) {
	return scanStaff(r.storage.pool.QueryRow(ctx,
		`SELECT id, tenant_id, login, password_hash, role, created_at
         FROM staff_accounts WHERE tenant_id=$1 AND login=$2`, tenantID, login))
}

func (r *staffRepository) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*model.StaffAccount, error) {
	return scanStaff(r.storage.pool.QueryRow(ctx,
		`SELECT id, tenant_id, login, password_hash, role, created_at
         FROM staff_accounts WHERE tenant_id=$1 AND id=$2`, tenantID, accountID))
}

// --- AuditRepository implementation ---

func (r *auditRepository) Record(ctx context.Context, entry *model.OrderAudit) error {
	const query = `INSERT INTO order_audit (id, tenant_id, order_id, actor_id, actor_role, from_status, to_status, forced)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.storage.pool.Exec(ctx, query,
		entry.ID, entry.TenantID, entry.OrderID, entry.ActorID, entry.ActorRole,
		entry.FromStatus, entry.ToStatus, entry.Forced)
	return err
}

func (r *auditRepository) ListForOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error) {
	const query = `SELECT id, tenant_id, order_id, actor_id, actor_role, from_status, to_status, forced, at
                   FROM order_audit WHERE tenant_id=$1 AND order_id=$2 ORDER BY at`
	rows, err := r.storage.pool.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderAudit
	for rows.Next() {
		var a model.OrderAudit
		if err := rows.Scan(&a.ID, &a.TenantID, &a.OrderID, &a.ActorID, &a.ActorRole, &a.FromStatus, &a.ToStatus, &a.Forced, &a.At); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Storage) withinTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// WithinTransaction executes function inside a default transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return s.withinTx(ctx, pgx.TxOptions{}, fn)
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
