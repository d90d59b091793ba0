package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS tenants",
		"CREATE TABLE IF NOT EXISTS staff_accounts",
		"CREATE TABLE IF NOT EXISTS couriers",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS driver_offers",
		"CREATE TABLE IF NOT EXISTS clients",
		"CREATE TABLE IF NOT EXISTS order_audit",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_tenant_status").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_offers_courier").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func orderColumnNames() []string {
	return []string{
		"id", "tenant_id", "customer_name", "customer_phone", "address", "items", "amount", "payment_method",
		"status", "courier_id", "pickup_code", "delivery_code", "origin", "created_at", "assigned_at", "picked_up_at", "completed_at",
	}
}

func readyOrderRow(orderID, tenantID uuid.UUID) *pgxmockv3.Rows {
	return pgxmockv3.NewRows(orderColumnNames()).AddRow(
		orderID, tenantID, "Ada", "+90 555 111 2233", "Some street 4", "2x pizza", 42.5, "cash",
		model.OrderStatusReady, (*uuid.UUID)(nil), "1234", "4821", model.OrderOriginStorefront,
		time.Now(), (*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil),
	)
}

func TestOrderGetNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tenant_id=").
		WithArgs(tenantID, orderID).
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Orders().Get(context.Background(), tenantID, orderID); err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderGetScopedToTenant(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tenant_id=").
		WithArgs(tenantID, orderID).
		WillReturnRows(readyOrderRow(orderID, tenantID))

	order, err := storage.Orders().Get(context.Background(), tenantID, orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TenantID != tenantID {
		t.Fatalf("unexpected tenant %s", order.TenantID)
	}
	if order.PickupCode != "1234" || order.DeliveryCode != "4821" {
		t.Fatalf("unexpected codes %q %q", order.PickupCode, order.DeliveryCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClaimWinsWhenOrderReady(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()
	courierID := uuid.New()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tenant_id=(.+) FOR UPDATE").
		WithArgs(tenantID, orderID).
		WillReturnRows(readyOrderRow(orderID, tenantID))
	mock.ExpectExec("UPDATE driver_offers SET status='expired'").
		WithArgs(tenantID, orderID, (*uuid.UUID)(nil)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	assignedRow := pgxmockv3.NewRows(orderColumnNames()).AddRow(
		orderID, tenantID, "Ada", "+90 555 111 2233", "Some street 4", "2x pizza", 42.5, "cash",
		model.OrderStatusAssigned, &courierID, "1234", "4821", model.OrderOriginStorefront,
		time.Now(), timePtr(time.Now()), (*time.Time)(nil), (*time.Time)(nil),
	)
	mock.ExpectQuery("UPDATE orders SET status='assigned'").
		WithArgs(tenantID, orderID, courierID).
		WillReturnRows(assignedRow)
	mock.ExpectExec("UPDATE couriers SET status='busy'").
		WithArgs(tenantID, courierID).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	order, err := storage.Orders().Claim(context.Background(), tenantID, orderID, courierID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusAssigned {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if order.CourierID == nil || *order.CourierID != courierID {
		t.Fatalf("unexpected courier reference %v", order.CourierID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClaimLosesWhenCourierAlreadySet(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()
	winner := uuid.New()

	takenRow := pgxmockv3.NewRows(orderColumnNames()).AddRow(
		orderID, tenantID, "Ada", "", "", "", 10.0, "cash",
		model.OrderStatusAssigned, &winner, "1234", "4821", model.OrderOriginStorefront,
		time.Now(), timePtr(time.Now()), (*time.Time)(nil), (*time.Time)(nil),
	)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tenant_id=(.+) FOR UPDATE").
		WithArgs(tenantID, orderID).
		WillReturnRows(takenRow)
	mock.ExpectRollback()

	if _, err := storage.Orders().Claim(context.Background(), tenantID, orderID, uuid.New(), nil); err != domainErrors.ErrAlreadyAssigned {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClaimViaExpiredOffer(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()
	courierID := uuid.New()
	offerID := uuid.New()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tenant_id=(.+) FOR UPDATE").
		WithArgs(tenantID, orderID).
		WillReturnRows(readyOrderRow(orderID, tenantID))
	mock.ExpectQuery("SELECT status, expires_at FROM driver_offers").
		WithArgs(tenantID, offerID, orderID, courierID).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "expires_at"}).
			AddRow(model.OfferStatusPending, time.Now().Add(-time.Minute)))
	mock.ExpectRollback()

	if _, err := storage.Orders().Claim(context.Background(), tenantID, orderID, courierID, &offerID); err != domainErrors.ErrOfferExpired {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderUpdateMergesTimestamps(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()
	completedAt := time.Now()

	updatedRow := pgxmockv3.NewRows(orderColumnNames()).AddRow(
		orderID, tenantID, "Ada", "", "", "", 10.0, "cash",
		model.OrderStatusCompleted, (*uuid.UUID)(nil), "1234", "4821", model.OrderOriginManual,
		time.Now(), (*time.Time)(nil), (*time.Time)(nil), &completedAt,
	)
	mock.ExpectQuery("UPDATE orders SET").
		WithArgs(tenantID, orderID, model.OrderStatusCompleted,
			(*time.Time)(nil), (*time.Time)(nil), &completedAt, false).
		WillReturnRows(updatedRow)

	order, err := storage.Orders().Update(context.Background(), tenantID, orderID, repository.OrderUpdate{
		Status:      model.OrderStatusCompleted,
		CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCompleted {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCourierSetStatusNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	courierID := uuid.New()

	mock.ExpectExec("UPDATE couriers SET status=").
		WithArgs(tenantID, courierID, model.CourierStatusAvailable).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	err := storage.Couriers().SetStatus(context.Background(), tenantID, courierID, model.CourierStatusAvailable)
	if err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOfferCreateBatchSkipsDuplicates(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()
	orderID := uuid.New()

	offers := []model.DriverOffer{
		{ID: uuid.New(), TenantID: tenantID, OrderID: orderID, CourierID: uuid.New(), Status: model.OfferStatusPending, ExpiresAt: time.Now().Add(time.Minute)},
		{ID: uuid.New(), TenantID: tenantID, OrderID: orderID, CourierID: uuid.New(), Status: model.OfferStatusPending, ExpiresAt: time.Now().Add(time.Minute)},
	}
	mock.ExpectExec("INSERT INTO driver_offers").
		WithArgs(offers[0].ID, tenantID, orderID, offers[0].CourierID, offers[0].Status, offers[0].ExpiresAt).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO driver_offers").
		WithArgs(offers[1].ID, tenantID, orderID, offers[1].CourierID, offers[1].Status, offers[1].ExpiresAt).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 0))

	created, err := storage.Offers().CreateBatch(context.Background(), offers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0].ID != offers[0].ID {
		t.Fatalf("expected only the first offer created, got %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClientRecordOrderUpserts(t *testing.T) {
	storage, mock := newMockStorage(t)
	tenantID := uuid.New()

	client := &model.Client{TenantID: tenantID, PhoneKey: "905551112233", Name: "Ada", Phone: "+90 555 111 2233"}
	mock.ExpectExec("INSERT INTO clients").
		WithArgs(tenantID, client.PhoneKey, client.Name, client.Phone, client.Address, client.Notes).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))

	if err := storage.Clients().RecordOrder(context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTenantGetBySlugNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT (.+) FROM tenants WHERE slug=").
		WithArgs("no-such-store").
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Tenants().GetBySlug(context.Background(), "no-such-store"); err != domainErrors.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
