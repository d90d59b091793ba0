package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/adapter/pushgate"
	"github.com/ordesk/ordesk/internal/domain/model"
)

// DispatchFacade exposes the subset of application functionality required
// by the dispatcher.
type DispatchFacade interface {
	ActiveTenants(ctx context.Context) ([]model.Tenant, error)
	UnassignedOrders(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error)
	AvailableCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error)
	OfferOrder(ctx context.Context, tenant *model.Tenant, orderID uuid.UUID, candidateIDs []uuid.UUID) ([]model.DriverOffer, error)
}

// Notifier delivers push messages about fresh offers.
type Notifier interface {
	Notify(ctx context.Context, handle string, n pushgate.Notification) error
}

type job struct {
	tenant model.Tenant
	order  model.Order
}

// Dispatcher periodically fans ready unassigned orders out to eligible
// couriers as time-bounded offers and pushes a notification per offer.
type Dispatcher struct {
	facade       DispatchFacade
	notifier     Notifier
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the dispatch worker pool.
func NewDispatcher(facade DispatchFacade, notifier Notifier, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Dispatcher{
		facade:       facade,
		notifier:     notifier,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan job, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.poll(runCtx)
}

// Stop waits for all workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) poll(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndEnqueue(ctx)
		}
	}
}

func (d *Dispatcher) fetchAndEnqueue(ctx context.Context) {
	tenants, err := d.facade.ActiveTenants(ctx)
	if err != nil {
		d.logger.Error("fetch active tenants failed", slog.String("error", err.Error()))
		return
	}

	for _, tenant := range tenants {
		orders, err := d.facade.UnassignedOrders(ctx, tenant.ID)
		if err != nil {
			d.logger.Error("fetch unassigned orders failed",
				slog.String("tenant", tenant.Slug),
				slog.String("error", err.Error()))
			continue
		}
		if len(orders) > d.batchSize {
			orders = orders[:d.batchSize]
		}
		for _, order := range orders {
			select {
			case <-ctx.Done():
				return
			case d.jobs <- job{tenant: tenant, order: order}:
			}
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handle(ctx, j)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, j job) {
	couriers, err := d.facade.AvailableCouriers(ctx, j.tenant.ID)
	if err != nil {
		d.logger.Error("fetch available couriers failed",
			slog.String("tenant", j.tenant.Slug),
			slog.String("error", err.Error()))
		return
	}
	if len(couriers) == 0 {
		return
	}

	handles := make(map[uuid.UUID]string, len(couriers))
	candidates := make([]uuid.UUID, 0, len(couriers))
	for _, courier := range couriers {
		candidates = append(candidates, courier.ID)
		handles[courier.ID] = courier.PushHandle
	}

	offers, err := d.facade.OfferOrder(ctx, &j.tenant, j.order.ID, candidates)
	if err != nil {
		// The order may have been claimed between the poll and now.
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Warn("offer fan-out skipped",
			slog.String("tenant", j.tenant.Slug),
			slog.String("order", j.order.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	for _, offer := range offers {
		d.notify(ctx, j, handles[offer.CourierID])
	}
}

func (d *Dispatcher) notify(ctx context.Context, j job, handle string) {
	n := pushgate.Notification{
		Title: "New delivery offer",
		Body:  j.order.Address,
		Tag:   j.order.ID.String(),
	}
	if err := d.notifier.Notify(ctx, handle, n); err != nil {
		var tm pushgate.TooManyRequestsError
		switch {
		case errors.As(err, &tm):
			d.logger.Warn("pushgate rate limited", slog.Duration("retry_after", tm.RetryAfter))
			// Back off without holding the worker past shutdown.
			select {
			case <-ctx.Done():
			case <-time.After(tm.RetryAfter):
			}
		case errors.Is(err, pushgate.ErrDeviceUnknown):
			d.logger.Warn("courier device not registered", slog.String("tenant", j.tenant.Slug))
		default:
			d.logger.Error("push notification failed",
				slog.String("order", j.order.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}
