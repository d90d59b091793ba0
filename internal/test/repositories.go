package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
)

// TenantRepositoryStub stores tenants in-memory for tests.
type TenantRepositoryStub struct {
	mu      sync.Mutex
	Tenants map[uuid.UUID]*model.Tenant
	Err     error
}

// NewTenantRepositoryStub constructs stub repository with initialized maps.
func NewTenantRepositoryStub() *TenantRepositoryStub {
	return &TenantRepositoryStub{Tenants: make(map[uuid.UUID]*model.Tenant)}
}

func (s *TenantRepositoryStub) Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.Tenants {
		if t.Slug == tenant.Slug {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	copied := *tenant
	copied.CreatedAt = time.Now()
	s.Tenants[copied.ID] = &copied
	return &copied, nil
}

func (s *TenantRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.Tenants[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *TenantRepositoryStub) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.Tenants {
		if t.Slug == slug {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *TenantRepositoryStub) ListActive(ctx context.Context) ([]model.Tenant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var result []model.Tenant
	for _, t := range s.Tenants {
		if t.Servable(now) {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (s *TenantRepositoryStub) Patch(ctx context.Context, id uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.Tenants[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Phone != nil {
		t.Phone = *patch.Phone
	}
	if patch.Address != nil {
		t.Address = *patch.Address
	}
	if patch.OriginLat != nil {
		t.OriginLat = *patch.OriginLat
	}
	if patch.OriginLng != nil {
		t.OriginLng = *patch.OriginLng
	}
	if patch.DispatchRadiusKm != nil {
		t.DispatchRadiusKm = *patch.DispatchRadiusKm
	}
	if patch.Settings != nil {
		t.Settings = patch.Settings
	}
	copied := *t
	return &copied, nil
}

// OrderRepositoryStub stores orders in-memory; Claim is mutex-atomic so
// race tests observe the at-most-once guarantee.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[uuid.UUID]*model.Order
	Offers *OfferRepositoryStub
	Busy   map[uuid.UUID]bool
	Err    error
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[uuid.UUID]*model.Order), Busy: make(map[uuid.UUID]bool)}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *order
	copied.CreatedAt = time.Now()
	s.Orders[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (s *OrderRepositoryStub) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *OrderRepositoryStub) List(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.TenantID != tenantID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if o.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *o)
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListUnassigned(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.TenantID == tenantID && o.Status == model.OrderStatusReady && o.CourierID == nil {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) Update(ctx context.Context, tenantID, orderID uuid.UUID, update repository.OrderUpdate) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	o.Status = update.Status
	if update.AssignedAt != nil {
		o.AssignedAt = update.AssignedAt
	}
	if update.PickedUpAt != nil {
		o.PickedUpAt = update.PickedUpAt
	}
	if update.CompletedAt != nil {
		o.CompletedAt = update.CompletedAt
	}
	if update.ClearCourier {
		o.CourierID = nil
	}
	copied := *o
	return &copied, nil
}

func (s *OrderRepositoryStub) Claim(ctx context.Context, tenantID, orderID, courierID uuid.UUID, offerID *uuid.UUID) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	if o.CourierID != nil || o.Status != model.OrderStatusReady {
		return nil, domainErrors.ErrAlreadyAssigned
	}
	if offerID != nil && s.Offers != nil {
		offer, err := s.Offers.Get(ctx, tenantID, *offerID)
		if err != nil || !offer.Live(time.Now()) || offer.CourierID != courierID || offer.OrderID != orderID {
			return nil, domainErrors.ErrOfferExpired
		}
		s.Offers.settle(*offerID, orderID)
	}
	now := time.Now()
	c := courierID
	o.CourierID = &c
	o.Status = model.OrderStatusAssigned
	o.AssignedAt = &now
	s.Busy[courierID] = true
	copied := *o
	return &copied, nil
}

// OfferRepositoryStub stores offers in-memory for tests.
type OfferRepositoryStub struct {
	mu     sync.Mutex
	Offers map[uuid.UUID]*model.DriverOffer
	Err    error
}

// NewOfferRepositoryStub constructs stub repository with initialized maps.
func NewOfferRepositoryStub() *OfferRepositoryStub {
	return &OfferRepositoryStub{Offers: make(map[uuid.UUID]*model.DriverOffer)}
}

func (s *OfferRepositoryStub) CreateBatch(ctx context.Context, offers []model.DriverOffer) ([]model.DriverOffer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var created []model.DriverOffer
	for _, offer := range offers {
		blocked := false
		for id, existing := range s.Offers {
			if existing.OrderID != offer.OrderID || existing.CourierID != offer.CourierID || existing.Status != model.OfferStatusPending {
				continue
			}
			if existing.Live(now) {
				blocked = true
			} else {
				// Expired pending offer is replaced by the fresh one.
				delete(s.Offers, id)
			}
			break
		}
		if blocked {
			continue
		}
		copied := offer
		copied.CreatedAt = now
		s.Offers[copied.ID] = &copied
		created = append(created, offer)
	}
	return created, nil
}

func (s *OfferRepositoryStub) Get(ctx context.Context, tenantID, offerID uuid.UUID) (*model.DriverOffer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Offers[offerID]
	if !ok || o.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *OfferRepositoryStub) ListLiveForCourier(ctx context.Context, tenantID, courierID uuid.UUID, now time.Time) ([]model.DriverOffer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.DriverOffer
	for _, o := range s.Offers {
		if o.TenantID == tenantID && o.CourierID == courierID && o.Live(now) {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *OfferRepositoryStub) ListLiveForOrder(ctx context.Context, tenantID, orderID uuid.UUID, now time.Time) ([]model.DriverOffer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.DriverOffer
	for _, o := range s.Offers {
		if o.TenantID == tenantID && o.OrderID == orderID && o.Live(now) {
			result = append(result, *o)
		}
	}
	return result, nil
}

// settle marks the accepted offer and expires its siblings, mirroring the
// storage claim transaction.
func (s *OfferRepositoryStub) settle(acceptedID, orderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, o := range s.Offers {
		if o.OrderID != orderID || o.Status != model.OfferStatusPending {
			continue
		}
		if id == acceptedID {
			o.Status = model.OfferStatusAccepted
		} else {
			o.Status = model.OfferStatusExpired
		}
	}
}

// CourierRepositoryStub stores couriers in-memory for tests.
type CourierRepositoryStub struct {
	mu       sync.Mutex
	Couriers map[uuid.UUID]*model.Courier
	Err      error
}

// NewCourierRepositoryStub constructs stub repository with initialized maps.
func NewCourierRepositoryStub() *CourierRepositoryStub {
	return &CourierRepositoryStub{Couriers: make(map[uuid.UUID]*model.Courier)}
}

func (s *CourierRepositoryStub) Create(ctx context.Context, courier *model.Courier) (*model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Couriers {
		if c.TenantID == courier.TenantID && c.Login == courier.Login {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	copied := *courier
	copied.CreatedAt = time.Now()
	s.Couriers[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (s *CourierRepositoryStub) Get(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Couriers[courierID]
	if !ok || c.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *CourierRepositoryStub) GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Couriers {
		if c.TenantID == tenantID && c.Login == login {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CourierRepositoryStub) List(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Courier
	for _, c := range s.Couriers {
		if c.TenantID == tenantID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (s *CourierRepositoryStub) ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Courier
	for _, c := range s.Couriers {
		if c.TenantID == tenantID && c.Status == model.CourierStatusAvailable {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (s *CourierRepositoryStub) SetStatus(ctx context.Context, tenantID, courierID uuid.UUID, status model.CourierStatus) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Couriers[courierID]
	if !ok || c.TenantID != tenantID {
		return domainErrors.ErrNotFound
	}
	c.Status = status
	return nil
}

func (s *CourierRepositoryStub) Patch(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Couriers[courierID]
	if !ok || c.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Vehicle != nil {
		c.Vehicle = *patch.Vehicle
	}
	if patch.PaymentModel != nil {
		c.PaymentModel = *patch.PaymentModel
	}
	if patch.PushCapable != nil {
		c.PushCapable = *patch.PushCapable
	}
	if patch.PushHandle != nil {
		c.PushHandle = *patch.PushHandle
	}
	if patch.Lat != nil {
		c.Lat = *patch.Lat
	}
	if patch.Lng != nil {
		c.Lng = *patch.Lng
	}
	copied := *c
	return &copied, nil
}

// ClientRepositoryStub stores loyalty clients in-memory for tests.
type ClientRepositoryStub struct {
	mu      sync.Mutex
	Clients map[string]*model.Client
	Err     error
}

// NewClientRepositoryStub constructs stub repository with initialized maps.
func NewClientRepositoryStub() *ClientRepositoryStub {
	return &ClientRepositoryStub{Clients: make(map[string]*model.Client)}
}

func clientKey(tenantID uuid.UUID, phoneKey string) string {
	return tenantID.String() + "/" + phoneKey
}

func (s *ClientRepositoryStub) RecordOrder(ctx context.Context, client *model.Client) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := clientKey(client.TenantID, client.PhoneKey)
	if existing, ok := s.Clients[key]; ok {
		existing.Name = client.Name
		existing.Phone = client.Phone
		existing.Address = client.Address
		existing.OrderCount++
		existing.LastOrderAt = time.Now()
		return nil
	}
	copied := *client
	copied.OrderCount = 1
	copied.LastOrderAt = time.Now()
	s.Clients[key] = &copied
	return nil
}

func (s *ClientRepositoryStub) GetByPhoneKey(ctx context.Context, tenantID uuid.UUID, phoneKey string) (*model.Client, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.Clients[clientKey(tenantID, phoneKey)]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ClientRepositoryStub) ListTop(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Client
	for _, c := range s.Clients {
		if c.TenantID == tenantID {
			result = append(result, *c)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// StaffRepositoryStub stores staff accounts in-memory for tests.
type StaffRepositoryStub struct {
	mu       sync.Mutex
	Accounts map[uuid.UUID]*model.StaffAccount
	Err      error
}

// NewStaffRepositoryStub constructs stub repository with initialized maps.
func NewStaffRepositoryStub() *StaffRepositoryStub {
	return &StaffRepositoryStub{Accounts: make(map[uuid.UUID]*model.StaffAccount)}
}

func (s *StaffRepositoryStub) Create(ctx context.Context, account *model.StaffAccount) (*model.StaffAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Accounts {
		if a.TenantID == account.TenantID && a.Login == account.Login {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	copied := *account
	copied.CreatedAt = time.Now()
	s.Accounts[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (s *StaffRepositoryStub) GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.StaffAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Accounts {
		if a.TenantID == tenantID && a.Login == login {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *StaffRepositoryStub) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*model.StaffAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Accounts[accountID]
	if !ok || a.TenantID != tenantID {
		return nil, domainErrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

// AuditRepositoryStub records privileged overrides in-memory for tests.
type AuditRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.OrderAudit
	Err     error
}

func (s *AuditRepositoryStub) Record(ctx context.Context, entry *model.OrderAudit) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	copied.At = time.Now()
	s.Entries = append(s.Entries, copied)
	return nil
}

func (s *AuditRepositoryStub) ListForOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.OrderAudit
	for _, e := range s.Entries {
		if e.TenantID == tenantID && e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

// PublisherStub captures published order snapshots.
type PublisherStub struct {
	mu        sync.Mutex
	Published []model.Order
}

// Publish records the snapshot.
func (p *PublisherStub) Publish(tenantID uuid.UUID, order model.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, order)
}

// Count returns the number of captured snapshots.
func (p *PublisherStub) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published)
}
