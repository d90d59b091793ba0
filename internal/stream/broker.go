package stream

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

const subscriptionBuffer = 16

// Publisher is the write side of the order stream.
type Publisher interface {
	Publish(tenantID uuid.UUID, order model.Order)
}

// Broker fans out order snapshots to per-tenant subscribers. Updates are
// idempotent snapshots, not deltas; a slow subscriber loses old snapshots,
// never new ones.
type Broker struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*Subscription]struct{}
}

// Subscription is an explicit handle owned by the caller. The caller must
// Cancel it when the owning view is torn down.
type Subscription struct {
	broker   *Broker
	tenantID uuid.UUID
	ch       chan model.Order
	once     sync.Once
}

// NewBroker constructs an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uuid.UUID]map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber for the tenant's order collection.
func (b *Broker) Subscribe(tenantID uuid.UUID) *Subscription {
	sub := &Subscription{
		broker:   b,
		tenantID: tenantID,
		ch:       make(chan model.Order, subscriptionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[tenantID] == nil {
		b.subs[tenantID] = make(map[*Subscription]struct{})
	}
	b.subs[tenantID][sub] = struct{}{}
	return sub
}

// Publish delivers an order snapshot to every subscriber of its tenant.
// When a subscriber's buffer is full the oldest snapshot is dropped so the
// latest write always lands.
func (b *Broker) Publish(tenantID uuid.UUID, order model.Order) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[tenantID] {
		for {
			select {
			case sub.ch <- order:
			default:
				select {
				case <-sub.ch:
				default:
				}
				continue
			}
			break
		}
	}
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.tenantID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.tenantID)
		}
	}
}

// Updates returns the snapshot channel. It is closed after Cancel.
func (s *Subscription) Updates() <-chan model.Order {
	return s.ch
}

// Cancel tears the subscription down. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.ch)
	})
}
