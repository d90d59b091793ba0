package stream

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

func TestBrokerDeliversToTenantSubscriber(t *testing.T) {
	broker := NewBroker()
	tenantID := uuid.New()
	sub := broker.Subscribe(tenantID)
	defer sub.Cancel()

	order := model.Order{ID: uuid.New(), TenantID: tenantID, Status: model.OrderStatusPending}
	broker.Publish(tenantID, order)

	select {
	case got := <-sub.Updates():
		if got.ID != order.ID {
			t.Fatalf("unexpected order %s", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestBrokerIsolatesTenants(t *testing.T) {
	broker := NewBroker()
	tenantA := uuid.New()
	tenantB := uuid.New()
	subA := broker.Subscribe(tenantA)
	defer subA.Cancel()

	broker.Publish(tenantB, model.Order{ID: uuid.New(), TenantID: tenantB})

	select {
	case got := <-subA.Updates():
		t.Fatalf("tenant A subscriber received foreign order %s", got.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsOldestWhenSlow(t *testing.T) {
	broker := NewBroker()
	tenantID := uuid.New()
	sub := broker.Subscribe(tenantID)
	defer sub.Cancel()

	var last uuid.UUID
	for i := 0; i < subscriptionBuffer*3; i++ {
		order := model.Order{ID: uuid.New(), TenantID: tenantID}
		last = order.ID
		broker.Publish(tenantID, order)
	}

	var got model.Order
	for {
		select {
		case got = <-sub.Updates():
		default:
			if got.ID != last {
				t.Fatalf("latest snapshot lost: got %s want %s", got.ID, last)
			}
			return
		}
	}
}

func TestSubscriptionCancelStopsDelivery(t *testing.T) {
	broker := NewBroker()
	tenantID := uuid.New()
	sub := broker.Subscribe(tenantID)
	sub.Cancel()
	sub.Cancel() // idempotent

	broker.Publish(tenantID, model.Order{ID: uuid.New(), TenantID: tenantID})

	if _, ok := <-sub.Updates(); ok {
		t.Fatal("expected closed channel after cancel")
	}
}
