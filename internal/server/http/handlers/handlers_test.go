package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
	"github.com/ordesk/ordesk/internal/server/http/middleware"
	"github.com/ordesk/ordesk/internal/stream"
	testhelpers "github.com/ordesk/ordesk/internal/test"
	"github.com/ordesk/ordesk/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// closeNotifyRecorder adds the http.CloseNotifier method gin's Stream helper
// requires, which httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	route := path
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(&closeNotifyRecorder{w}, req)
	return w
}

func asStaff(actor model.Actor, tenant *model.Tenant) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.ActorContextKey, actor)
		c.Set(middleware.TenantContextKey, tenant)
	}
}

func withSlug(slug string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Params = gin.Params{{Key: "slug", Value: slug}}
	}
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got.ID != uuid.Nil {
		t.Fatalf("expected zero actor when not set, got %+v", got)
	}

	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	c.Set(middleware.ActorContextKey, actor)
	if got := CurrentActor(c); got != actor {
		t.Fatalf("expected %+v, got %+v", actor, got)
	}
}

func TestCurrentTenant(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentTenant(c); got != nil {
		t.Fatalf("expected nil tenant when not set, got %+v", got)
	}

	tenant := &model.Tenant{ID: uuid.New(), Slug: "pronto"}
	c.Set(middleware.TenantContextKey, tenant)
	if got := CurrentTenant(c); got != tenant {
		t.Fatalf("expected %+v, got %+v", tenant, got)
	}
}

func TestAuthHandlerStaffLogin(t *testing.T) {
	slug := "pronto"
	login := testhelpers.RandomASCIIString(7, 14)
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.AuthRequest{Login: login, Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{StaffLoginFn: func(ctx context.Context, gotSlug, gotLogin, gotPassword string) (string, error) {
		if gotSlug != slug || gotLogin != login || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q %q", gotSlug, gotLogin, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/t/"+slug+"/staff/login", handler.StaffLogin, withSlug(slug), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	foundCookie := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "ordesk_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			foundCookie = true
			break
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named ordesk_token")
	}
}

func TestAuthHandlerStaffLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{StaffLoginFn: func(context.Context, string, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "suspended tenant", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{StaffLoginFn: func(context.Context, string, string, string) (string, error) {
			return "", domainErrors.ErrSubscriptionInactive
		}}, status: http.StatusPaymentRequired},
		{name: "unknown slug", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{StaffLoginFn: func(context.Context, string, string, string) (string, error) {
			return "", domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{StaffLoginFn: func(context.Context, string, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/t/pronto/staff/login", NewAuthHandler(tt.facade).StaffLogin, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerCourierLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "rider", Password: "pass"})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{CourierLoginFn: func(ctx context.Context, slug, login, password string) (string, error) {
		if slug != "pronto" {
			t.Fatalf("unexpected slug %q", slug)
		}
		return "courier-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/t/pronto/courier/login", handler.CourierLogin, withSlug("pronto"), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer courier-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
}

func TestAuthHandlerCreateStaff(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleOwner}
	tenant := &model.Tenant{ID: actor.TenantID, Status: model.TenantStatusActive}
	body, _ := json.Marshal(dto.StaffCreateRequest{Login: "cashier", Password: "secret", Role: "staff"})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{CreateStaffFn: func(ctx context.Context, gotActor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error) {
		if gotActor != actor {
			t.Fatalf("unexpected actor passed to facade: %+v", gotActor)
		}
		if role != model.RoleStaff {
			t.Fatalf("unexpected role %q", role)
		}
		return &model.StaffAccount{ID: uuid.New(), TenantID: actor.TenantID, Login: login, Role: role}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/accounts", handler.CreateStaff, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.StaffResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Login != "cashier" || decoded.Role != "staff" {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestAuthHandlerCreateStaffFailures(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "not owner", body: []byte(`{"login":"a","password":"b","role":"staff"}`), facade: testhelpers.AuthFacadeStub{CreateStaffFn: func(context.Context, model.Actor, string, string, model.ActorRole) (*model.StaffAccount, error) {
			return nil, domainErrors.ErrUnauthorized
		}}, status: http.StatusForbidden},
		{name: "duplicate login", body: []byte(`{"login":"a","password":"b","role":"staff"}`), facade: testhelpers.AuthFacadeStub{CreateStaffFn: func(context.Context, model.Actor, string, string, model.ActorRole) (*model.StaffAccount, error) {
			return nil, domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/accounts", NewAuthHandler(tt.facade).CreateStaff, asStaff(actor, tenant), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestTenantHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.TenantCreateRequest{
		Slug:          "pronto",
		Name:          "Pronto Pizza",
		PaidThrough:   time.Now().Add(30 * 24 * time.Hour),
		OwnerLogin:    "owner",
		OwnerPassword: "secret",
	})
	handler := NewTenantHandler(testhelpers.TenantFacadeStub{CreateTenantFn: func(ctx context.Context, draft usecase.TenantDraft) (*model.Tenant, error) {
		if draft.Slug != "pronto" || draft.OwnerLogin != "owner" {
			t.Fatalf("unexpected draft passed to facade: %+v", draft)
		}
		return &model.Tenant{ID: uuid.New(), Slug: draft.Slug, Name: draft.Name, Status: model.TenantStatusActive, PaidThrough: draft.PaidThrough}, nil
	}}, "operator-key")
	resp := performRequest(t, http.MethodPost, "/tenants", handler.Create, nil, body, map[string]string{
		"Content-Type":   "application/json",
		"X-Operator-Key": "operator-key",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.TenantResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Slug != "pronto" || decoded.Status != "active" {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestTenantHandlerCreateGuard(t *testing.T) {
	body := []byte(`{"slug":"pronto","name":"Pronto","paid_through":"2027-01-01T00:00:00Z","owner_login":"o","owner_password":"p"}`)
	tests := []struct {
		name        string
		operatorKey string
		headerKey   string
		body        []byte
		status      int
	}{
		{name: "wrong key", operatorKey: "operator-key", headerKey: "guessed", body: body, status: http.StatusUnauthorized},
		{name: "missing key", operatorKey: "operator-key", body: body, status: http.StatusUnauthorized},
		{name: "endpoint disabled", operatorKey: "", headerKey: "", body: body, status: http.StatusUnauthorized},
		{name: "bad json", operatorKey: "operator-key", headerKey: "operator-key", body: []byte("not json"), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTenantHandler(testhelpers.TenantFacadeStub{}, tt.operatorKey)
			headers := map[string]string{"Content-Type": "application/json"}
			if tt.headerKey != "" {
				headers["X-Operator-Key"] = tt.headerKey
			}
			resp := performRequest(t, http.MethodPost, "/tenants", handler.Create, nil, tt.body, headers)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestTenantHandlerCard(t *testing.T) {
	handler := NewTenantHandler(testhelpers.TenantFacadeStub{ResolveSlugFn: func(ctx context.Context, slug string) (*model.Tenant, error) {
		return &model.Tenant{ID: uuid.New(), Slug: slug, Name: "Pronto Pizza", Phone: "+15550001111"}, nil
	}}, "")
	resp := performRequest(t, http.MethodGet, "/t/pronto/card", handler.Card, withSlug("pronto"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.TenantCardResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Slug != "pronto" || decoded.Name != "Pronto Pizza" {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestTenantHandlerCardUnknownSlug(t *testing.T) {
	handler := NewTenantHandler(testhelpers.TenantFacadeStub{ResolveSlugFn: func(context.Context, string) (*model.Tenant, error) {
		return nil, domainErrors.ErrNotFound
	}}, "")
	resp := performRequest(t, http.MethodGet, "/t/ghost/card", handler.Card, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestTenantHandlerPatch(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleOwner}
	tenant := &model.Tenant{ID: actor.TenantID, Slug: "pronto"}
	body := []byte(`{"name":"Pronto Pizza 2","dispatch_radius_km":7.5}`)
	handler := NewTenantHandler(testhelpers.TenantFacadeStub{PatchTenantFn: func(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
		if tenantID != tenant.ID {
			t.Fatalf("unexpected tenant id %s", tenantID)
		}
		if patch.Name == nil || *patch.Name != "Pronto Pizza 2" {
			t.Fatalf("expected name in patch, got %+v", patch)
		}
		if patch.Phone != nil {
			t.Fatalf("expected absent phone to stay nil, got %q", *patch.Phone)
		}
		return &model.Tenant{ID: tenantID, Slug: "pronto", Name: *patch.Name, DispatchRadiusKm: *patch.DispatchRadiusKm}, nil
	}}, "")
	resp := performRequest(t, http.MethodPatch, "/tenant", handler.Patch, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerCreatePublic(t *testing.T) {
	tenantID := uuid.New()
	tenants := testhelpers.TenantFacadeStub{ResolveSlugFn: func(ctx context.Context, slug string) (*model.Tenant, error) {
		return &model.Tenant{ID: tenantID, Slug: slug, Status: model.TenantStatusActive}, nil
	}}
	orders := testhelpers.OrderFacadeStub{CreateOrderFn: func(ctx context.Context, gotTenant uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
		if gotTenant != tenantID {
			t.Fatalf("unexpected tenant id %s", gotTenant)
		}
		if draft.Origin != model.OrderOriginStorefront {
			t.Fatalf("expected storefront origin, got %q", draft.Origin)
		}
		return &model.Order{ID: uuid.New(), TenantID: gotTenant, Status: model.OrderStatusPending, PickupCode: "4821", DeliveryCode: "9377"}, nil
	}}
	body, _ := json.Marshal(dto.OrderCreateRequest{CustomerName: "Dana", CustomerPhone: "+15550002222", Address: "5 Main St"})
	resp := performRequest(t, http.MethodPost, "/t/pronto/orders", NewOrderHandler(tenants, orders).CreatePublic, withSlug("pronto"), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.OrderCreatedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.DeliveryCode != "9377" {
		t.Fatalf("expected delivery code in response, got %+v", decoded)
	}
	if strings.Contains(resp.Body.String(), "4821") {
		t.Fatal("pickup code must not leak through the storefront response")
	}
}

func TestOrderHandlerCreatePublicSuspendedTenant(t *testing.T) {
	tenants := testhelpers.TenantFacadeStub{ResolveSlugFn: func(context.Context, string) (*model.Tenant, error) {
		return nil, domainErrors.ErrSubscriptionInactive
	}}
	body, _ := json.Marshal(dto.OrderCreateRequest{CustomerName: "Dana", CustomerPhone: "+15550002222", Address: "5 Main St"})
	resp := performRequest(t, http.MethodPost, "/t/pronto/orders", NewOrderHandler(tenants, testhelpers.OrderFacadeStub{}).CreatePublic, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", resp.Code)
	}
}

func TestOrderHandlerCreateManual(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	orders := testhelpers.OrderFacadeStub{CreateOrderFn: func(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
		if draft.Origin != model.OrderOriginManual {
			t.Fatalf("expected manual origin, got %q", draft.Origin)
		}
		return &model.Order{ID: uuid.New(), TenantID: tenantID, Status: model.OrderStatusPending, PickupCode: "4821", DeliveryCode: "9377"}, nil
	}}
	body, _ := json.Marshal(dto.OrderCreateRequest{CustomerName: "Dana", CustomerPhone: "+15550002222", Address: "5 Main St"})
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Create, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.PickupCode != "4821" || decoded.DeliveryCode != "9377" {
		t.Fatalf("expected both codes for staff, got %+v", decoded)
	}
}

func TestOrderHandlerList(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	var gotStatuses []model.OrderStatus
	orders := testhelpers.OrderFacadeStub{ListOrdersFn: func(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
		gotStatuses = statuses
		return []model.Order{{ID: uuid.New(), Status: model.OrderStatusReady}, {ID: uuid.New(), Status: model.OrderStatusDelivering}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders?status=ready,%20accepted", NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).List, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	want := []model.OrderStatus{model.OrderStatusReady, model.OrderStatusDelivering}
	if len(gotStatuses) != len(want) || gotStatuses[0] != want[0] || gotStatuses[1] != want[1] {
		t.Fatalf("expected normalized filter %v, got %v", want, gotStatuses)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(decoded))
	}
}

func TestOrderHandlerListFailures(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	tests := []struct {
		name   string
		path   string
		facade testhelpers.OrderFacadeStub
		status int
	}{
		{name: "unknown status", path: "/orders?status=levitating", status: http.StatusBadRequest},
		{name: "empty list", path: "/orders", status: http.StatusNoContent},
		{name: "internal", path: "/orders", facade: testhelpers.OrderFacadeStub{ListOrdersFn: func(context.Context, uuid.UUID, []model.OrderStatus) ([]model.Order, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, tt.path, NewOrderHandler(testhelpers.TenantFacadeStub{}, tt.facade).List, asStaff(actor, tenant), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	orderID := uuid.New()

	resp := performRequest(t, http.MethodGet, "/orders/not-a-uuid", NewOrderHandler(testhelpers.TenantFacadeStub{}, testhelpers.OrderFacadeStub{}).Get, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", resp.Code)
	}

	orders := testhelpers.OrderFacadeStub{GetOrderFn: func(ctx context.Context, tenantID, gotID uuid.UUID) (*model.Order, error) {
		if gotID != orderID {
			t.Fatalf("unexpected order id %s", gotID)
		}
		return nil, domainErrors.ErrNotFound
	}}
	resp = performRequest(t, http.MethodGet, "/orders/"+orderID.String(), func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
		NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Get(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerTransition(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	orderID := uuid.New()
	body, _ := json.Marshal(dto.OrderTransitionRequest{Status: "completed", Code: "9377"})
	orders := testhelpers.OrderFacadeStub{TransitionFn: func(ctx context.Context, tenantID, gotID uuid.UUID, target model.OrderStatus, gotActor model.Actor, code string, force bool) (*model.Order, error) {
		if gotID != orderID || target != model.OrderStatusCompleted || code != "9377" || force {
			t.Fatalf("unexpected transition call: %s %s %q force=%v", gotID, target, code, force)
		}
		if gotActor != actor {
			t.Fatalf("unexpected actor %+v", gotActor)
		}
		return &model.Order{ID: gotID, TenantID: tenantID, Status: target}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/"+orderID.String()+"/transition", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
		NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Transition(c)
	}, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerTransitionViewByRole(t *testing.T) {
	tenantID := uuid.New()
	courierID := uuid.New()
	orderID := uuid.New()
	orders := testhelpers.OrderFacadeStub{TransitionFn: func(ctx context.Context, gotTenant, gotID uuid.UUID, target model.OrderStatus, gotActor model.Actor, code string, force bool) (*model.Order, error) {
		return &model.Order{
			ID:            gotID,
			TenantID:      gotTenant,
			Status:        target,
			CourierID:     &courierID,
			CustomerPhone: "+15550002222",
			PickupCode:    "4821",
			DeliveryCode:  "9377",
		}, nil
	}}
	tests := []struct {
		name      string
		actor     model.Actor
		wantCodes bool
	}{
		{name: "courier view hides codes", actor: model.Actor{ID: courierID, TenantID: tenantID, Role: model.RoleCourier}, wantCodes: false},
		{name: "staff view keeps codes", actor: model.Actor{ID: uuid.New(), TenantID: tenantID, Role: model.RoleStaff}, wantCodes: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant := &model.Tenant{ID: tenantID}
			body, _ := json.Marshal(dto.OrderTransitionRequest{Status: "delivering", Code: "4821"})
			resp := performRequest(t, http.MethodPost, "/orders/"+orderID.String()+"/transition", func(c *gin.Context) {
				c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
				NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Transition(c)
			}, asStaff(tt.actor, tenant), body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", resp.Code)
			}
			var decoded dto.OrderResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			hasCodes := decoded.PickupCode != "" || decoded.DeliveryCode != "" || decoded.CustomerPhone != ""
			if hasCodes != tt.wantCodes {
				t.Fatalf("unexpected transition view for %s: %+v", tt.actor.Role, decoded)
			}
		})
	}
}

func TestOrderHandlerTransitionFailures(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	orderID := uuid.New()
	body := []byte(`{"status":"completed","code":"0000"}`)
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "wrong code", err: domainErrors.ErrWrongCode, status: http.StatusUnprocessableEntity},
		{name: "missing code", err: domainErrors.ErrMissingCode, status: http.StatusUnprocessableEntity},
		{name: "illegal transition", err: domainErrors.ErrInvalidTransition, status: http.StatusConflict},
		{name: "not assignee", err: domainErrors.ErrUnauthorized, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := testhelpers.OrderFacadeStub{TransitionFn: func(context.Context, uuid.UUID, uuid.UUID, model.OrderStatus, model.Actor, string, bool) (*model.Order, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/orders/"+orderID.String()+"/transition", func(c *gin.Context) {
				c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
				NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Transition(c)
			}, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerAudit(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleOwner}
	tenant := &model.Tenant{ID: actor.TenantID}
	orderID := uuid.New()
	orders := testhelpers.OrderFacadeStub{AuditTrailFn: func(ctx context.Context, tenantID, gotID uuid.UUID) ([]model.OrderAudit, error) {
		return []model.OrderAudit{{
			ActorID:    actor.ID,
			ActorRole:  model.RoleOwner,
			FromStatus: model.OrderStatusPending,
			ToStatus:   model.OrderStatusCompleted,
			Forced:     true,
			At:         time.Unix(0, 0),
		}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/"+orderID.String()+"/audit", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
		NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Audit(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderAuditResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || !decoded[0].Forced || decoded[0].ToStatus != "completed" {
		t.Fatalf("unexpected audit trail %+v", decoded)
	}
}

func TestOrderHandlerStream(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	broker := stream.NewBroker()
	sub := broker.Subscribe(tenant.ID)
	order := model.Order{ID: uuid.New(), TenantID: tenant.ID, Status: model.OrderStatusReady}
	broker.Publish(tenant.ID, order)
	// Closing the subscription up front lets the stream drain the buffered
	// snapshot and terminate so the recorder can be inspected.
	sub.Cancel()

	orders := testhelpers.OrderFacadeStub{SubscribeOrdersFn: func(tenantID uuid.UUID) *stream.Subscription {
		if tenantID != tenant.ID {
			t.Fatalf("unexpected tenant id %s", tenantID)
		}
		return sub
	}}
	resp := performRequest(t, http.MethodGet, "/orders/stream", NewOrderHandler(testhelpers.TenantFacadeStub{}, orders).Stream, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Fatalf("unexpected content type %q", got)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "event:order") || !strings.Contains(body, order.ID.String()) {
		t.Fatalf("expected order event in stream, got %q", body)
	}
}

func TestDispatchHandlerOffers(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	offer := model.DriverOffer{ID: uuid.New(), OrderID: uuid.New(), CourierID: actor.ID, ExpiresAt: time.Now().Add(time.Minute)}
	facade := testhelpers.DispatchHTTPFacadeStub{OffersFn: func(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error) {
		if courierID != actor.ID {
			t.Fatalf("unexpected courier id %s", courierID)
		}
		return []model.DriverOffer{offer}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/offers", NewDispatchHandler(facade).Offers, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OfferResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].OrderID != offer.OrderID.String() {
		t.Fatalf("unexpected offers %+v", decoded)
	}
}

func TestDispatchHandlerOffersEmpty(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	resp := performRequest(t, http.MethodGet, "/offers", NewDispatchHandler(testhelpers.DispatchHTTPFacadeStub{}).Offers, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestDispatchHandlerPoolHidesCodes(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	facade := testhelpers.DispatchHTTPFacadeStub{PoolFn: func(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
		return []model.Order{{
			ID:            uuid.New(),
			TenantID:      tenantID,
			CustomerPhone: "+15550002222",
			Address:       "5 Main St",
			Status:        model.OrderStatusReady,
			PickupCode:    "4821",
			DeliveryCode:  "9377",
		}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/pool", NewDispatchHandler(facade).Pool, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 order, got %d", len(decoded))
	}
	got := decoded[0]
	if got.PickupCode != "" || got.DeliveryCode != "" || got.CustomerPhone != "" {
		t.Fatalf("pool response leaks claim-gated fields: %+v", got)
	}
	if got.Address != "5 Main St" {
		t.Fatalf("expected address to survive, got %+v", got)
	}
}

func TestDispatchHandlerAccept(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	offerID := uuid.New()
	facade := testhelpers.DispatchHTTPFacadeStub{AcceptFn: func(ctx context.Context, tenantID, gotOffer, courierID uuid.UUID) (*model.Order, error) {
		if gotOffer != offerID || courierID != actor.ID {
			t.Fatalf("unexpected accept call: %s %s", gotOffer, courierID)
		}
		return &model.Order{ID: uuid.New(), TenantID: tenantID, Status: model.OrderStatusAssigned, CourierID: &actor.ID, PickupCode: "4821", DeliveryCode: "9377"}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/offers/"+offerID.String()+"/accept", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: offerID.String()}}
		NewDispatchHandler(facade).Accept(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != "assigned" || decoded.CourierID != actor.ID.String() {
		t.Fatalf("expected assigned order after accept, got %+v", decoded)
	}
	if decoded.PickupCode != "" || decoded.DeliveryCode != "" {
		t.Fatalf("accept response leaks handoff codes: %+v", decoded)
	}
}

func TestDispatchHandlerAcceptFailures(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	offerID := uuid.New()
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "lost race", err: domainErrors.ErrAlreadyAssigned, status: http.StatusConflict},
		{name: "offer expired", err: domainErrors.ErrOfferExpired, status: http.StatusGone},
		{name: "courier busy", err: domainErrors.ErrCourierBusy, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.DispatchHTTPFacadeStub{AcceptFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*model.Order, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/offers/"+offerID.String()+"/accept", func(c *gin.Context) {
				c.Params = gin.Params{{Key: "id", Value: offerID.String()}}
				NewDispatchHandler(facade).Accept(c)
			}, asStaff(actor, tenant), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestDispatchHandlerClaim(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}

	resp := performRequest(t, http.MethodPost, "/pool/not-a-uuid/claim", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		NewDispatchHandler(testhelpers.DispatchHTTPFacadeStub{}).Claim(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed id, got %d", resp.Code)
	}

	orderID := uuid.New()
	facade := testhelpers.DispatchHTTPFacadeStub{ClaimFn: func(ctx context.Context, tenantID, gotOrder, courierID uuid.UUID) (*model.Order, error) {
		if gotOrder != orderID || courierID != actor.ID {
			t.Fatalf("unexpected claim call: %s %s", gotOrder, courierID)
		}
		return &model.Order{ID: gotOrder, TenantID: tenantID, Status: model.OrderStatusAssigned, CourierID: &actor.ID}, nil
	}}
	resp = performRequest(t, http.MethodPost, "/pool/"+orderID.String()+"/claim", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
		NewDispatchHandler(facade).Claim(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestDispatchHandlerClaimHidesCodes(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	orderID := uuid.New()
	facade := testhelpers.DispatchHTTPFacadeStub{ClaimFn: func(ctx context.Context, tenantID, gotOrder, courierID uuid.UUID) (*model.Order, error) {
		return &model.Order{
			ID:            gotOrder,
			TenantID:      tenantID,
			Status:        model.OrderStatusAssigned,
			CourierID:     &actor.ID,
			CustomerPhone: "+15550002222",
			PickupCode:    "4821",
			DeliveryCode:  "9377",
		}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/pool/"+orderID.String()+"/claim", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
		NewDispatchHandler(facade).Claim(c)
	}, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.PickupCode != "" || decoded.DeliveryCode != "" || decoded.CustomerPhone != "" {
		t.Fatalf("claim response leaks handoff codes: %+v", decoded)
	}
}

func TestCourierHandlerRegister(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleOwner}
	tenant := &model.Tenant{ID: actor.TenantID}
	body, _ := json.Marshal(dto.CourierCreateRequest{Login: "rider", Password: "secret", Name: "Sam", PushHandle: "handle-1"})
	facade := testhelpers.CourierFacadeStub{RegisterFn: func(ctx context.Context, tenantID uuid.UUID, draft usecase.CourierDraft) (*model.Courier, error) {
		if draft.Login != "rider" || draft.PushHandle != "handle-1" {
			t.Fatalf("unexpected draft %+v", draft)
		}
		return &model.Courier{ID: uuid.New(), TenantID: tenantID, Login: draft.Login, Name: draft.Name, Status: model.CourierStatusOffline}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/couriers", NewCourierHandler(facade).Register, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.CourierResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Login != "rider" || decoded.Status != "offline" {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestCourierHandlerListEmpty(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	resp := performRequest(t, http.MethodGet, "/couriers", NewCourierHandler(testhelpers.CourierFacadeStub{}).List, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestCourierHandlerAvailability(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	facade := testhelpers.CourierFacadeStub{ToggleFn: func(ctx context.Context, tenantID uuid.UUID, gotActor model.Actor, target model.CourierStatus) (*model.Courier, error) {
		if target != model.CourierStatusAvailable {
			t.Fatalf("unexpected target status %q", target)
		}
		return &model.Courier{ID: gotActor.ID, TenantID: tenantID, Status: target}, nil
	}}
	body := []byte(`{"status":"available"}`)
	resp := performRequest(t, http.MethodPost, "/availability", NewCourierHandler(facade).Availability, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestCourierHandlerAvailabilityNoPushDevice(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	facade := testhelpers.CourierFacadeStub{ToggleFn: func(context.Context, uuid.UUID, model.Actor, model.CourierStatus) (*model.Courier, error) {
		return nil, domainErrors.ErrPushUnavailable
	}}
	body := []byte(`{"status":"available"}`)
	resp := performRequest(t, http.MethodPost, "/availability", NewCourierHandler(facade).Availability, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected status 412, got %d", resp.Code)
	}
}

func TestCourierHandlerLocation(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
	tenant := &model.Tenant{ID: actor.TenantID}
	facade := testhelpers.CourierFacadeStub{LocationFn: func(ctx context.Context, tenantID uuid.UUID, gotActor model.Actor, lat, lng float64) (*model.Courier, error) {
		if lat != 55.75 || lng != 37.61 {
			t.Fatalf("unexpected coordinates %f %f", lat, lng)
		}
		return &model.Courier{ID: gotActor.ID, TenantID: tenantID, Lat: lat, Lng: lng}, nil
	}}
	body := []byte(`{"lat":55.75,"lng":37.61}`)
	resp := performRequest(t, http.MethodPost, "/location", NewCourierHandler(facade).Location, asStaff(actor, tenant), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestCourierHandlerPatchBadID(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}
	resp := performRequest(t, http.MethodPatch, "/couriers/not-a-uuid", func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		NewCourierHandler(testhelpers.CourierFacadeStub{}).Patch(c)
	}, asStaff(actor, tenant), []byte(`{}`), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestClientHandlerLookup(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}

	resp := performRequest(t, http.MethodGet, "/clients/lookup", NewClientHandler(testhelpers.ClientFacadeStub{}).Lookup, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without phone, got %d", resp.Code)
	}

	facade := testhelpers.ClientFacadeStub{LookupFn: func(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error) {
		if phone != "+15550002222" {
			t.Fatalf("unexpected phone %q", phone)
		}
		return &model.Client{TenantID: tenantID, Name: "Dana", Phone: phone, OrderCount: 4}, nil
	}}
	resp = performRequest(t, http.MethodGet, "/clients/lookup?phone=%2B15550002222", NewClientHandler(facade).Lookup, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.ClientResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Name != "Dana" || decoded.OrderCount != 4 {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestClientHandlerTop(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleStaff}
	tenant := &model.Tenant{ID: actor.TenantID}

	resp := performRequest(t, http.MethodGet, "/clients/top?limit=oops", NewClientHandler(testhelpers.ClientFacadeStub{}).Top, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed limit, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/clients/top", NewClientHandler(testhelpers.ClientFacadeStub{}).Top, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 when empty, got %d", resp.Code)
	}

	facade := testhelpers.ClientFacadeStub{TopFn: func(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
		if limit != 5 {
			t.Fatalf("unexpected limit %d", limit)
		}
		return []model.Client{{TenantID: tenantID, Name: "Dana", OrderCount: 9}, {TenantID: tenantID, Name: "Lee", OrderCount: 3}}, nil
	}}
	resp = performRequest(t, http.MethodGet, "/clients/top?limit=5", NewClientHandler(facade).Top, asStaff(actor, tenant), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.ClientResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "Dana" {
		t.Fatalf("unexpected response %+v", decoded)
	}
}
