package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"packaging_cell/internal/service"
)

func TestOrderHandlers_Fetch(t *testing.T) {
	seven := 7
	cases := []struct {
		name      string
		orders    *mockOrders
		wantCode  int
		wantCount *int
	}{
		{"found", &mockOrders{snap: service.OrderSnapshot{OrderID: "10452", BagCount: &seven}}, http.StatusOK, &seven},
		{"not found", &mockOrders{snap: service.OrderSnapshot{OrderID: "10452"}, fetchErr: service.ErrOrderNotFound}, http.StatusNotFound, nil},
		{"store failure", &mockOrders{fetchErr: errors.New("db")}, http.StatusInternalServerError, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: operatorAuth(), Orders: tc.orders})
			w := serve(r, http.MethodPost, "/api/v1/orders/10452/fetch", "", "tok")
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.orders.lastFetchID != "10452" {
				t.Fatalf("order id not forwarded: %q", tc.orders.lastFetchID)
			}
			if tc.wantCount != nil {
				var snap service.OrderSnapshot
				_ = json.Unmarshal(w.Body.Bytes(), &snap)
				if snap.BagCount == nil || *snap.BagCount != *tc.wantCount {
					t.Fatalf("unexpected snapshot: %s", w.Body.String())
				}
			}
		})
	}
}

func TestOrderHandlers_NotFoundCarriesClearedSnapshot(t *testing.T) {
	r := newTestRouter(&service.Service{
		Authorization: operatorAuth(),
		Orders:        &mockOrders{snap: service.OrderSnapshot{OrderID: "999"}, fetchErr: service.ErrOrderNotFound},
	})
	w := serve(r, http.MethodPost, "/api/v1/orders/999/fetch", "", "tok")

	var out struct {
		Error string                `json:"error"`
		Order service.OrderSnapshot `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Error == "" || out.Order.OrderID != "999" || out.Order.BagCount != nil {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestOrderHandlers_AdminOnly(t *testing.T) {
	orders := &mockOrders{}
	r := newTestRouter(&service.Service{Authorization: operatorAuth(), Orders: orders})

	for _, path := range []string{"/api/v1/admin/orders/seed", "/api/v1/admin/orders/reset"} {
		if w := serve(r, http.MethodPost, path, "", "tok"); w.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, w.Code)
		}
	}
	if w := serve(r, http.MethodPut, "/api/v1/admin/orders/1", `{"bag_count":3}`, "tok"); w.Code != http.StatusForbidden {
		t.Fatalf("upsert: expected 403, got %d", w.Code)
	}
	if orders.resetCalls != 0 || orders.lastUpsertID != "" {
		t.Fatalf("service reached despite 403: %+v", orders)
	}
}

func TestOrderHandlers_Upsert(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
	}{
		{"ok", `{"bag_count":7}`, nil, http.StatusOK},
		{"zero is allowed", `{"bag_count":0}`, nil, http.StatusOK},
		{"missing count", `{}`, nil, http.StatusBadRequest},
		{"negative count", `{"bag_count":-1}`, nil, http.StatusBadRequest},
		{"service rejects", `{"bag_count":7}`, service.ErrInvalidBagCount, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &mockOrders{upsertErr: tc.svcErr}
			r := newTestRouter(&service.Service{Authorization: adminAuth(), Orders: orders})
			w := serve(r, http.MethodPut, "/api/v1/admin/orders/10452", tc.body, "tok")
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}

	orders := &mockOrders{}
	r := newTestRouter(&service.Service{Authorization: adminAuth(), Orders: orders})
	serve(r, http.MethodPut, "/api/v1/admin/orders/10452", `{"bag_count":7}`, "tok")
	if orders.lastUpsertID != "10452" || orders.lastUpsertCnt != 7 {
		t.Fatalf("upsert args: %q %d", orders.lastUpsertID, orders.lastUpsertCnt)
	}
}

func TestOrderHandlers_SeedAndReset(t *testing.T) {
	orders := &mockOrders{seeded: true}
	r := newTestRouter(&service.Service{Authorization: adminAuth(), Orders: orders})

	w := serve(r, http.MethodPost, "/api/v1/admin/orders/seed?force=true", "", "tok")
	if w.Code != http.StatusOK || w.Body.String() != `{"seeded":true}` {
		t.Fatalf("seed: %d %s", w.Code, w.Body.String())
	}
	if !orders.lastForce {
		t.Fatalf("force not forwarded")
	}

	if w := serve(r, http.MethodPost, "/api/v1/admin/orders/seed?force=maybe", "", "tok"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad force: expected 400, got %d", w.Code)
	}

	serve(r, http.MethodPost, "/api/v1/admin/orders/seed", "", "tok")
	if orders.lastForce {
		t.Fatalf("force should default to false")
	}

	if w := serve(r, http.MethodPost, "/api/v1/admin/orders/reset", "", "tok"); w.Code != http.StatusOK || orders.resetCalls != 1 {
		t.Fatalf("reset: %d calls=%d", w.Code, orders.resetCalls)
	}
}
