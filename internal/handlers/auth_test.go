package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"packaging_cell/internal/service"
)

func TestAuthHandlers_SignIn(t *testing.T) {
	auth := &mockAuth{genTokenToken: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := serve(r, http.MethodPost, "/auth/sign-in", `{"username":"u","password":"p"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}
	if auth.lastGenUsername != "u" || auth.lastGenPassword != "p" {
		t.Fatalf("credentials not forwarded: %q/%q", auth.lastGenUsername, auth.lastGenPassword)
	}

	// invalid body → 400
	w = serve(r, http.MethodPost, "/auth/sign-in", `{"username":1}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}

	// wrong password → 401 without leaking the cause
	auth.genTokenErr = service.ErrInvalidPassword
	w = serve(r, http.MethodPost, "/auth/sign-in", `{"username":"u","password":"bad"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["error"] != "invalid credentials" {
		t.Fatalf("unexpected error body: %v", m)
	}
}

func TestAuthHandlers_CreateUser(t *testing.T) {
	cases := []struct {
		name     string
		auth     *mockAuth
		body     string
		wantCode int
	}{
		{"admin creates operator", adminAuth(), `{"username":"bob","password":"pw"}`, http.StatusCreated},
		{"admin creates admin", adminAuth(), `{"username":"boss","password":"pw","is_admin":true}`, http.StatusCreated},
		{"operator forbidden", operatorAuth(), `{"username":"bob","password":"pw"}`, http.StatusForbidden},
		{"missing password", adminAuth(), `{"username":"bob"}`, http.StatusBadRequest},
		{"duplicate", &mockAuth{parseIdentity: service.Identity{Username: "admin", IsAdmin: true}, registerErr: service.ErrUserExists}, `{"username":"bob","password":"pw"}`, http.StatusConflict},
		{"store failure", &mockAuth{parseIdentity: service.Identity{Username: "admin", IsAdmin: true}, registerErr: errors.New("disk full")}, `{"username":"bob","password":"pw"}`, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: tc.auth})
			w := serve(r, http.MethodPost, "/api/v1/admin/users", tc.body, "tok")
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}

	auth := adminAuth()
	r := newTestRouter(&service.Service{Authorization: auth})
	serve(r, http.MethodPost, "/api/v1/admin/users", `{"username":"boss","password":"pw","is_admin":true}`, "tok")
	if auth.lastRegUsername != "boss" || auth.lastRegPassword != "pw" || !auth.lastRegAdmin {
		t.Fatalf("register args not forwarded: %+v", auth)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := serve(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}
