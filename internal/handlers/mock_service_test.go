package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/models"
	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerErr   error
	genTokenToken string
	genTokenErr   error
	parseIdentity service.Identity
	parseErr      error

	lastRegUsername string
	lastRegPassword string
	lastRegAdmin    bool
	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) Register(ctx context.Context, username, password string, isAdmin bool) error {
	m.lastRegUsername = username
	m.lastRegPassword = password
	m.lastRegAdmin = isAdmin
	return m.registerErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	return m.parseIdentity, m.parseErr
}
func (m *mockAuth) EnsureAdminSeed(ctx context.Context) error { return nil }

type mockRobot struct {
	connectErr    error
	startErr      error
	stopErr       error
	disconnectErr error
	status        service.RobotStatus
	programs      []string
	programsErr   error

	lastConnect service.ConnectParams
	calls       []string
}

func (m *mockRobot) Connect(ctx context.Context, p service.ConnectParams) error {
	m.calls = append(m.calls, "connect")
	m.lastConnect = p
	return m.connectErr
}
func (m *mockRobot) Start(ctx context.Context) error {
	m.calls = append(m.calls, "start")
	return m.startErr
}
func (m *mockRobot) Stop(ctx context.Context) error {
	m.calls = append(m.calls, "stop")
	return m.stopErr
}
func (m *mockRobot) Disconnect(ctx context.Context) error {
	m.calls = append(m.calls, "disconnect")
	return m.disconnectErr
}
func (m *mockRobot) Status(ctx context.Context) service.RobotStatus { return m.status }
func (m *mockRobot) Programs(ctx context.Context) ([]string, error) {
	return m.programs, m.programsErr
}

type mockOrders struct {
	snap      service.OrderSnapshot
	fetchErr  error
	upsertErr error
	seeded    bool
	seedErr   error
	resetErr  error

	lastFetchID   string
	lastUpsertID  string
	lastUpsertCnt int
	lastForce     bool
	resetCalls    int
}

func (m *mockOrders) Fetch(ctx context.Context, orderID string) (service.OrderSnapshot, error) {
	m.lastFetchID = orderID
	return m.snap, m.fetchErr
}
func (m *mockOrders) Current() service.OrderSnapshot { return m.snap }
func (m *mockOrders) Upsert(ctx context.Context, orderID string, bagCount int) error {
	m.lastUpsertID = orderID
	m.lastUpsertCnt = bagCount
	return m.upsertErr
}
func (m *mockOrders) Seed(ctx context.Context, force bool) (bool, error) {
	m.lastForce = force
	return m.seeded, m.seedErr
}
func (m *mockOrders) Reset(ctx context.Context) error {
	m.resetCalls++
	return m.resetErr
}

type mockSensors struct {
	pair        cell.SensorPair
	simulated   cell.SensorPair
	simulateErr error
}

func (m *mockSensors) Read() cell.SensorPair { return m.pair }
func (m *mockSensors) Simulate(ctx context.Context) (cell.SensorPair, error) {
	return m.simulated, m.simulateErr
}

type mockMonitoring struct {
	mu   sync.Mutex
	view models.CellView
	err  error
}

func (m *mockMonitoring) GetView(ctx context.Context) (models.CellView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view, m.err
}

// set swaps the published view while a stream is reading it.
func (m *mockMonitoring) set(v models.CellView, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view, m.err = v, err
}

type mockEventLog struct {
	resp     []models.CellEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CellEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// serve sends a JSON request with an optional bearer token.
func serve(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// operatorAuth accepts any token as a non-admin operator.
func operatorAuth() *mockAuth {
	return &mockAuth{parseIdentity: service.Identity{Username: "op"}}
}

func adminAuth() *mockAuth {
	return &mockAuth{parseIdentity: service.Identity{Username: "admin", IsAdmin: true}}
}
