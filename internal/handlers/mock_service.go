package handlers

import (
	"context"
	"net/http"
	"time"

	"coilcalc/internal/models"
	"coilcalc/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCoil struct {
	snap         models.CoilSnapshot
	err          error
	computeCalls int
	lastInput    models.CoilInput
}

func (m *mockCoil) Compute(ctx context.Context, in models.CoilInput) (models.CoilSnapshot, error) {
	m.computeCalls++
	m.lastInput = in
	return m.snap, m.err
}

type mockMonitoring struct {
	snap models.CoilSnapshot
	err  error
}

func (m *mockMonitoring) GetSnapshot(ctx context.Context) (models.CoilSnapshot, error) {
	return m.snap, m.err
}

type mockHistory struct {
	resp     []models.CalcEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastKind string
}

func (m *mockHistory) List(ctx context.Context, f service.HistoryFilter) ([]models.CalcEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastKind = f.Kind
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
