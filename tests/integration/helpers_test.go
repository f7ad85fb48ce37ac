package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donation-platform/config"
	httpHandler "donation-platform/internal/adapter/http/handler"
	"donation-platform/internal/adapter/storage/memory"
	redisStorage "donation-platform/internal/adapter/storage/redis"
	"donation-platform/internal/core/ports"
	"donation-platform/internal/service"
	"donation-platform/pkg/logger"
	"donation-platform/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass"
)

// testApp builds the full application stack backed by miniredis and the
// in-memory stores. It exercises the real HTTP layer, middleware, handlers,
// services and Redis stores end-to-end.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
}

// cheapArgon2 keeps password hashing fast in tests.
var cheapArgon2 = service.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestApp(t *testing.T, limits config.RateLimitConfig) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.New("error", false)
	reg := prometheus.NewRegistry()
	m := metrics.NewDonationMetrics(reg)

	blocklist := redisStorage.NewTokenBlocklist(rdb)
	users := memory.NewUserRepo()
	hashSvc := service.NewArgon2HashServiceWithParams(cheapArgon2)
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", time.Hour, "test-issuer")
	accounts := service.NewAccountService(m, log)
	ledger := service.NewLedgerService(accounts, m, log)
	donations := service.NewDonationService(ledger, redisStorage.NewIdempotencyCache(rdb), m, log)
	authSvc := service.NewAuthService(users, accounts, hashSvc, tokenSvc, blocklist, log)

	seeder := service.NewSeeder(authSvc, accounts, ledger, log)
	require.NoError(t, seeder.BootstrapAdmin(context.Background(), adminUsername, adminPassword))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		Accounts:       accounts,
		Ledger:         ledger,
		Donations:      donations,
		Stats:          service.NewStatsService(ledger, accounts, users),
		TokenSvc:       tokenSvc,
		Blocklist:      blocklist,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		RateLimits:     limits,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Mode:           gin.TestMode,
		Logger:         log,
	})

	app := &testApp{server: httptest.NewServer(router), redis: mr}
	t.Cleanup(app.server.Close)
	return app
}

// generousLimits keeps rate limiting on without tripping it.
var generousLimits = config.RateLimitConfig{AuthPerMinute: 1000, DonatePerMinute: 1000, ReadPerMinute: 1000}

type apiResponse struct {
	Status    int             `json:"-"`
	Header    http.Header     `json:"-"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}, headers ...string) apiResponse {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Header: resp.Header}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

func decode[T any](t *testing.T, r apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(r.Data, &v), string(r.Data))
	return v
}

type userView struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Role              string `json:"role"`
	Balance           string `json:"balance"`
	PaidRequestsCount int    `json:"paid_requests_count"`
	Rank              string `json:"rank"`
}

type requestView struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	TotalAmount        string  `json:"total_amount"`
	RemainingAmount    string  `json:"remaining_amount"`
	AmountRaised       string  `json:"amount_raised"`
	ProgressPercentage float64 `json:"progress_percentage"`
	PriorityLevel      int     `json:"priority_level"`
	RecipientUsername  string  `json:"recipient_username"`
}

type donateView struct {
	TransactionID   string `json:"transaction_id"`
	Fulfilled       bool   `json:"fulfilled"`
	AmountDonated   string `json:"amount_donated"`
	NewBalance      string `json:"new_balance"`
	RemainingAmount string `json:"remaining_amount"`
	NewRank         string `json:"new_rank"`
}

func (a *testApp) register(t *testing.T, username, role string) {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "password1", "role": role,
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Message)
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, res.Status, res.Message)
	return decode[struct {
		Token string `json:"token"`
	}](t, res).Token
}

// signUp registers a user and returns a session token.
func (a *testApp) signUp(t *testing.T, username, role string) string {
	t.Helper()
	a.register(t, username, role)
	return a.login(t, username, "password1")
}

func (a *testApp) deposit(t *testing.T, token, amount string) {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/v1/donor/balance", token, map[string]string{
		"amount": amount, "card_number": "4111111111111111",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Message)
}

// approvedRequest creates a request as the recipient and approves it as admin.
func (a *testApp) approvedRequest(t *testing.T, recipientToken, adminToken, amount string, priority int) requestView {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/v1/recipient/requests", recipientToken, map[string]interface{}{
		"amount": amount, "priority_level": priority, "reason": "medical bills",
	})
	require.Equal(t, http.StatusCreated, res.Status, res.Message)
	created := decode[requestView](t, res)

	res = a.do(t, http.MethodPost, "/api/v1/admin/requests/"+created.ID+"/approve", adminToken, map[string]int{"priority_level": priority})
	require.Equal(t, http.StatusOK, res.Status, res.Message)
	return decode[requestView](t, res)
}
