package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "bank-ledger/internal/adapter/http/handler"
	redisStorage "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds a full application stack with in-memory repos connected
// via miniredis. This exercises the real HTTP layer, middleware, handlers,
// service, and Redis cache end-to-end.

type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	accountCache := redisStorage.NewAccountCache(rdb)

	accountRepo := newInMemoryAccountRepo()
	txRepo := newInMemoryTransactionRepo()
	transactor := newInMemoryTransactor()

	log := logger.New("debug", false)
	ledgerSvc := service.NewLedgerService(
		accountRepo, txRepo, service.NewIDGenerator(), accountCache,
		transactor, 5*time.Minute, log,
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc: ledgerSvc,
		Logger:    log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server: server,
		redis:  mr,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

func (a *testApp) request(t *testing.T, method, path string, payload any) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func (a *testApp) createAccount(t *testing.T, holderName string) string {
	t.Helper()
	resp, body := a.request(t, http.MethodPost, "/api/v1/accounts", map[string]string{"holder_name": holderName})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	return data["account_number"].(string)
}

func (a *testApp) deposit(t *testing.T, accNo string, amount float64) {
	t.Helper()
	resp, _ := a.request(t, http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/deposit", accNo), map[string]float64{"amount": amount})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (a *testApp) balance(t *testing.T, accNo string) float64 {
	t.Helper()
	resp, body := a.request(t, http.MethodGet, "/api/v1/accounts/"+accNo, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["data"].(map[string]interface{})["balance"].(float64)
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_CreateAccount(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.request(t, http.MethodPost, "/api/v1/accounts", map[string]string{"holder_name": "John Doe"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	accNo := data["account_number"].(string)
	assert.Regexp(t, `^[A-Z]{3}[0-9]{4}$`, accNo)
	assert.Equal(t, "JOH", accNo[:3])
	assert.Equal(t, "John Doe", data["holder_name"])
	assert.Equal(t, 0.0, data["balance"])
	assert.Empty(t, data["transaction_ids"])
}

func TestIntegration_CreateAccount_MissingName(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, _ := app.request(t, http.MethodPost, "/api/v1/accounts", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_DepositAndWithdraw(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Alice")

	// Deposit 1000, then 500
	app.deposit(t, accNo, 1000)
	resp, body := app.request(t, http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/deposit", accNo), map[string]float64{"amount": 500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1500.0, body["data"].(map[string]interface{})["balance"])

	// Withdraw 400
	resp, body = app.request(t, http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/withdraw", accNo), map[string]float64{"amount": 400})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1100.0, body["data"].(map[string]interface{})["balance"])
}

func TestIntegration_Withdraw_InsufficientBalance(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Bob")
	app.deposit(t, accNo, 200)

	resp, body := app.request(t, http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/withdraw", accNo), map[string]float64{"amount": 500})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TXN_002", body["error_code"])

	// Balance unchanged
	assert.Equal(t, 200.0, app.balance(t, accNo))
}

func TestIntegration_Transfer(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	src := app.createAccount(t, "Source Holder")
	dest := app.createAccount(t, "Dest Holder")
	app.deposit(t, src, 1000)
	app.deposit(t, dest, 500)

	resp, body := app.request(t, http.MethodPost, "/api/v1/accounts/transfer", map[string]any{
		"source_account":      src,
		"destination_account": dest,
		"amount":              200,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "TRANSFER", data["type"])
	assert.Equal(t, "SUCCESS", data["status"])
	assert.Equal(t, 200.0, data["amount"])
	assert.Equal(t, src, data["source_account"])
	assert.Equal(t, dest, data["destination_account"])
	transferID := data["transaction_id"].(string)

	// Balances moved and the total is conserved
	assert.Equal(t, 800.0, app.balance(t, src))
	assert.Equal(t, 700.0, app.balance(t, dest))

	// The transfer produced a WITHDRAW on the source, a DEPOSIT on the
	// destination, and the TRANSFER record on both histories.
	_, srcBody := app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/transactions", src), nil)
	srcTxns := srcBody["data"].([]interface{})
	require.Len(t, srcTxns, 3) // initial deposit + transfer withdraw + transfer
	last := srcTxns[len(srcTxns)-1].(map[string]interface{})
	assert.Equal(t, transferID, last["transaction_id"])

	_, destBody := app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/transactions", dest), nil)
	destTxns := destBody["data"].([]interface{})
	require.Len(t, destTxns, 3) // initial deposit + transfer deposit + transfer
}

func TestIntegration_Transfer_SameAccount(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Carol")
	app.deposit(t, accNo, 100)

	resp, body := app.request(t, http.MethodPost, "/api/v1/accounts/transfer", map[string]any{
		"source_account":      accNo,
		"destination_account": accNo,
		"amount":              50,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TXN_001", body["error_code"])
}

func TestIntegration_Transfer_InsufficientBalance(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	src := app.createAccount(t, "Poor Holder")
	dest := app.createAccount(t, "Rich Holder")
	app.deposit(t, src, 50)

	resp, body := app.request(t, http.MethodPost, "/api/v1/accounts/transfer", map[string]any{
		"source_account":      src,
		"destination_account": dest,
		"amount":              100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TXN_002", body["error_code"])

	// Nothing moved
	assert.Equal(t, 50.0, app.balance(t, src))
	assert.Equal(t, 0.0, app.balance(t, dest))
}

func TestIntegration_UpdateHolderName(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Dave")
	app.deposit(t, accNo, 300)

	resp, body := app.request(t, http.MethodPut, "/api/v1/accounts/"+accNo, map[string]string{"holder_name": "David"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "David", data["holder_name"])
	assert.Equal(t, 300.0, data["balance"])
}

func TestIntegration_DeleteAccount_HistorySurvives(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Eve")
	app.deposit(t, accNo, 100)

	resp, _ := app.request(t, http.MethodDelete, "/api/v1/accounts/"+accNo, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Account gone
	resp, _ = app.request(t, http.MethodGet, "/api/v1/accounts/"+accNo, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// History still readable
	resp, body := app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/transactions", accNo), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 1)
}

func TestIntegration_GetAccount_NotFound(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.request(t, http.MethodGet, "/api/v1/accounts/XYZ9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ACC_002", body["error_code"])
}

func TestIntegration_GetAccount_MalformedNumber(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.request(t, http.MethodGet, "/api/v1/accounts/not-valid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ACC_001", body["error_code"])
}

func TestIntegration_AccountCacheServesReads(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	accNo := app.createAccount(t, "Frank")
	app.deposit(t, accNo, 750)

	// First read populates the cache, second is served from it.
	assert.Equal(t, 750.0, app.balance(t, accNo))
	assert.Equal(t, 750.0, app.balance(t, accNo))

	// A mutation invalidates the snapshot so the next read is fresh.
	app.deposit(t, accNo, 250)
	assert.Equal(t, 1000.0, app.balance(t, accNo))
}
