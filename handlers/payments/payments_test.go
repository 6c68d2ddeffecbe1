package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Edcode-bot/MiniSente/external/flutterwave"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
)

func setupTest(t *testing.T) models.User {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}, &models.Transaction{}, &models.PaymentLimit{}))
	utils.DB = db

	SendReceipt = func(string, float64, string) {}

	user := models.User{
		WalletAddress: "0xabc0000000000000000000000000000000000001",
		Email:         "user@example.com",
		PhoneNumber:   "+256712345678",
		Password:      "hashed",
	}
	require.NoError(t, db.Create(&user).Error)

	Client = &flutterwave.Client{
		BaseURL:     "https://api.flutterwave.com/v3",
		SecretKey:   "FLWSECK_TEST-secret",
		WebhookHash: "hook-hash",
		HTTP:        &http.Client{Timeout: 5 * time.Second},
	}
	gock.InterceptClient(Client.HTTP)
	t.Cleanup(gock.Off)

	return user
}

func newRouter(user models.User) *gin.Engine {
	r := gin.New()
	authed := r.Group("/")
	authed.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})
	authed.POST("/deposit/mobile-money", InitiateDeposit)
	authed.POST("/withdraw/mobile-money", InitiateWithdrawal)
	authed.GET("/payments", GetPayments)
	authed.GET("/limits", GetLimits)
	r.POST("/webhook/flutterwave", FlutterwaveWebhook)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInitiateDepositCreatesPendingRecord(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	gock.New("https://api.flutterwave.com").
		Post("/v3/charges").
		Reply(200).
		JSON(map[string]interface{}{"status": "success", "message": "Charge initiated"})

	w := doJSON(r, http.MethodPost, "/deposit/mobile-money", gin.H{
		"phone":   "0712345678",
		"amount":  38000,
		"network": "MTN",
		"email":   "user@example.com",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool    `json:"success"`
		Reference  string  `json:"reference"`
		AmountUSDC float64 `json:"amount_usdc"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Reference, "MM-DEP-")
	assert.InDelta(t, 10.0, resp.AmountUSDC, 0.0001)

	var payment models.Payment
	require.NoError(t, utils.DB.Where("provider_reference = ?", resp.Reference).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, models.ServiceMobileMoneyDeposit, payment.ServiceType)
	assert.Equal(t, 3800.0, payment.ExchangeRate)
	assert.InDelta(t, payment.AmountUGX/payment.ExchangeRate, payment.AmountUSDC, 1e-9)
}

func TestInitiateDepositProviderErrorCreatesNoRecord(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	gock.New("https://api.flutterwave.com").
		Post("/v3/charges").
		Reply(400).
		JSON(map[string]interface{}{"status": "error", "message": "Invalid phone number"})

	w := doJSON(r, http.MethodPost, "/deposit/mobile-money", gin.H{
		"phone":   "0712345678",
		"amount":  38000,
		"network": "MTN",
	}, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var count int64
	utils.DB.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInitiateDepositValidation(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	cases := []gin.H{
		{"phone": "123", "amount": 38000, "network": "MTN"},
		{"phone": "0712345678", "amount": 500, "network": "MTN"},
		{"phone": "0712345678", "amount": 38000, "network": "SAFARICOM"},
	}
	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/deposit/mobile-money", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	var count int64
	utils.DB.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInitiateWithdrawalConvertsToUGX(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	gock.New("https://api.flutterwave.com").
		Post("/v3/transfers").
		Reply(200).
		JSON(map[string]interface{}{"status": "success", "message": "Transfer Queued Successfully"})

	w := doJSON(r, http.MethodPost, "/withdraw/mobile-money", gin.H{
		"phone":       "0712345678",
		"amount_usdc": 10,
		"network":     "AIRTEL",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool    `json:"success"`
		Reference string  `json:"reference"`
		AmountUGX float64 `json:"amount_ugx"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Reference, "MM-WITH-")
	assert.Equal(t, 38000.0, resp.AmountUGX)

	var payment models.Payment
	require.NoError(t, utils.DB.Where("provider_reference = ?", resp.Reference).First(&payment).Error)
	assert.Equal(t, models.ServiceMobileMoneyWithdraw, payment.ServiceType)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, 38000.0, payment.AmountUGX)
}

func TestGetLimitsReturnsSeededBounds(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	require.NoError(t, utils.DB.Create(&models.PaymentLimit{
		ServiceType: models.ServiceAirtime, MinAmountUGX: 1000, MaxAmountUGX: 500000,
	}).Error)
	require.NoError(t, utils.DB.Create(&models.PaymentLimit{
		ServiceType: models.ServiceElectricity, MinAmountUGX: 5000, MaxAmountUGX: 2000000,
	}).Error)

	w := doJSON(r, http.MethodGet, "/limits", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Limits []models.PaymentLimit `json:"limits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Limits, 2)
	assert.Equal(t, models.ServiceAirtime, resp.Limits[0].ServiceType)
	assert.Equal(t, 1000.0, resp.Limits[0].MinAmountUGX)
	assert.Equal(t, 500000.0, resp.Limits[0].MaxAmountUGX)
}

func TestFlutterwaveWebhookCompletesPayment(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	var receipts []string
	SendReceipt = func(email string, amountUGX float64, reference string) {
		receipts = append(receipts, fmt.Sprintf("%s %.0f %s", email, amountUGX, reference))
	}

	payment := models.Payment{
		UserID:            user.ID,
		ServiceType:       models.ServiceMobileMoneyDeposit,
		AmountUGX:         38000,
		AmountUSDC:        10,
		ExchangeRate:      3800,
		Recipient:         "+256712345678",
		Network:           "MTN",
		ProviderReference: "MM-DEP-test-ref",
		Status:            models.PaymentStatusPending,
	}
	require.NoError(t, utils.DB.Create(&payment).Error)

	gock.New("https://api.flutterwave.com").
		Get("/v3/transactions/555/verify").
		Times(2).
		Reply(200).
		JSON(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"status": "successful", "tx_ref": "MM-DEP-test-ref"},
		})

	body := gin.H{"txRef": "MM-DEP-test-ref", "status": "successful", "transaction_id": "555"}
	headers := map[string]string{"verif-hash": "hook-hash"}

	w := doJSON(r, http.MethodPost, "/webhook/flutterwave", body, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Payment
	require.NoError(t, utils.DB.Where("provider_reference = ?", "MM-DEP-test-ref").First(&updated).Error)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	require.Len(t, receipts, 1)
	assert.Equal(t, "user@example.com 38000 MM-DEP-test-ref", receipts[0])

	// Re-delivering the same callback re-applies the same terminal state.
	w = doJSON(r, http.MethodPost, "/webhook/flutterwave", body, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, utils.DB.Where("provider_reference = ?", "MM-DEP-test-ref").First(&updated).Error)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
}

func TestFlutterwaveWebhookFailedVerification(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	payment := models.Payment{
		UserID:            user.ID,
		ServiceType:       models.ServiceMobileMoneyDeposit,
		AmountUGX:         38000,
		AmountUSDC:        10,
		ExchangeRate:      3800,
		Recipient:         "+256712345678",
		ProviderReference: "MM-DEP-failed-ref",
		Status:            models.PaymentStatusPending,
	}
	require.NoError(t, utils.DB.Create(&payment).Error)

	gock.New("https://api.flutterwave.com").
		Get("/v3/transactions/556/verify").
		Reply(200).
		JSON(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"status": "failed"},
		})

	w := doJSON(r, http.MethodPost, "/webhook/flutterwave",
		gin.H{"txRef": "MM-DEP-failed-ref", "status": "failed", "transaction_id": "556"},
		map[string]string{"verif-hash": "hook-hash"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Payment
	require.NoError(t, utils.DB.Where("provider_reference = ?", "MM-DEP-failed-ref").First(&updated).Error)
	assert.Equal(t, models.PaymentStatusFailed, updated.Status)
	assert.NotEmpty(t, updated.ErrorMessage)
}

func TestFlutterwaveWebhookRejectsBadSignature(t *testing.T) {
	user := setupTest(t)
	r := newRouter(user)

	w := doJSON(r, http.MethodPost, "/webhook/flutterwave",
		gin.H{"txRef": "MM-DEP-x", "status": "successful", "transaction_id": "1"},
		map[string]string{"verif-hash": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/webhook/flutterwave",
		gin.H{"txRef": "MM-DEP-x", "status": "successful", "transaction_id": "1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFlutterwaveWebhookUnknownReference(t *testing.T) {
	setupTest(t)
	r := newRouter(models.User{})

	w := doJSON(r, http.MethodPost, "/webhook/flutterwave",
		gin.H{"txRef": "MM-DEP-nope", "status": "successful", "transaction_id": "1"},
		map[string]string{"verif-hash": "hook-hash"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
