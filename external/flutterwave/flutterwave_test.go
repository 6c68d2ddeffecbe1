package flutterwave

import (
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	c := &Client{
		BaseURL:     defaultBaseURL,
		SecretKey:   "FLWSECK_TEST-secret",
		WebhookHash: "hash-secret",
		HTTP:        &http.Client{Timeout: 5 * time.Second},
	}
	gock.InterceptClient(c.HTTP)
	return c
}

func TestChargeMobileMoneySuccess(t *testing.T) {
	defer gock.Off()

	gock.New(defaultBaseURL).
		Post("/charges").
		MatchParam("type", "mobile_money_uganda").
		MatchHeader("Authorization", "Bearer FLWSECK_TEST-secret").
		Reply(200).
		JSON(map[string]interface{}{
			"status":  "success",
			"message": "Charge initiated",
			"data":    map[string]interface{}{"status": "pending"},
		})

	c := newTestClient()
	resp, err := c.ChargeMobileMoney(ChargeRequest{
		TxRef:       "MM-DEP-abc",
		Amount:      50000,
		Currency:    "UGX",
		Network:     "MTN",
		Email:       "user@minisente.com",
		PhoneNumber: "+256712345678",
		FullName:    "MiniSente User",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success())
	assert.Equal(t, "Charge initiated", resp.Message)
	assert.True(t, gock.IsDone())
}

func TestChargeMobileMoneyProviderError(t *testing.T) {
	defer gock.Off()

	gock.New(defaultBaseURL).
		Post("/charges").
		Reply(400).
		JSON(map[string]interface{}{
			"status":  "error",
			"message": "Invalid phone number",
		})

	c := newTestClient()
	resp, err := c.ChargeMobileMoney(ChargeRequest{TxRef: "MM-DEP-bad"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid phone number")
	assert.False(t, resp.Success())
}

func TestTransfer(t *testing.T) {
	defer gock.Off()

	gock.New(defaultBaseURL).
		Post("/transfers").
		Reply(200).
		JSON(map[string]interface{}{
			"status":  "success",
			"message": "Transfer Queued Successfully",
		})

	c := newTestClient()
	resp, err := c.Transfer(TransferRequest{
		AccountBank:   "MPS",
		AccountNumber: "+256712345678",
		Amount:        38000,
		Currency:      "UGX",
		Reference:     "MM-WITH-abc",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success())
}

func TestVerifyTransaction(t *testing.T) {
	defer gock.Off()

	gock.New(defaultBaseURL).
		Get("/transactions/12345/verify").
		Reply(200).
		JSON(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"status": "successful", "tx_ref": "MM-DEP-abc"},
		})

	c := newTestClient()
	ok, err := c.VerifyTransaction("12345")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyTransactionFailed(t *testing.T) {
	defer gock.Off()

	gock.New(defaultBaseURL).
		Get("/transactions/999/verify").
		Reply(200).
		JSON(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"status": "failed"},
		})

	c := newTestClient()
	ok, err := c.VerifyTransaction("999")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWebhookSignature(t *testing.T) {
	c := newTestClient()

	assert.True(t, c.VerifyWebhookSignature("hash-secret"))
	assert.False(t, c.VerifyWebhookSignature("wrong"))
	assert.False(t, c.VerifyWebhookSignature(""))

	c.WebhookHash = ""
	assert.False(t, c.VerifyWebhookSignature("anything"))
}
