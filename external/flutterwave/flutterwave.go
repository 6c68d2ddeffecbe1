package flutterwave

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.flutterwave.com/v3"

// Client talks to the Flutterwave v3 API for mobile-money charges and
// transfers in Uganda.
type Client struct {
	BaseURL     string
	SecretKey   string
	WebhookHash string
	HTTP        *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:     defaultBaseURL,
		SecretKey:   os.Getenv("FLUTTERWAVE_SECRET_KEY"),
		WebhookHash: os.Getenv("FLUTTERWAVE_WEBHOOK_HASH"),
		HTTP:        &http.Client{Timeout: 30 * time.Second},
	}
}

type ChargeRequest struct {
	TxRef       string  `json:"tx_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Network     string  `json:"network"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	FullName    string  `json:"fullname"`
}

type TransferRequest struct {
	AccountBank   string  `json:"account_bank"`
	AccountNumber string  `json:"account_number"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Narration     string  `json:"narration"`
	Reference     string  `json:"reference"`
	CallbackURL   string  `json:"callback_url"`
	DebitCurrency string  `json:"debit_currency"`
}

type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Success reports whether the provider accepted the request.
func (r *Response) Success() bool {
	return r.Status == "success"
}

// ChargeMobileMoney initiates a mobile-money collection from the user's phone.
// The user approves the charge on their handset; the final outcome arrives on
// the webhook.
func (c *Client) ChargeMobileMoney(req ChargeRequest) (*Response, error) {
	return c.post("/charges?type=mobile_money_uganda", req)
}

// Transfer sends UGX to a mobile-money account (withdrawal payout).
func (c *Client) Transfer(req TransferRequest) (*Response, error) {
	return c.post("/transfers", req)
}

type verification struct {
	Status string `json:"status"`
	Data   struct {
		Status string `json:"status"`
		TxRef  string `json:"tx_ref"`
	} `json:"data"`
}

// VerifyTransaction asks Flutterwave for the authoritative status of a
// transaction before the webhook handler trusts the callback payload.
func (c *Client) VerifyTransaction(transactionID string) (bool, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/transactions/"+transactionID+"/verify", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var v verification
	if err := json.Unmarshal(body, &v); err != nil {
		return false, err
	}

	return v.Status == "success" && v.Data.Status == "successful", nil
}

// VerifyWebhookSignature checks the verif-hash header Flutterwave sends with
// every callback against the configured secret hash.
func (c *Client) VerifyWebhookSignature(header string) bool {
	if c.WebhookHash == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(c.WebhookHash)) == 1
}

func (c *Client) post(path string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("flutterwave: invalid response: %w", err)
	}

	if !out.Success() {
		return &out, fmt.Errorf("flutterwave: %s", out.Message)
	}

	return &out, nil
}
