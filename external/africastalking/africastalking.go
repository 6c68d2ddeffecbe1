package africastalking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	liveBaseURL    = "https://api.africastalking.com"
	sandboxBaseURL = "https://api.sandbox.africastalking.com"
)

// Client talks to the Africa's Talking airtime API.
type Client struct {
	BaseURL  string
	APIKey   string
	Username string
	HTTP     *http.Client
}

func NewClient() *Client {
	username := os.Getenv("AFRICASTALKING_USERNAME")
	if username == "" {
		username = "sandbox"
	}

	baseURL := liveBaseURL
	if username == "sandbox" {
		baseURL = sandboxBaseURL
	}

	return &Client{
		BaseURL:  baseURL,
		APIKey:   os.Getenv("AFRICASTALKING_API_KEY"),
		Username: username,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

type recipient struct {
	PhoneNumber  string `json:"phoneNumber"`
	CurrencyCode string `json:"currencyCode"`
	Amount       string `json:"amount"`
}

type sendResponse struct {
	ErrorMessage string `json:"errorMessage"`
	NumSent      int    `json:"numSent"`
	Responses    []struct {
		PhoneNumber  string `json:"phoneNumber"`
		Status       string `json:"status"`
		RequestID    string `json:"requestId"`
		ErrorMessage string `json:"errorMessage"`
	} `json:"responses"`
}

// SendAirtime delivers airtime to a single phone number. The amount is in UGX.
// This is a synchronous completion path: the provider's answer in this response
// is final for the submission.
func (c *Client) SendAirtime(phoneNumber string, amount float64) (string, error) {
	recipients, err := json.Marshal([]recipient{{
		PhoneNumber:  phoneNumber,
		CurrencyCode: "UGX",
		Amount:       fmt.Sprintf("%.0f", amount),
	}})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("recipients", string(recipients))

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/version1/airtime/send", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("africastalking: invalid response: %w", err)
	}

	if len(out.Responses) == 0 {
		if out.ErrorMessage != "" && out.ErrorMessage != "None" {
			return "", errors.New(out.ErrorMessage)
		}
		return "", errors.New("africastalking: empty response")
	}

	r := out.Responses[0]
	if r.Status != "Sent" {
		if r.ErrorMessage != "" && r.ErrorMessage != "None" {
			return "", errors.New(r.ErrorMessage)
		}
		return "", fmt.Errorf("africastalking: airtime not sent, status %s", r.Status)
	}

	return r.RequestID, nil
}
