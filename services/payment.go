package services

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

var errNotConfigured = errors.New("not configured")

// apiEnvelope is the {code, desc, data} shape both PayOS and VietQR answer with. "00" means success.
type apiEnvelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}) (*apiEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Code != "00" {
		return nil, fmt.Errorf("code %s: %s", env.Code, env.Desc)
	}
	return &env, nil
}

// wholeAmount converts an order total to the integer VND amount the gateways expect.
func wholeAmount(total float64) int64 {
	return int64(math.Round(total))
}

// PayOSClient creates hosted checkout links for CREDIT_CARD orders.
type PayOSClient struct {
	cfg    config.PaymentConfig
	client *http.Client
}

func NewPayOSClient(cfg config.PaymentConfig) *PayOSClient {
	return &PayOSClient{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

type payOSRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CancelURL   string `json:"cancelUrl"`
	ReturnURL   string `json:"returnUrl"`
	Signature   string `json:"signature"`
}

// Sign computes the request checksum: HMAC-SHA256 over the alphabetically ordered
// amount, cancelUrl, description, orderCode and returnUrl fields.
func (c *PayOSClient) Sign(r payOSRequest) string {
	data := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		r.Amount, r.CancelURL, r.Description, r.OrderCode, r.ReturnURL)
	mac := hmac.New(sha256.New, []byte(c.cfg.ChecksumKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *PayOSClient) CreatePaymentLink(ctx context.Context, order *models.Order) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.APIKey == "" || c.cfg.ChecksumKey == "" {
		return "", utils.NewUpstreamError("payos", errNotConfigured)
	}

	body := payOSRequest{
		OrderCode: int64(order.ID),
		Amount:    wholeAmount(order.Total),
		// PayOS caps descriptions at 25 characters
		Description: fmt.Sprintf("Order %d", order.ID),
		CancelURL:   c.cfg.CancelURL,
		ReturnURL:   c.cfg.ReturnURL,
	}
	body.Signature = c.Sign(body)

	env, err := postJSON(ctx, c.client, strings.TrimRight(c.cfg.BaseURL, "/")+"/v2/payment-requests", map[string]string{
		"x-client-id": c.cfg.ClientID,
		"x-api-key":   c.cfg.APIKey,
	}, body)
	if err != nil {
		return "", utils.NewUpstreamError("payos", err)
	}

	var data struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.CheckoutURL == "" {
		return "", utils.NewUpstreamError("payos", errors.New("response has no checkoutUrl"))
	}
	return data.CheckoutURL, nil
}

// VietQRClient renders bank-transfer QR codes for the restaurant's bank account.
type VietQRClient struct {
	cfg    config.QRConfig
	client *http.Client
}

func NewVietQRClient(cfg config.QRConfig) *VietQRClient {
	return &VietQRClient{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

type vietQRRequest struct {
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName"`
	AcqID       string `json:"acqId"`
	Amount      int64  `json:"amount"`
	AddInfo     string `json:"addInfo"`
	Format      string `json:"format"`
	Template    string `json:"template,omitempty"`
}

func (c *VietQRClient) GenerateQR(ctx context.Context, restaurant *models.Restaurant, order *models.Order) (string, error) {
	if restaurant.BankAccountNo == "" || restaurant.BankAcqID == "" {
		return "", utils.NewValidationError("restaurant has no bank account for transfers")
	}

	headers := map[string]string{}
	if c.cfg.ClientID != "" {
		headers["x-client-id"] = c.cfg.ClientID
		headers["x-api-key"] = c.cfg.APIKey
	}
	env, err := postJSON(ctx, c.client, strings.TrimRight(c.cfg.BaseURL, "/")+"/v2/generate", headers, vietQRRequest{
		AccountNo:   restaurant.BankAccountNo,
		AccountName: restaurant.BankAccountName,
		AcqID:       restaurant.BankAcqID,
		Amount:      wholeAmount(order.Total),
		AddInfo:     fmt.Sprintf("ORDER %d", order.ID),
		Format:      "text",
		Template:    c.cfg.Template,
	})
	if err != nil {
		return "", utils.NewUpstreamError("vietqr", err)
	}

	var data struct {
		QRDataURL string `json:"qrDataURL"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.QRDataURL == "" {
		return "", utils.NewUpstreamError("vietqr", errors.New("response has no qrDataURL"))
	}
	return data.QRDataURL, nil
}
