package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioConfig holds Twilio API credentials and the sending number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioClient sends verification codes through the Twilio Messages API.
type TwilioClient struct {
	from      string
	sid       string
	authToken string
	baseURL   string
	http      *http.Client
}

// NewTwilioClient creates a client for the given account.
func NewTwilioClient(cfg TwilioConfig) *TwilioClient {
	return &TwilioClient{
		from:      cfg.From,
		sid:       cfg.AccountSID,
		authToken: cfg.AuthToken,
		baseURL:   "https://api.twilio.com/2010-04-01/Accounts/" + cfg.AccountSID,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendOTP texts code to phone (E.164, e.g. "+919876543210").
func (c *TwilioClient) SendOTP(ctx context.Context, phone, code string) error {
	if c.sid == "" || c.authToken == "" || c.from == "" {
		return fmt.Errorf("sms: twilio not configured")
	}
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", c.from)
	form.Set("Body", fmt.Sprintf("Your NSS Blood Bank verification code is %s", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Messages.json", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.sid, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("sms: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr twilioError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("sms: twilio error %d: %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("sms: twilio status=%d", resp.StatusCode)
	}

	var msg twilioMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("sms: twilio unmarshal: %w", err)
	}
	if msg.Status == "failed" || msg.Status == "undelivered" {
		return fmt.Errorf("sms: twilio message %s %s", msg.SID, msg.Status)
	}
	return nil
}
