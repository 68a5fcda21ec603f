package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mailer is the email delivery provider boundary.
type Mailer interface {
	Send(msg OutboundEmail) (string, error)
	// SendBatch hands the whole recipient fan-out to the provider in one
	// call. The campaign treats the batch as all-or-nothing.
	SendBatch(msgs []OutboundEmail) error
}

type OutboundEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type HTTPMailer struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPMailer(baseURL, apiKey string) *HTTPMailer {
	return &HTTPMailer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers a single message and returns the provider message id.
func (m *HTTPMailer) Send(msg OutboundEmail) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := m.post("/emails", msg, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

func (m *HTTPMailer) SendBatch(msgs []OutboundEmail) error {
	return m.post("/emails/batch", msgs, nil)
}

func (m *HTTPMailer) post(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mailer returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ Mailer = (*HTTPMailer)(nil)
