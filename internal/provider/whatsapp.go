package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppSender is the messaging platform boundary for outbound texts.
type WhatsAppSender interface {
	SendText(toPhone, body string) (string, error)
}

type WhatsAppClient struct {
	BaseURL  string
	APIToken string
	Client   *http.Client
}

func NewWhatsAppClient(baseURL, apiToken string) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:  baseURL,
		APIToken: apiToken,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *WhatsAppClient) SendText(toPhone, body string) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                toPhone,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("whatsapp returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

var _ WhatsAppSender = (*WhatsAppClient)(nil)
