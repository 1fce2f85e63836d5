// Package notify sends invoice status messages through an external
// WhatsApp HTTP API. Delivery is best-effort: failures are reported to
// the caller but never block the status update that triggered them.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is what the caller gets back from a dispatch attempt
type Result struct {
	Success bool   `json:"success"`
	Details string `json:"details,omitempty"`
}

// Notifier dispatches a text message to a phone number. Injected into
// handlers so tests can stub delivery.
type Notifier interface {
	SendText(phone, message string) Result
}

// whatsAppMessage is the request body of the messaging API
type whatsAppMessage struct {
	To   string `json:"to"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// WhatsAppNotifier posts text messages to a configured WhatsApp API
type WhatsAppNotifier struct {
	apiURL string
	token  string
	client *http.Client
}

// NewWhatsAppNotifier creates a notifier for the given API endpoint.
// An empty URL produces a disabled notifier that reports failure
// without making requests.
func NewWhatsAppNotifier(apiURL, token string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendText implements Notifier
func (n *WhatsAppNotifier) SendText(phone, message string) Result {
	if n.apiURL == "" {
		return Result{Success: false, Details: "whatsapp api not configured"}
	}
	if phone == "" {
		return Result{Success: false, Details: "customer has no phone number"}
	}

	payload := whatsAppMessage{To: phone, Type: "text"}
	payload.Text.Body = message

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Details: fmt.Sprintf("failed to marshal message: %v", err)}
	}

	req, err := http.NewRequest(http.MethodPost, n.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{Success: false, Details: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{Success: false, Details: fmt.Sprintf("failed to send message: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{Success: false, Details: fmt.Sprintf("messaging api returned %d: %s", resp.StatusCode, string(body))}
	}

	return Result{Success: true}
}
