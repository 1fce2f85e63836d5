package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendTextPostsMessage(t *testing.T) {
	var got whatsAppMessage
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWhatsAppNotifier(server.URL, "token-123")
	result := n.SendText("+30123456789", "Your invoice is complete.")
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if got.To != "+30123456789" || got.Type != "text" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Text.Body != "Your invoice is complete." {
		t.Fatalf("unexpected body: %q", got.Text.Body)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestSendTextReportsAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid recipient", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewWhatsAppNotifier(server.URL, "")
	result := n.SendText("+30123456789", "hello")
	if result.Success {
		t.Fatal("expected failure on non-2xx response")
	}
	if result.Details == "" {
		t.Fatal("expected failure details")
	}
}

func TestSendTextDisabledNotifier(t *testing.T) {
	n := NewWhatsAppNotifier("", "")
	if result := n.SendText("+30123", "hello"); result.Success {
		t.Fatal("expected disabled notifier to report failure")
	}
}

func TestSendTextMissingPhone(t *testing.T) {
	n := NewWhatsAppNotifier("http://example.invalid", "")
	result := n.SendText("", "hello")
	if result.Success {
		t.Fatal("expected missing phone to report failure")
	}
	if result.Details != "customer has no phone number" {
		t.Fatalf("unexpected details: %q", result.Details)
	}
}
