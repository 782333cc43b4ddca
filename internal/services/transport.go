package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// ErrDeliveryFailed wraps transport failures sending a notice or reminder.
var ErrDeliveryFailed = errors.New("delivery failed")

// Transport is the chat collaborator the moderation pipeline talks to. All
// calls are bounded by the context or the client's own timeout; a slow or
// unreachable recipient must never wedge the pipeline.
type Transport interface {
	// SendMessage posts text to a room and returns the new message id.
	SendMessage(ctx context.Context, chatID, text string) (string, error)
	// SendDirect sends text privately to a user.
	SendDirect(ctx context.Context, userID, text string) error
	DeleteMessage(ctx context.Context, chatID, messageID string) error
}

// SendEphemeral posts text to a room and schedules its deletion after ttl.
// The send is bounded by the caller's context; only the countdown delete runs
// detached, and a failed delete is logged, nothing more.
func SendEphemeral(ctx context.Context, t Transport, chatID, text string, ttl time.Duration) error {
	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msgID, err := t.SendMessage(sctx, chatID, text)
	if err != nil {
		return err
	}

	time.AfterFunc(ttl, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.DeleteMessage(ctx, chatID, msgID); err != nil {
			log.Printf("[transport] delayed delete failed chat=%s msg=%s err=%v", chatID, msgID, err)
		}
	})
	return nil
}

// WebhookTransport delivers chat operations to a bridge process over HTTP.
// The bridge owns the actual chat-network session; this side only posts
// JSON envelopes.
type WebhookTransport struct {
	url    string
	client *http.Client
}

// NewWebhookTransport creates a transport posting to the given bridge URL.
func NewWebhookTransport(url string, timeout time.Duration) *WebhookTransport {
	return &WebhookTransport{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookRequest struct {
	Action    string `json:"action"`
	ChatID    string `json:"chat_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Text      string `json:"text,omitempty"`
}

type webhookResponse struct {
	MessageID string `json:"message_id"`
}

func (t *WebhookTransport) post(ctx context.Context, req webhookRequest) (*webhookResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: bridge returned %d", ErrDeliveryFailed, resp.StatusCode)
	}

	var out webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		// Some bridge actions return an empty body; that is fine.
		return &webhookResponse{}, nil
	}
	return &out, nil
}

func (t *WebhookTransport) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	resp, err := t.post(ctx, webhookRequest{Action: "send", ChatID: chatID, Text: text})
	if err != nil {
		return "", err
	}
	return resp.MessageID, nil
}

func (t *WebhookTransport) SendDirect(ctx context.Context, userID, text string) error {
	_, err := t.post(ctx, webhookRequest{Action: "send_direct", UserID: userID, Text: text})
	return err
}

func (t *WebhookTransport) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	_, err := t.post(ctx, webhookRequest{Action: "delete", ChatID: chatID, MessageID: messageID})
	return err
}
