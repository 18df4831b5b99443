package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"srivani_backend/internals/configs"
)

// WhatsAppClient talks to the messaging provider's HTTP API. Send failures
// are logged and skipped: a notification blast must never fail a publish.
type WhatsAppClient struct {
	APIURL string
	Token  string
	HTTP   *http.Client
}

func NewWhatsAppClient() *WhatsAppClient {
	return &WhatsAppClient{
		APIURL: configs.WhatsAppAPIURL,
		Token:  configs.WhatsAppAPIToken,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the provider is configured. Local and test
// environments typically leave it unset.
func (w *WhatsAppClient) Enabled() bool {
	return w.APIURL != "" && w.Token != ""
}

type whatsAppPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (w *WhatsAppClient) SendMessage(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(whatsAppPayload{To: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.Token)

	resp, err := w.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp provider returned %d", resp.StatusCode)
	}
	return nil
}

// maxConcurrentSends bounds the fan-out so a big user table doesn't open
// hundreds of provider connections at once.
const maxConcurrentSends = 8

// Broadcast sends the message to every phone number, bounded-concurrent.
// Individual failures are logged, counted, and never abort the batch.
func (w *WhatsAppClient) Broadcast(ctx context.Context, phones []string, message string) {
	if !w.Enabled() {
		log.Printf("[WARN] whatsapp provider not configured, skipping broadcast to %d recipients", len(phones))
		return
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)

	for _, phone := range phones {
		phone := phone
		g.Go(func() error {
			if err := w.SendMessage(ctx, phone, message); err != nil {
				log.Printf("[ERROR] whatsapp send to %s failed: %v", phone, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	log.Printf("[INFO] whatsapp broadcast finished: %d recipients", len(phones))
}
