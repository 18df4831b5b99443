package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestSendMessagePostsToProvider(t *testing.T) {
	var got whatsAppPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &WhatsAppClient{
		APIURL: srv.URL,
		Token:  "test-token",
		HTTP:   srv.Client(),
	}

	if err := client.SendMessage(context.Background(), "+911234567890", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.To != "+911234567890" || got.Message != "hello" {
		t.Fatalf("payload = %+v", got)
	}
	if auth != "Bearer test-token" {
		t.Fatalf("auth header = %q", auth)
	}
}

func TestSendMessageFailsOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &WhatsAppClient{APIURL: srv.URL, Token: "t", HTTP: srv.Client()}
	if err := client.SendMessage(context.Background(), "+91", "x"); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestBroadcastSurvivesIndividualFailures(t *testing.T) {
	var mu sync.Mutex
	received := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p whatsAppPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		mu.Lock()
		received[p.To] = true
		mu.Unlock()
		if p.To == "+bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &WhatsAppClient{APIURL: srv.URL, Token: "t", HTTP: srv.Client()}

	phones := []string{"+1", "+bad", "+2", "+3"}
	done := make(chan struct{})
	go func() {
		client.Broadcast(context.Background(), phones, "announcement")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, p := range phones {
		if !received[p] {
			t.Fatalf("recipient %s never contacted", p)
		}
	}
}

func TestBroadcastSkipsWhenUnconfigured(t *testing.T) {
	client := &WhatsAppClient{HTTP: http.DefaultClient}
	// Must return immediately without panicking or dialing anything.
	client.Broadcast(context.Background(), []string{"+1"}, "x")
}
