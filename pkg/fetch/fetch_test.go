package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		payload := []byte("\x89PNG fake image")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", nil)
		data, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("Fetch() = %q, want %q", data, payload)
		}
	})

	t.Run("SendsUserAgent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "test-agent/2.0", nil)
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if gotUA != "test-agent/2.0" {
			t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent/2.0")
		}
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", nil)
		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("Fetch() should fail on 404")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error is %T, want *FetchError", err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(50*time.Millisecond, "", nil)
		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("Fetch() should fail on timeout")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error is %T, want *FetchError", err)
		}
	})

	t.Run("TruncatedBody", func(t *testing.T) {
		// Announce more bytes than are sent; the connection is cut short
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1000")
			w.Write([]byte("only a little"))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", nil)
		_, err := client.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("Fetch() should fail on a truncated body")
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		client := NewClient(time.Second, "", nil)
		_, err := client.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
		if err == nil {
			t.Fatal("Fetch() should fail when the host is unreachable")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(5*time.Second, "", nil)
		if _, err := client.Fetch(ctx, server.URL); err == nil {
			t.Fatal("Fetch() should fail with a cancelled context")
		}
	})
}
