package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Error("NewLimiter(0) should return nil (no limiting)")
	}
	if NewLimiter(-5) != nil {
		t.Error("NewLimiter(-5) should return nil (no limiting)")
	}
	if NewLimiter(1024) == nil {
		t.Error("NewLimiter(1024) should return a limiter")
	}
}

func TestNewReader(t *testing.T) {
	t.Run("NilLimiterPassesThrough", func(t *testing.T) {
		src := strings.NewReader("payload")
		r := NewReader(context.Background(), src, nil)
		if r != io.Reader(src) {
			t.Error("NewReader with nil limiter should return the reader unchanged")
		}
	})

	t.Run("ReadsAllContent", func(t *testing.T) {
		payload := bytes.Repeat([]byte("x"), 128*1024)
		limiter := NewLimiter(10 * 1024 * 1024) // fast enough not to slow the test

		r := NewReader(context.Background(), bytes.NewReader(payload), limiter)
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("read %d bytes, want %d", len(got), len(payload))
		}
	})

	t.Run("ThrottlesToConfiguredRate", func(t *testing.T) {
		// 64KB burst is free, so read 192KB at 128KB/s: the second
		// 128KB must wait roughly a second
		payload := bytes.Repeat([]byte("x"), 192*1024)
		limiter := NewLimiter(128 * 1024)

		start := time.Now()
		r := NewReader(context.Background(), bytes.NewReader(payload), limiter)
		if _, err := io.ReadAll(r); err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}

		if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
			t.Errorf("read finished in %v, limiter not throttling", elapsed)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewReader(ctx, strings.NewReader("payload"), NewLimiter(1024))
		if _, err := io.ReadAll(r); err == nil {
			t.Fatal("Read() should fail once the context is cancelled")
		}
	})
}
