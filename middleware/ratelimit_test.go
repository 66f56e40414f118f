// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/pollbox/metrics"
)

func (l *ipRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func TestRateLimit(t *testing.T) {
	m := metrics.New(nil)
	handler := RateLimit(60, 2, false, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest("POST", "/polls/x/votes", nil)
		req.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// burst of 2, then refused
	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}

	// other clients have their own bucket
	if code := send("10.0.0.2"); code != http.StatusCreated {
		t.Errorf("Expected a different client to pass, got %d", code)
	}

	if got := testutil.ToFloat64(m.Rejections.WithLabelValues(metrics.ReasonRateLimit)); got != 1 {
		t.Errorf("Expected 1 rate limit rejection counted, got %v", got)
	}
}

func TestRateLimit_RotatingForwardedForSharesPeerBucket(t *testing.T) {
	handler := RateLimit(1, 2, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	var accepted int
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest("POST", "/polls/x/votes", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.0.%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusCreated {
			accepted++
		}
	}

	if accepted != 2 {
		t.Errorf("Expected only the burst of 2 accepted from one peer, got %d", accepted)
	}
}

func TestRateLimit_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	handler := RateLimit(1, 1, true, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	for _, client := range []string{"10.1.0.1", "10.1.0.2"} {
		req := httptest.NewRequest("POST", "/polls/x/votes", nil)
		req.RemoteAddr = "127.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Errorf("client %s behind the proxy: expected 201, got %d", client, w.Code)
		}
	}
}

func TestIPRateLimiter_Refill(t *testing.T) {
	l := newIPRateLimiter(1, 1, time.Hour) // one per second
	now := time.Now()

	if !l.allow("a", now) {
		t.Fatal("Expected first request allowed")
	}
	if l.allow("a", now) {
		t.Error("Expected second immediate request refused")
	}
	if !l.allow("a", now.Add(1100*time.Millisecond)) {
		t.Error("Expected request allowed after refill")
	}
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPRateLimiter(1, 1, time.Minute)
	now := time.Now()

	l.allow("a", now)
	l.allow("b", now)
	if l.size() != 2 {
		t.Fatalf("Expected 2 tracked clients, got %d", l.size())
	}

	l.allow("c", now.Add(2*time.Minute))
	if l.size() != 1 {
		t.Errorf("Expected idle clients evicted, %d still tracked", l.size())
	}
}
