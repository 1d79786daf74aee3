package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/durable/internal/logger"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.5:4242", nil, false, "10.0.0.5"},
		{"headers ignored without trust", "10.0.0.5:4242", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.5"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, true, "9.9.9.9"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8"}, true, "1.2.3.4"},
		{"real ip last", "127.0.0.1:1", map[string]string{"X-Real-IP": "[2001:db8::1]:80"}, true, "2001:db8::1"},
		{"trust without headers", "127.0.0.1:1", nil, true, "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.10", " ", "garbage", "2001:db8::/32"})

	tests := map[string]bool{
		"10.20.30.40":     true,
		"192.168.1.10":    true,
		"192.168.1.11":    false,
		"::ffff:10.1.1.1": true,
		"2001:db8::42":    true,
		"not-an-ip":       false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() || m.IsEmpty() {
		t.Error("IsEmpty() wrong")
	}
}

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("boom")
}

func TestCloseLogged(t *testing.T) {
	c := &failingCloser{}
	CloseLogged(c, "test", logger.NewNop())
	if !c.closed {
		t.Error("Close() not called")
	}
	CloseLogged(nil, "nil", logger.NewNop())
}
