package catalog

import (
	"context"
	"net/url"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("Get() on empty cache hit")
	}

	now := time.Now()
	_ = c.Set(ctx, "a", Entry{Payload: []byte("1"), FetchedAt: now})
	_ = c.Set(ctx, "b", Entry{Payload: []byte("2"), FetchedAt: now})

	e, ok, err := c.Get(ctx, "a")
	if err != nil || !ok || string(e.Payload) != "1" {
		t.Errorf("Get(a) = %q,%v,%v", e.Payload, ok, err)
	}
	if age := e.Age(now.Add(time.Minute)); age != time.Minute {
		t.Errorf("Age() = %v", age)
	}

	_ = c.Delete(ctx, "a")
	if c.Len() != 1 {
		t.Errorf("Len() after Delete = %d, want 1", c.Len())
	}
	_ = c.Clear(ctx)
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestRequestKey(t *testing.T) {
	a := url.Values{}
	a.Set("sort_by", "note_id")
	a.Set("brand", "LG")
	b := url.Values{"brand": {"LG"}, "sort_by": {"note_id"}}

	if RequestKey("GET", "/v1/machines", a) != RequestKey("", "/v1/machines", b) {
		t.Error("RequestKey depends on parameter order")
	}
	if got := RequestKey("GET", "/v1/brands", nil); got != "GET /v1/brands" {
		t.Errorf("RequestKey() = %q", got)
	}
	if got := RequestKey("GET", "/v1/machines", b); got != "GET /v1/machines?brand=LG&sort_by=note_id" {
		t.Errorf("RequestKey() = %q", got)
	}
}
