package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matsen/bipscrape/internal/scraper"
)

func TestFetch_SendsHeaders(t *testing.T) {
	var gotAccept, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Write([]byte(`{"title":"T"}`))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent(UserAgent("1.0", "me@example.org")))
	body, err := c.Fetch(context.Background(), scraper.Request{
		URL:     srv.URL + "/10.1000/xyz",
		Headers: map[string]string{"Accept": "application/json"},
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != `{"title":"T"}` {
		t.Errorf("body = %q", body)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotUA != "bipscrape/1.0 (mailto:me@example.org)" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotPath != "/10.1000/xyz" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestFetch_StatusErrors(t *testing.T) {
	tests := []struct {
		status      int
		notFound    bool
		rateLimited bool
	}{
		{http.StatusNotFound, true, false},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, false},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := NewClient().Fetch(context.Background(), scraper.Request{URL: srv.URL + "/x"})
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: Fetch() error = nil", tt.status)
		}
		if IsNotFound(err) != tt.notFound {
			t.Errorf("status %d: IsNotFound = %v", tt.status, !tt.notFound)
		}
		if IsRateLimited(err) != tt.rateLimited {
			t.Errorf("status %d: IsRateLimited = %v", tt.status, !tt.rateLimited)
		}
		if tt.status == http.StatusInternalServerError {
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
				t.Errorf("error = %v, want *HTTPError 500", err)
			}
		}
	}
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(WithTimeout(time.Second)).Fetch(context.Background(), scraper.Request{URL: url})
	if !errors.Is(err, ErrNetworkError) {
		t.Errorf("Fetch() error = %v, want ErrNetworkError", err)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithRateLimit(0.001))
	// Drain the single burst token so Wait must block on ctx.
	c.limiter.Allow()

	if _, err := c.Fetch(ctx, scraper.Request{URL: "http://127.0.0.1:1/"}); err == nil {
		t.Error("Fetch() with cancelled context succeeded")
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent("dev", ""); got != "bipscrape/dev" {
		t.Errorf("UserAgent() = %q", got)
	}
}
