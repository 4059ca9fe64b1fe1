package aliexpress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestResolveFollowsRedirects(t *testing.T) {
	var method string
	mux := http.NewServeMux()
	mux.HandleFunc("/e/_short", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		http.Redirect(w, r, "/hop", http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/item/1005004633663909.html", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/item/1005004633663909.html", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	logger := zerolog.Nop()
	r := NewShortLinkResolver(2*time.Second, &logger)

	got, err := r.Resolve(context.Background(), srv.URL+"/e/_short")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := srv.URL + "/item/1005004633663909.html"; got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
	if method != http.MethodHead {
		t.Fatalf("resolver used %s, want HEAD (headers only)", method)
	}
}

func TestResolveTimeoutReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	r := NewShortLinkResolver(50*time.Millisecond, &logger)

	if _, err := r.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestResolveConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	logger := zerolog.Nop()
	r := NewShortLinkResolver(time.Second, &logger)

	if _, err := r.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatal("expected connection error, got nil")
	}
}
