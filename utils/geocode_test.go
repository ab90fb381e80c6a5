package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupBigDataCloudFirst(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" {
			t.Error("latitude query parameter missing")
		}
		w.Write([]byte(`{"city":"Hyderabad","principalSubdivision":"Telangana","countryName":"India"}`))
	}))
	defer primary.Close()

	g := &ReverseGeocoder{
		Client:          primary.Client(),
		BigDataCloudURL: primary.URL,
		NominatimURL:    "http://127.0.0.1:0", // must not be reached
	}

	addr, err := g.Lookup(context.Background(), 17.38, 78.48)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if addr != "Hyderabad, Telangana, India" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestLookupFallsBackToNominatim(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("fallback request missing user agent")
		}
		w.Write([]byte(`{"display_name":"Somewhere, Earth"}`))
	}))
	defer fallback.Close()

	g := &ReverseGeocoder{
		Client:          http.DefaultClient,
		BigDataCloudURL: primary.URL,
		NominatimURL:    fallback.URL,
	}

	addr, err := g.Lookup(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if addr != "Somewhere, Earth" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestLookupBothProvidersFail(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	g := &ReverseGeocoder{
		Client:          http.DefaultClient,
		BigDataCloudURL: down.URL,
		NominatimURL:    down.URL,
	}

	if _, err := g.Lookup(context.Background(), 1, 2); err == nil {
		t.Fatal("expected an error when both providers fail")
	}
}

func TestLookupEmptyPrimaryFallsBack(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Fallback City"}`))
	}))
	defer fallback.Close()

	g := &ReverseGeocoder{
		Client:          http.DefaultClient,
		BigDataCloudURL: primary.URL,
		NominatimURL:    fallback.URL,
	}

	addr, err := g.Lookup(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if addr != "Fallback City" {
		t.Fatalf("unexpected address %q", addr)
	}
}
