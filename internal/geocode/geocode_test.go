package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format %q", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"Paris, France","lat":"48.8566","lon":"2.3522"}]`))
	}))
	defer srv.Close()

	res, err := NewNominatim(srv.URL, "pinmark-test").Search(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "Paris" || gotAgent != "pinmark-test" {
		t.Fatalf("request q=%q agent=%q", gotQuery, gotAgent)
	}
	if res.Name != "Paris, France" || res.LatLng.Lat != 48.8566 || res.LatLng.Lng != 2.3522 {
		t.Fatalf("result %+v", res)
	}
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	if _, err := NewNominatim(srv.URL, "").Search(context.Background(), "nowhere"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("want ErrNoResults, got %v", err)
	}
}

func TestSearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	n := NewNominatim(srv.URL, "")
	if _, err := n.Search(context.Background(), "x"); err == nil {
		t.Fatal("non-2xx should fail")
	}
	if _, err := n.Search(context.Background(), "   "); err == nil {
		t.Fatal("empty query should fail")
	}
}
