package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const sampleResponse = `{
  "response": {
    "GeoObjectCollection": {
      "featureMember": [
        {
          "GeoObject": {
            "metaDataProperty": {
              "GeocoderMetaData": {"text": "Astana, Main street 5"}
            },
            "Point": {"pos": "71.4704 51.1605"}
          }
        },
        {
          "GeoObject": {
            "metaDataProperty": {
              "GeocoderMetaData": {"text": "Astana, Main street 50"}
            },
            "Point": {"pos": "not numbers"}
          }
        }
      ]
    }
  }
}`

func TestSuggestParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("missing apikey parameter")
		}
		if r.URL.Query().Get("geocode") != "Main street" {
			t.Errorf("unexpected geocode query: %q", r.URL.Query().Get("geocode"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	g := &YandexGeocoder{APIKey: "test-key", BaseURL: srv.URL}
	results, err := g.Suggest(context.Background(), "Main street")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(results))
	}
	first := results[0]
	if first.Address != "Astana, Main street 5" {
		t.Fatalf("unexpected address: %q", first.Address)
	}
	if first.Coordinates == nil {
		t.Fatal("expected coordinates on first suggestion")
	}
	// pos is "lon lat".
	if first.Coordinates.Latitude != 51.1605 || first.Coordinates.Longitude != 71.4704 {
		t.Fatalf("coordinates swapped or wrong: %+v", first.Coordinates)
	}
	if results[1].Coordinates != nil {
		t.Fatal("unparseable pos should leave coordinates nil")
	}
}

func TestGeocodeReturnsFirstMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	g := &YandexGeocoder{APIKey: "test-key", BaseURL: srv.URL}
	result, err := g.Geocode(context.Background(), "Main street 5")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if result.Address != "Astana, Main street 5" {
		t.Fatalf("unexpected address: %q", result.Address)
	}
}

func TestGeocodeNoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"GeoObjectCollection":{"featureMember":[]}}}`))
	}))
	defer srv.Close()

	g := &YandexGeocoder{APIKey: "test-key", BaseURL: srv.URL}
	if _, err := g.Geocode(context.Background(), "nowhere at all"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMissingKeyIsUnconfigured(t *testing.T) {
	g := &YandexGeocoder{}
	if _, err := g.Suggest(context.Background(), "Main street"); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
	if _, err := g.Geocode(context.Background(), "Main street 5"); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}

func TestSearchDoesNotMutateSharedGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	g := &YandexGeocoder{APIKey: "test-key", BaseURL: srv.URL}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Suggest(context.Background(), "Main street"); err != nil {
				t.Errorf("suggest: %v", err)
			}
		}()
	}
	wg.Wait()
	if g.Client != nil {
		t.Fatal("a request wrote a client onto the shared geocoder")
	}
}

func TestProviderErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := &YandexGeocoder{APIKey: "test-key", BaseURL: srv.URL}
	if _, err := g.Suggest(context.Background(), "Main street"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
