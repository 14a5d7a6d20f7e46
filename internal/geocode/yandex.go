package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// YandexGeocoder calls the Yandex Geocoder HTTP API. An empty APIKey makes
// every call fail with ErrUnconfigured.
type YandexGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Text string `json:"text"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

func (g *YandexGeocoder) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	return g.search(ctx, query, 3)
}

func (g *YandexGeocoder) Geocode(ctx context.Context, address string) (Suggestion, error) {
	results, err := g.search(ctx, address, 1)
	if err != nil {
		return Suggestion{}, err
	}
	if len(results) == 0 {
		return Suggestion{}, ErrNotFound
	}
	return results[0], nil
}

func (g *YandexGeocoder) search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return nil, ErrUnconfigured
	}
	// Fall back to a local client rather than writing to the shared receiver;
	// concurrent calls would race on the field.
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	base := g.BaseURL
	if base == "" {
		base = "https://geocode-maps.yandex.ru/1.x/"
	}

	params := url.Values{}
	params.Set("apikey", g.APIKey)
	params.Set("geocode", query)
	params.Set("format", "json")
	params.Set("results", strconv.Itoa(limit))
	params.Set("lang", "ru_RU")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yandex geocoder http error: %s", resp.Status)
	}

	var body yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return parseYandexMembers(body), nil
}

func parseYandexMembers(body yandexResponse) []Suggestion {
	var out []Suggestion
	for _, member := range body.Response.GeoObjectCollection.FeatureMember {
		obj := member.GeoObject
		address := obj.MetaDataProperty.GeocoderMetaData.Text
		if address == "" {
			continue
		}
		s := Suggestion{Address: address}
		// Yandex returns "lon lat".
		if parts := strings.Fields(obj.Point.Pos); len(parts) == 2 {
			lon, errLon := strconv.ParseFloat(parts[0], 64)
			lat, errLat := strconv.ParseFloat(parts[1], 64)
			if errLon == nil && errLat == nil {
				s.Coordinates = &Coordinates{Latitude: lat, Longitude: lon}
			}
		}
		out = append(out, s)
	}
	return out
}
