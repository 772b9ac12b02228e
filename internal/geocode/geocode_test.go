package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodapp/internal/models"
)

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("lat") != "6.5" || q.Get("lon") != "3.4" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if ua := r.Header.Get("User-Agent"); ua != "FoodApp/1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte(`{"display_name":"x","address":{"suburb":"Yaba","city":"Lagos"}}`))
	}))
	defer server.Close()

	addr, err := New(server.URL, "FoodApp/1.0").Reverse(context.Background(), models.Location{Latitude: 6.5, Longitude: 3.4})
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if got := addr.Label(PreferCity); got != "Yaba, Lagos" {
		t.Errorf("Label() = %q", got)
	}
}

func TestReverseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"unable to geocode", http.StatusOK, `{"error":"Unable to geocode"}`},
		{"garbage", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			if _, err := New(server.URL, "ua").Reverse(context.Background(), models.Location{}); err == nil {
				t.Error("Reverse() expected error")
			}
		})
	}
}

func TestLabel(t *testing.T) {
	both := Address{Suburb: "Yaba", Village: "Akoka", City: "Lagos"}
	tests := []struct {
		addr Address
		pref Locality
		want string
	}{
		{both, PreferVillage, "Yaba, Akoka"},
		{both, PreferCity, "Yaba, Lagos"},
		{Address{City: "Lagos"}, PreferVillage, "Lagos"},
		{Address{Village: "Akoka"}, PreferCity, "Akoka"},
		{Address{}, PreferCity, ""},
	}
	for _, tt := range tests {
		if got := tt.addr.Label(tt.pref); got != tt.want {
			t.Errorf("Label(%+v, %d) = %q, want %q", tt.addr, tt.pref, got, tt.want)
		}
	}
}
