package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestNutritionix(url string) *NutritionixService {
	return &NutritionixService{
		appID:   "test-id",
		appKey:  "test-key",
		baseURL: url,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestNutritionixLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/natural/nutrients", r.URL.Path)
		require.Equal(t, "test-id", r.Header.Get("x-app-id"))
		require.Equal(t, "test-key", r.Header.Get("x-app-key"))

		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "150 g grilled chicken", body.Query)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{
			"food_name":"grilled chicken",
			"nf_calories":247.5,
			"nf_protein":46.5,
			"nf_total_carbohydrate":0,
			"nf_total_fat":5.4,
			"serving_qty":150,
			"serving_unit":"g",
			"serving_weight_grams":150
		},{"food_name":"ignored second"}]}`))
	}))
	defer srv.Close()

	nutri, err := newTestNutritionix(srv.URL).Lookup("150 g grilled chicken")
	require.NoError(t, err)
	require.Equal(t, "grilled chicken", nutri.Name)
	require.Equal(t, 247.5, nutri.Calories)
	require.Equal(t, 46.5, nutri.Protein)
	require.Equal(t, 5.4, nutri.Fat)
	require.Equal(t, "g", nutri.ServingUnit)
	require.Equal(t, 150.0, nutri.ServingWeight)
}

func TestNutritionixEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods":[]}`))
	}))
	defer srv.Close()

	_, err := newTestNutritionix(srv.URL).Lookup("definitely not food")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no nutrition data found")
}

func TestNutritionixErrorSurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := newTestNutritionix(srv.URL).Lookup("1 serving apple")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
	require.Contains(t, err.Error(), "invalid credentials")
}
