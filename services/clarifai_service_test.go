package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClarifai(url string) *ClarifaiService {
	return &ClarifaiService{
		apiKey:  "test-key",
		baseURL: url,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestClarifaiClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/models/food-item-recognition/outputs", r.URL.Path)
		require.Equal(t, "Key test-key", r.Header.Get("Authorization"))

		var body struct {
			Inputs []struct {
				Data struct {
					Image struct {
						Base64 string `json:"base64"`
					} `json:"image"`
				} `json:"data"`
			} `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Inputs, 1)
		// data-URI prefix must have been stripped
		require.Equal(t, "Zm9v", body.Inputs[0].Data.Image.Base64)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"outputs":[{"data":{"concepts":[
			{"id":"c1","name":"pizza","value":0.98},
			{"id":"c2","name":"bread","value":0.61}
		]}}]}`))
	}))
	defer srv.Close()

	concepts, err := newTestClarifai(srv.URL).Classify("data:image/jpeg;base64,Zm9v")
	require.NoError(t, err)
	require.Len(t, concepts, 2)
	require.Equal(t, "pizza", concepts[0].Name)
	require.Equal(t, 0.98, concepts[0].Confidence)
}

func TestClarifaiMissingConcepts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outputs":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClarifai(srv.URL).Classify("Zm9v")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no concepts")
}

func TestClarifaiErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":{"description":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := newTestClarifai(srv.URL).Classify("Zm9v")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
