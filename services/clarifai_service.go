package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/7void/nutricam/models"
)

// Classifier turns an image payload into ranked concept labels.
type Classifier interface {
	Classify(base64Img string) ([]models.Concept, error)
}

const clarifaiBaseURL = "https://api.clarifai.com"

// ClarifaiService calls the food-item-recognition model's predict endpoint.
type ClarifaiService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClarifaiService() *ClarifaiService {
	return &ClarifaiService{
		apiKey:  os.Getenv("CLARIFAI_API_KEY"),
		baseURL: clarifaiBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type clarifaiPredictResponse struct {
	Outputs []struct {
		Data struct {
			Concepts []struct {
				ID    string  `json:"id"`
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

func (s *ClarifaiService) Classify(base64Img string) ([]models.Concept, error) {
	// the API wants bare base64, strip a data-URI prefix when present
	if i := strings.Index(base64Img, ","); i >= 0 && strings.HasPrefix(base64Img, "data:") {
		base64Img = base64Img[i+1:]
	}

	payload := map[string]interface{}{
		"user_app_id": map[string]string{"user_id": "clarifai", "app_id": "main"},
		"inputs": []map[string]interface{}{{
			"data": map[string]interface{}{
				"image": map[string]string{"base64": base64Img},
			},
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Clarifai payload: %w", err)
	}

	u := fmt.Sprintf("%s/v2/models/food-item-recognition/outputs", s.baseURL)
	req, err := http.NewRequest("POST", u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create Clarifai request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Clarifai API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Clarifai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clarifai API error %d: %s", resp.StatusCode, string(body))
	}

	var pr clarifaiPredictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Clarifai JSON: %w", err)
	}
	if len(pr.Outputs) == 0 || pr.Outputs[0].Data.Concepts == nil {
		return nil, fmt.Errorf("no concepts returned from Clarifai")
	}

	concepts := make([]models.Concept, 0, len(pr.Outputs[0].Data.Concepts))
	for _, c := range pr.Outputs[0].Data.Concepts {
		concepts = append(concepts, models.Concept{
			ID:         c.ID,
			Name:       c.Name,
			Confidence: c.Value,
		})
	}
	return concepts, nil
}
