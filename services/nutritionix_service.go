package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/7void/nutricam/models"
)

// NutritionLookup resolves a natural-language quantity+food description into
// a macro/calorie estimate with a canonical serving weight.
type NutritionLookup interface {
	Lookup(query string) (*models.Nutrition, error)
}

const nutritionixBaseURL = "https://trackapi.nutritionix.com"

// NutritionixService calls the natural/nutrients endpoint.
type NutritionixService struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

func NewNutritionixService() *NutritionixService {
	return &NutritionixService{
		appID:   os.Getenv("NUTRITIONIX_APP_ID"),
		appKey:  os.Getenv("NUTRITIONIX_API_KEY"),
		baseURL: nutritionixBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nutrientsResponse struct {
	Foods []struct {
		FoodName            string  `json:"food_name"`
		NfCalories          float64 `json:"nf_calories"`
		NfProtein           float64 `json:"nf_protein"`
		NfTotalCarbohydrate float64 `json:"nf_total_carbohydrate"`
		NfTotalFat          float64 `json:"nf_total_fat"`
		ServingQty          float64 `json:"serving_qty"`
		ServingUnit         string  `json:"serving_unit"`
		ServingWeightGrams  float64 `json:"serving_weight_grams"`
	} `json:"foods"`
}

// Lookup returns the first matching food record. Values are passed through
// unrounded; rounding is a display concern.
func (s *NutritionixService) Lookup(query string) (*models.Nutrition, error) {
	b, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrition query: %w", err)
	}

	u := fmt.Sprintf("%s/v2/natural/nutrients", s.baseURL)
	req, err := http.NewRequest("POST", u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", s.appID)
	req.Header.Set("x-app-key", s.appKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Nutritionix API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return nil, fmt.Errorf("nutritionix API error %d: %s", resp.StatusCode, apiErr.Message)
	}

	var nr nutrientsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}
	if len(nr.Foods) == 0 {
		return nil, fmt.Errorf("no nutrition data found")
	}

	f := nr.Foods[0]
	return &models.Nutrition{
		Name:          f.FoodName,
		Calories:      f.NfCalories,
		Protein:       f.NfProtein,
		Carbs:         f.NfTotalCarbohydrate,
		Fat:           f.NfTotalFat,
		ServingQty:    f.ServingQty,
		ServingUnit:   f.ServingUnit,
		ServingWeight: f.ServingWeightGrams,
	}, nil
}
