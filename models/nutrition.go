package models

// Concept is one ranked label from the classification provider.
type Concept struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Nutrition is the most recent lookup result for a classified food candidate.
// It is replaced wholesale on every re-query, never merged.
type Nutrition struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbs         float64 `json:"carbs"`
	Fat           float64 `json:"fat"`
	ServingQty    float64 `json:"serving_qty"`
	ServingUnit   string  `json:"serving_unit"`
	ServingWeight float64 `json:"serving_weight"` // grams
}
