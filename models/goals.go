package models

// Goals holds the daily nutrient targets the progress rings divide by.
// Goals are local-only: they live in the cache, never in the remote store.
type Goals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultGoals are used until the user saves their own targets.
func DefaultGoals() Goals {
	return Goals{
		Calories: 2000,
		Protein:  100,
		Carbs:    250,
		Fat:      70,
	}
}
