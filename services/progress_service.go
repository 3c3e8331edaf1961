// services/progress_service.go
package services

// MacroTotals sums the item macros of all meals on one calendar date.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RingProgress is one progress ring: consumed vs. goal with the ratio
// clamped to 1.
type RingProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

// DailyProgress is the full ring set for one date.
type DailyProgress struct {
	Date     string       `json:"date"`
	Calories RingProgress `json:"calories"`
	Protein  RingProgress `json:"protein"`
	Carbs    RingProgress `json:"carbs"`
	Fat      RingProgress `json:"fat"`
}

type ProgressService struct {
	meals *SyncService
}

func NewProgressService(meals *SyncService) *ProgressService {
	return &ProgressService{meals: meals}
}

// TotalsForDate filters the meal list to one date and sums item macros.
func (s *ProgressService) TotalsForDate(userID uint, date string) MacroTotals {
	var t MacroTotals
	for _, m := range s.meals.Meals(userID) {
		if m.Date != date {
			continue
		}
		for _, it := range m.Items {
			t.Calories += it.Calories
			t.Protein += it.Protein
			t.Carbs += it.Carbs
			t.Fat += it.Fat
		}
	}
	return t
}

func pct(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := consumed / target
	if p > 1 {
		return 1
	}
	return p
}

// ProgressForDate computes the ring set against the user's goals.
func (s *ProgressService) ProgressForDate(userID uint, date string) DailyProgress {
	t := s.TotalsForDate(userID, date)
	g := s.meals.Goals(userID)
	return DailyProgress{
		Date:     date,
		Calories: RingProgress{Consumed: t.Calories, Goal: g.Calories, Percent: pct(t.Calories, g.Calories)},
		Protein:  RingProgress{Consumed: t.Protein, Goal: g.Protein, Percent: pct(t.Protein, g.Protein)},
		Carbs:    RingProgress{Consumed: t.Carbs, Goal: g.Carbs, Percent: pct(t.Carbs, g.Carbs)},
		Fat:      RingProgress{Consumed: t.Fat, Goal: g.Fat, Percent: pct(t.Fat, g.Fat)},
	}
}
