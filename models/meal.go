package models

import "time"

// One logged meal. The ID is generated client-side (timestamp based) and is
// stable across the remote store and the local cache mirror.
type Meal struct {
	ID       string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID   uint       `gorm:"index;not null" json:"-"`
	Name     string     `json:"name"`
	Date     string     `gorm:"type:varchar(10);index" json:"date"` // ISO YYYY-MM-DD
	Time     string     `json:"time"`                               // free-text display label
	LoggedAt time.Time  `gorm:"index" json:"-"`                     // creation timestamp, newest-first ordering
	Items    []MealItem `gorm:"foreignKey:MealID" json:"items"`
}

// Each MealItem stores one food item's nutrition snapshot at logging time.
// Position preserves insertion order; there is no other ordering.
type MealItem struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	MealID   string  `gorm:"type:varchar(64);index;not null" json:"-"`
	Position int     `gorm:"not null" json:"-"`
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodItem is the wire/cache shape of a meal item.
type FoodItem struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodItems flattens the item rows in slice order (rows are loaded sorted by
// position).
func (m *Meal) FoodItems() []FoodItem {
	out := make([]FoodItem, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, FoodItem{
			Name:     it.Name,
			Grams:    it.Grams,
			Calories: it.Calories,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fat:      it.Fat,
		})
	}
	return out
}

// SetFoodItems replaces the item rows, assigning positions from slice order.
func (m *Meal) SetFoodItems(items []FoodItem) {
	rows := make([]MealItem, 0, len(items))
	for i, it := range items {
		rows = append(rows, MealItem{
			MealID:   m.ID,
			Position: i,
			Name:     it.Name,
			Grams:    it.Grams,
			Calories: it.Calories,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fat:      it.Fat,
		})
	}
	m.Items = rows
}

// AppendFoodItem adds a single item at the end, keeping positions dense.
func (m *Meal) AppendFoodItem(it FoodItem) {
	m.Items = append(m.Items, MealItem{
		MealID:   m.ID,
		Position: len(m.Items),
		Name:     it.Name,
		Grams:    it.Grams,
		Calories: it.Calories,
		Protein:  it.Protein,
		Carbs:    it.Carbs,
		Fat:      it.Fat,
	})
}
