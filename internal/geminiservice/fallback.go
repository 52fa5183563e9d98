package geminiservice

import (
	"encoding/json"

	"NutriPulse/internal/calculator"
)

/* =================================================================================
								STATIC FALLBACK CONTENT
	Served whenever the AI cannot answer. Only the goals listed in each table have
	bespoke entries; every other goal gets the weight_loss entry. Keep the tables
	narrow rather than inventing content for the remaining goals.
=================================================================================*/

// MealPlan is a single day of meals keyed by slot.
type MealPlan struct {
	Breakfast string `json:"breakfast"`
	Snack1    string `json:"snack1"`
	Lunch     string `json:"lunch"`
	Snack2    string `json:"snack2"`
	Dinner    string `json:"dinner"`
}

var fallbackMealPlans = map[string]MealPlan{
	calculator.GoalWeightLoss: {
		Breakfast: "Greek yogurt with berries and nuts",
		Snack1:    "Apple with almond butter",
		Lunch:     "Grilled chicken salad with olive oil dressing",
		Snack2:    "Handful of mixed nuts",
		Dinner:    "Baked salmon with roasted vegetables",
	},
	calculator.GoalMuscleGain: {
		Breakfast: "Protein smoothie with banana and oats",
		Snack1:    "Protein bar",
		Lunch:     "Chicken breast with quinoa and vegetables",
		Snack2:    "Greek yogurt with granola",
		Dinner:    "Lean beef with sweet potato",
	},
}

var fallbackFoodSuggestions = map[string][]string{
	calculator.GoalWeightLoss:  {"Leafy greens", "Lean proteins", "Berries", "Nuts", "Green tea"},
	calculator.GoalMuscleGain:  {"Protein powder", "Eggs", "Quinoa", "Avocado", "Tuna"},
	calculator.GoalHeartHealth: {"Salmon", "Oats", "Blueberries", "Olive oil", "Dark chocolate"},
}

var fallbackWorkoutPlans = map[string]string{
	calculator.GoalWeightLoss:  "Focus on cardio: 30min daily walking, 3x/week strength training",
	calculator.GoalMuscleGain:  "Strength training 4x/week, moderate cardio 2x/week",
	calculator.GoalHeartHealth: "Aerobic exercise 150min/week, strength training 2x/week",
}

// DefaultMealPlan returns the static meal plan for a goal as a JSON object.
func DefaultMealPlan(goal string) string {
	plan, ok := fallbackMealPlans[goal]
	if !ok {
		plan = fallbackMealPlans[calculator.GoalWeightLoss]
	}
	return mustJSON(plan)
}

// DefaultFoodSuggestions returns the static food list for a goal as a JSON array.
func DefaultFoodSuggestions(goal string) string {
	foods, ok := fallbackFoodSuggestions[goal]
	if !ok {
		foods = fallbackFoodSuggestions[calculator.GoalWeightLoss]
	}
	return mustJSON(foods)
}

// DefaultWorkoutPlan returns the static workout advice for a goal.
func DefaultWorkoutPlan(goal string) string {
	plan, ok := fallbackWorkoutPlans[goal]
	if !ok {
		return fallbackWorkoutPlans[calculator.GoalWeightLoss]
	}
	return plan
}

// mustJSON only sees the static values above, which always marshal.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
