package geminiservice

import (
	"fmt"
	"strconv"

	"NutriPulse/internal/calculator"
)

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	Tells Gemini how to shape a JSON answer when a structured response is wanted
=================================================================================*/

// GeminiSchema defines the structure for "Controlled Generation" (Structured Output).
type GeminiSchema struct {
	// Type defines the data type (e.g., "OBJECT", "ARRAY", "STRING", "INTEGER").
	Type string `json:"type"`

	// Description explains the field's purpose to the AI.
	Description string `json:"description,omitempty"`

	// Properties maps field names to their child schemas (used when Type is "OBJECT").
	Properties map[string]*GeminiSchema `json:"properties,omitempty"`

	// Items defines the schema for elements within an array (used when Type is "ARRAY").
	Items *GeminiSchema `json:"items,omitempty"`

	// Required lists the field names that the AI MUST include in the response.
	Required []string `json:"required,omitempty"`

	// PropertyOrdering keeps the meal slots in day order.
	PropertyOrdering []string `json:"propertyOrdering,omitempty"`
}

// MealSlots are the keys of a meal plan, in the order they are eaten.
var MealSlots = []string{"breakfast", "snack1", "lunch", "snack2", "dinner"}

// MealPlanSchema describes the JSON object requested for a daily meal plan.
var MealPlanSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"breakfast": {Type: "STRING", Description: "Breakfast items with portions"},
		"snack1":    {Type: "STRING", Description: "Mid-morning snack items with portions"},
		"lunch":     {Type: "STRING", Description: "Lunch items with portions"},
		"snack2":    {Type: "STRING", Description: "Afternoon snack items with portions"},
		"dinner":    {Type: "STRING", Description: "Dinner items with portions"},
	},
	Required:         MealSlots,
	PropertyOrdering: MealSlots,
}

/* =================================================================================
								PROMPT TEMPLATES
=================================================================================*/

// MealPlanPromptTemplate takes, in order: age, gender, height, weight,
// profession, lifestyle, physical activities, goal, food preferences and the
// nutrition summary.
const MealPlanPromptTemplate = `
Create a personalized daily meal plan for a %d-year-old %s
who is %scm tall, weighs %skg, works as a %s,
has a %s lifestyle, and engages in %s.
Goal: %s
Food Preferences: %s
Nutritional Requirements (kcal/g): %s
Output JSON with keys: breakfast, snack1, lunch, snack2, dinner. Each value should include items and portions.
`

// FoodSuggestionsPromptTemplate takes goal, food preferences and the current
// target intake.
const FoodSuggestionsPromptTemplate = `
Suggest 5 smart foods for goal %s honoring preferences: %s.
Current target intake: %s. Explain why each food helps.
`

// WorkoutAdvicePromptTemplate takes age, gender, physical activities,
// lifestyle, goal and the daily steps target.
const WorkoutAdvicePromptTemplate = `
Build a weekly workout plan for a %d-year-old %s with activities %s, lifestyle %s, goal %s. Include daily steps target %d, sets/reps/mins, recovery tips.
`

// BuildMealPlanPrompt fills MealPlanPromptTemplate for a profile.
func BuildMealPlanPrompt(p calculator.UserProfile, n calculator.Nutrition) string {
	return fmt.Sprintf(
		MealPlanPromptTemplate,
		p.Age,
		p.Gender,
		formatMeasure(p.Height),
		formatMeasure(p.Weight),
		p.Profession,
		p.Lifestyle,
		p.PhysicalActivities,
		p.HealthGoals,
		p.FoodPreferences,
		FormatNutrition(n),
	)
}

// BuildFoodSuggestionsPrompt fills FoodSuggestionsPromptTemplate.
func BuildFoodSuggestionsPrompt(p calculator.UserProfile, n calculator.Nutrition) string {
	return fmt.Sprintf(FoodSuggestionsPromptTemplate, p.HealthGoals, p.FoodPreferences, FormatNutrition(n))
}

// BuildWorkoutAdvicePrompt fills WorkoutAdvicePromptTemplate.
func BuildWorkoutAdvicePrompt(p calculator.UserProfile, stepsGoal int) string {
	return fmt.Sprintf(
		WorkoutAdvicePromptTemplate,
		p.Age,
		p.Gender,
		p.PhysicalActivities,
		p.Lifestyle,
		p.HealthGoals,
		stepsGoal,
	)
}

// FormatNutrition renders an intake target for the prompt context. Fiber is
// left out when it is unknown (zero).
func FormatNutrition(n calculator.Nutrition) string {
	s := fmt.Sprintf("Calories %d, Protein %d, Carbs %d, Fats %d", n.Calories, n.Protein, n.Carbs, n.Fats)
	if n.Fiber > 0 {
		s += fmt.Sprintf(", Fiber %d", n.Fiber)
	}
	return s
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
