package user

import (
	"encoding/json"
	"fmt"
	"net/http"

	"NutriPulse/internal/calculator"
	"NutriPulse/internal/geminiservice"
	"NutriPulse/internal/utility"
	"github.com/labstack/echo/v4"
)

// maxMeasurement caps weight and height so every derived figure still fits in
// an int after rounding.
const maxMeasurement = 1e12

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// CalculateRequest is the raw /calculate payload. Biometrics stay untyped so
// that numeric strings are accepted; text fields are pointers so a missing
// key can be told apart from an empty value.
type CalculateRequest struct {
	Age                any         `json:"age"`
	Weight             any         `json:"weight"`
	Height             any         `json:"height"`
	Gender             *string     `json:"gender"`
	Profession         *string     `json:"profession"`
	Lifestyle          *string     `json:"lifestyle"`
	PhysicalActivities *string     `json:"physical_activities"`
	HealthGoals        *string     `json:"health_goals"`
	FoodPreferences    *string     `json:"food_preferences"`
	ActivityLevel      optionalTag `json:"activity_level"`
}

// CalculateResponse is the combined numeric and narrative result.
type CalculateResponse struct {
	BMR             int                    `json:"bmr"`
	TDEE            int                    `json:"tdee"`
	TargetCalories  int                    `json:"target_calories"`
	Macros          calculator.Macros      `json:"macros"`
	StepsGoal       int                    `json:"steps_goal"`
	MealPlan        string                 `json:"meal_plan"`
	FoodSuggestions string                 `json:"food_suggestions"`
	WorkoutAdvice   string                 `json:"workout_advice"`
	UserData        calculator.UserProfile `json:"user_data"`
}

// SuggestionProfile is the part of user_data the food suggestions need.
type SuggestionProfile struct {
	HealthGoals     *string `json:"health_goals"`
	FoodPreferences *string `json:"food_preferences"`
}

// SmartSuggestionsRequest carries targets computed by an earlier /calculate.
type SmartSuggestionsRequest struct {
	UserData         SuggestionProfile `json:"user_data"`
	CurrentNutrition map[string]any    `json:"current_nutrition"`
}

// optionalTag tells an absent key from an explicit value. An explicit null is
// present with an empty Value, which no lookup table knows.
type optionalTag struct {
	Present bool
	Value   string
}

func (t *optionalTag) UnmarshalJSON(data []byte) error {
	t.Present = true
	if string(data) == "null" {
		t.Value = ""
		return nil
	}
	return json.Unmarshal(data, &t.Value)
}

// SmartSuggestionsResponse wraps the regenerated food suggestions.
type SmartSuggestionsResponse struct {
	Suggestions string `json:"suggestions"`
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// NutritionHandler serves the calculation endpoints.
type NutritionHandler struct {
	personalizer *geminiservice.Personalizer
}

// NewNutritionHandler wires the handlers to a Personalizer.
func NewNutritionHandler(p *geminiservice.Personalizer) *NutritionHandler {
	return &NutritionHandler{personalizer: p}
}

// CalculateHandler orchestrates: Validation -> Calculation -> Personalization -> Response.
func (h *NutritionHandler) CalculateHandler(c echo.Context) error {
	logger := utility.GetLogger(c)

	// 1. Parse and Validate Request Body
	var req CalculateRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind calculate request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	profile, err := req.toProfile()
	if err != nil {
		logger.Info().Err(err).Msg("Rejected calculate request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logger.Info().
		Str("goal", profile.HealthGoals).
		Str("activity_level", profile.ActivityLevel).
		Msg("Processing calculation request")

	// 2. Numeric targets
	targets := calculator.Compute(profile)

	// 3. Narrative content (never fails, degrades per aspect)
	content := h.personalizer.Personalize(c.Request().Context(), profile, targets)

	// 4. Build and Return Response
	return c.JSON(http.StatusOK, CalculateResponse{
		BMR:             calculator.Round(targets.BMR),
		TDEE:            calculator.Round(targets.TDEE),
		TargetCalories:  targets.TargetCalories,
		Macros:          targets.Macros,
		StepsGoal:       targets.StepsGoal,
		MealPlan:        content.MealPlan,
		FoodSuggestions: content.FoodSuggestions,
		WorkoutAdvice:   content.WorkoutAdvice,
		UserData:        profile,
	})
}

// SmartSuggestionsHandler regenerates food suggestions for targets the client
// already has, without recomputing them.
func (h *NutritionHandler) SmartSuggestionsHandler(c echo.Context) error {
	logger := utility.GetLogger(c)

	var req SmartSuggestionsRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind smart suggestions request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.UserData.HealthGoals == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required field: user_data.health_goals"})
	}
	if req.UserData.FoodPreferences == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required field: user_data.food_preferences"})
	}

	nutrition, err := parseNutrition(req.CurrentNutrition)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	profile := calculator.UserProfile{
		HealthGoals:     *req.UserData.HealthGoals,
		FoodPreferences: *req.UserData.FoodPreferences,
	}

	logger.Info().Str("goal", profile.HealthGoals).Msg("Regenerating food suggestions")

	suggestions := h.personalizer.GenerateFoodSuggestions(c.Request().Context(), profile, nutrition)
	return c.JSON(http.StatusOK, SmartSuggestionsResponse{Suggestions: suggestions})
}

/*=================================================================================
								HELPER FUNCTIONS
=================================================================================*/

// toProfile coerces and validates the raw request. The first problem found is
// returned; nothing is computed from a partially valid request.
func (r CalculateRequest) toProfile() (calculator.UserProfile, error) {
	var p calculator.UserProfile

	age, err := requiredInt("age", r.Age)
	if err != nil {
		return p, err
	}
	weight, err := requiredFloat("weight", r.Weight)
	if err != nil {
		return p, err
	}
	height, err := requiredFloat("height", r.Height)
	if err != nil {
		return p, err
	}

	texts := []struct {
		name  string
		value *string
		dst   *string
	}{
		{"gender", r.Gender, &p.Gender},
		{"profession", r.Profession, &p.Profession},
		{"lifestyle", r.Lifestyle, &p.Lifestyle},
		{"physical_activities", r.PhysicalActivities, &p.PhysicalActivities},
		{"health_goals", r.HealthGoals, &p.HealthGoals},
		{"food_preferences", r.FoodPreferences, &p.FoodPreferences},
	}
	for _, field := range texts {
		if field.value == nil {
			return p, fmt.Errorf("missing required field: %s", field.name)
		}
		*field.dst = *field.value
	}

	p.Age = age
	p.Weight = weight
	p.Height = height

	p.ActivityLevel = calculator.DefaultActivityLevel
	if r.ActivityLevel.Present {
		p.ActivityLevel = r.ActivityLevel.Value
	}

	return p, nil
}

func requiredInt(name string, v any) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("missing required field: %s", name)
	}
	n, err := utility.ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be greater than zero", name)
	}
	return n, nil
}

func requiredFloat(name string, v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("missing required field: %s", name)
	}
	f, err := utility.ToFloat(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be greater than zero", name)
	}
	if f > maxMeasurement {
		return 0, fmt.Errorf("invalid %s: must not exceed %g", name, maxMeasurement)
	}
	return f, nil
}

// parseNutrition reads current_nutrition. Absent keys stay zero.
func parseNutrition(raw map[string]any) (calculator.Nutrition, error) {
	var n calculator.Nutrition

	fields := []struct {
		key string
		dst *int
	}{
		{"calories", &n.Calories},
		{"protein", &n.Protein},
		{"carbs", &n.Carbs},
		{"fats", &n.Fats},
		{"fiber", &n.Fiber},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		value, err := utility.ToInt(v)
		if err != nil {
			return n, fmt.Errorf("invalid current_nutrition.%s: %w", f.key, err)
		}
		*f.dst = value
	}
	return n, nil
}
