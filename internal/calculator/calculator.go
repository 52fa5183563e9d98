/*
Package calculator derives daily nutrition and activity targets from a user's
biometrics and goals. Everything here is pure: no I/O, no logging, no errors.
Unknown goal or activity tags fall back to each table's default.
*/
package calculator

import (
	"math"
	"strings"
)

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0

	// fiberPer1000Kcal is grams of fiber recommended per 1000 kcal eaten.
	fiberPer1000Kcal = 14.0
)

// UserProfile is the coerced request input for a single calculation.
type UserProfile struct {
	Age                int     `json:"age"`
	Weight             float64 `json:"weight"`
	Height             float64 `json:"height"`
	Gender             string  `json:"gender"`
	Profession         string  `json:"profession"`
	Lifestyle          string  `json:"lifestyle"`
	PhysicalActivities string  `json:"physical_activities"`
	HealthGoals        string  `json:"health_goals"`
	FoodPreferences    string  `json:"food_preferences"`
	ActivityLevel      string  `json:"-"`
}

// Macros holds target grams per macronutrient.
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
	Fiber   int `json:"fiber"`
}

// NutritionTargets is everything Compute derives for one profile.
type NutritionTargets struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
	Macros         Macros  `json:"macros"`
	StepsGoal      int     `json:"steps_goal"`
}

// Nutrition is the daily intake target handed to the personalizer.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
	Fiber    int `json:"fiber"`
}

// Nutrition flattens the calorie target and macros into a Nutrition value.
func (t NutritionTargets) Nutrition() Nutrition {
	return Nutrition{
		Calories: t.TargetCalories,
		Protein:  t.Macros.Protein,
		Carbs:    t.Macros.Carbs,
		Fats:     t.Macros.Fats,
		Fiber:    t.Macros.Fiber,
	}
}

// CalculateBMR estimates resting energy expenditure with the Mifflin-St Jeor
// equation. Only a case-insensitive "male" takes the male branch; any other
// value uses the female constant.
func CalculateBMR(weight, height float64, age int, gender string) float64 {
	bmr := 10*weight + 6.25*height - 5*float64(age)
	if strings.EqualFold(gender, "male") {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE scales BMR by the activity multiplier (sedentary when unknown).
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	multiplier, ok := activityMultipliers[activityLevel]
	if !ok {
		multiplier = defaultActivityMultiplier
	}
	return bmr * multiplier
}

// GoalAdjustment returns the kcal added to TDEE for a goal (0 when unknown).
func GoalAdjustment(goal string) float64 {
	adjustment, ok := goalAdjustments[goal]
	if !ok {
		return defaultGoalAdjustment
	}
	return adjustment
}

// CalculateMacros splits a calorie target into grams using the goal's ratios.
// Unknown goals use the general_wellness split. Fiber ignores the goal.
func CalculateMacros(calories float64, goal string) Macros {
	ratio, ok := macroRatios[goal]
	if !ok {
		ratio = macroRatios[defaultMacroGoal]
	}

	return Macros{
		Protein: Round(calories * ratio.Protein / kcalPerGramProtein),
		Carbs:   Round(calories * ratio.Carbs / kcalPerGramCarbs),
		Fats:    Round(calories * ratio.Fats / kcalPerGramFat),
		Fiber:   Round(fiberPer1000Kcal * calories / 1000),
	}
}

// CalculateSteps recommends a daily step count for a goal and activity level.
func CalculateSteps(goal, activityLevel string) int {
	base, ok := baseSteps[activityLevel]
	if !ok {
		base = defaultBaseSteps
	}
	modifier, ok := goalModifiers[goal]
	if !ok {
		modifier = defaultGoalModifier
	}
	return Round(float64(base) * modifier)
}

// Compute runs the full pipeline for one profile. Macros are split from the
// unrounded calorie target; TargetCalories is that same value rounded.
// ActivityLevel is used as given, so callers apply DefaultActivityLevel.
func Compute(p UserProfile) NutritionTargets {
	bmr := CalculateBMR(p.Weight, p.Height, p.Age, p.Gender)
	tdee := CalculateTDEE(bmr, p.ActivityLevel)
	calories := tdee + GoalAdjustment(p.HealthGoals)

	return NutritionTargets{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: Round(calories),
		Macros:         CalculateMacros(calories, p.HealthGoals),
		StepsGoal:      CalculateSteps(p.HealthGoals, p.ActivityLevel),
	}
}

// Round is the rounding used for every reported figure: half-to-even, so
// x.5 targets do not drift upward.
func Round(v float64) int {
	return int(math.RoundToEven(v))
}
