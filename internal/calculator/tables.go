package calculator

import (
	"fmt"
	"math"
)

/* =================================================================================
							GOAL & ACTIVITY LOOKUP TABLES
	Every goal/activity dependent number lives here. Unknown keys never fail,
	they resolve to the documented default of each table.
=================================================================================*/

// Health goal tags accepted in UserProfile.HealthGoals.
const (
	GoalWeightLoss       = "weight_loss"
	GoalFatLoss          = "fat_loss"
	GoalMuscleGain       = "muscle_gain"
	GoalGeneralWellness  = "general_wellness"
	GoalDiabeticFriendly = "diabetic_friendly"
	GoalHeartHealth      = "heart_health"
)

// Activity level tags accepted in UserProfile.ActivityLevel.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtremelyActive  = "extremely_active"
)

// DefaultActivityLevel is used when a request omits activity_level.
const DefaultActivityLevel = ActivityModeratelyActive

const (
	defaultActivityMultiplier = 1.2
	defaultBaseSteps          = 10000
	defaultGoalModifier       = 1.0
	defaultGoalAdjustment     = 0.0
	defaultMacroGoal          = GoalGeneralWellness
)

// MacroRatio is the share of daily calories assigned to each macronutrient.
type MacroRatio struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Sum returns the total share covered by the ratio.
func (r MacroRatio) Sum() float64 {
	return r.Protein + r.Carbs + r.Fats
}

var activityMultipliers = map[string]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

var macroRatios = mustMacroRatios(map[string]MacroRatio{
	GoalWeightLoss:       {Protein: 0.35, Carbs: 0.30, Fats: 0.35},
	GoalMuscleGain:       {Protein: 0.30, Carbs: 0.45, Fats: 0.25},
	GoalFatLoss:          {Protein: 0.40, Carbs: 0.25, Fats: 0.35},
	GoalGeneralWellness:  {Protein: 0.25, Carbs: 0.45, Fats: 0.30},
	GoalDiabeticFriendly: {Protein: 0.25, Carbs: 0.35, Fats: 0.40},
	GoalHeartHealth:      {Protein: 0.25, Carbs: 0.50, Fats: 0.25},
})

var baseSteps = map[string]int{
	ActivitySedentary:        8000,
	ActivityLightlyActive:    10000,
	ActivityModeratelyActive: 12000,
	ActivityVeryActive:       15000,
	ActivityExtremelyActive:  18000,
}

var goalModifiers = map[string]float64{
	GoalWeightLoss:       1.3,
	GoalFatLoss:          1.4,
	GoalMuscleGain:       1.1,
	GoalGeneralWellness:  1.0,
	GoalDiabeticFriendly: 1.2,
	GoalHeartHealth:      1.25,
}

// goalAdjustments shifts TDEE (kcal) into the daily calorie target.
var goalAdjustments = map[string]float64{
	GoalWeightLoss:       -500,
	GoalFatLoss:          -300,
	GoalMuscleGain:       300,
	GoalGeneralWellness:  0,
	GoalDiabeticFriendly: -200,
	GoalHeartHealth:      0,
}

// mustMacroRatios panics when a row does not split the calories exactly once.
func mustMacroRatios(table map[string]MacroRatio) map[string]MacroRatio {
	if _, ok := table[defaultMacroGoal]; !ok {
		panic(fmt.Sprintf("calculator: macro table is missing default goal %q", defaultMacroGoal))
	}
	for goal, ratio := range table {
		if math.Abs(ratio.Sum()-1.0) > 1e-9 {
			panic(fmt.Sprintf("calculator: macro ratios for %q sum to %.4f, want 1.0", goal, ratio.Sum()))
		}
	}
	return table
}

// ActivityMultipliers returns a copy of the TDEE multiplier table.
func ActivityMultipliers() map[string]float64 { return copyTable(activityMultipliers) }

// MacroRatios returns a copy of the per-goal macro ratio table.
func MacroRatios() map[string]MacroRatio { return copyTable(macroRatios) }

// BaseSteps returns a copy of the per-activity base step table.
func BaseSteps() map[string]int { return copyTable(baseSteps) }

// GoalModifiers returns a copy of the per-goal step multiplier table.
func GoalModifiers() map[string]float64 { return copyTable(goalModifiers) }

// GoalAdjustments returns a copy of the per-goal calorie adjustment table.
func GoalAdjustments() map[string]float64 { return copyTable(goalAdjustments) }

func copyTable[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
