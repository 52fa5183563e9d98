package geminiservice

import (
	"context"
	"strings"

	"NutriPulse/internal/calculator"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Aspect names used in logs.
const (
	AspectMealPlan        = "meal_plan"
	AspectFoodSuggestions = "food_suggestions"
	AspectWorkoutAdvice   = "workout_advice"
)

// PersonalizedContent is the narrative part of a calculation result.
type PersonalizedContent struct {
	MealPlan        string `json:"meal_plan"`
	FoodSuggestions string `json:"food_suggestions"`
	WorkoutAdvice   string `json:"workout_advice"`
}

// Personalizer decorates numeric targets with AI text, degrading each aspect
// to static content on its own whenever the AI cannot answer.
type Personalizer struct {
	gen Generator
}

// NewPersonalizer returns a Personalizer backed by gen. A nil gen behaves
// like Unavailable.
func NewPersonalizer(gen Generator) *Personalizer {
	if gen == nil {
		gen = Unavailable
	}
	return &Personalizer{gen: gen}
}

// Available reports whether an AI backend is configured.
func (p *Personalizer) Available() bool {
	return p.gen != Unavailable
}

// GenerateMealPlan asks for a JSON-shaped daily meal plan.
func (p *Personalizer) GenerateMealPlan(ctx context.Context, profile calculator.UserProfile, nutrition calculator.Nutrition) string {
	prompt := BuildMealPlanPrompt(profile, nutrition)
	return p.useAI(ctx, AspectMealPlan, prompt, MealPlanSchema, func() string {
		return DefaultMealPlan(profile.HealthGoals)
	})
}

// GenerateFoodSuggestions asks for five foods that suit the goal and
// preferences. It needs no other profile field, so callers may pass targets
// computed elsewhere.
func (p *Personalizer) GenerateFoodSuggestions(ctx context.Context, profile calculator.UserProfile, nutrition calculator.Nutrition) string {
	prompt := BuildFoodSuggestionsPrompt(profile, nutrition)
	return p.useAI(ctx, AspectFoodSuggestions, prompt, nil, func() string {
		return DefaultFoodSuggestions(profile.HealthGoals)
	})
}

// GenerateWorkoutAdvice asks for a weekly workout plan around stepsGoal.
func (p *Personalizer) GenerateWorkoutAdvice(ctx context.Context, profile calculator.UserProfile, stepsGoal int) string {
	prompt := BuildWorkoutAdvicePrompt(profile, stepsGoal)
	return p.useAI(ctx, AspectWorkoutAdvice, prompt, nil, func() string {
		return DefaultWorkoutPlan(profile.HealthGoals)
	})
}

// Personalize produces all three aspects in parallel. An AI call that has been
// issued is not cancelled when the request goes away.
func (p *Personalizer) Personalize(ctx context.Context, profile calculator.UserProfile, targets calculator.NutritionTargets) PersonalizedContent {
	var content PersonalizedContent

	ctx = context.WithoutCancel(ctx)
	nutrition := targets.Nutrition()

	// Each task writes its own field and never fails, so no locking and no
	// error propagation is needed.
	var g errgroup.Group

	g.Go(func() error {
		content.MealPlan = p.GenerateMealPlan(ctx, profile, nutrition)
		return nil
	})

	g.Go(func() error {
		content.FoodSuggestions = p.GenerateFoodSuggestions(ctx, profile, nutrition)
		return nil
	})

	g.Go(func() error {
		content.WorkoutAdvice = p.GenerateWorkoutAdvice(ctx, profile, targets.StepsGoal)
		return nil
	})

	_ = g.Wait()
	return content
}

// useAI makes a single attempt and falls back on any error or blank answer.
func (p *Personalizer) useAI(ctx context.Context, aspect, prompt string, schema *GeminiSchema, fallback func() string) string {
	if !p.Available() {
		return fallback()
	}

	logger := zerolog.Ctx(ctx).With().Str("aspect", aspect).Logger()

	var (
		text string
		err  error
	)
	if sg, ok := p.gen.(StructuredGenerator); ok && schema != nil {
		text, err = sg.GenerateStructured(ctx, prompt, schema)
	} else {
		text, err = p.gen.Generate(ctx, prompt)
	}

	if err != nil {
		logger.Warn().Err(err).Msg("AI generation failed, using static content")
		return fallback()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn().Msg("AI returned an empty response, using static content")
		return fallback()
	}
	return text
}
