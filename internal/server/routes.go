package server

import (
	"html/template"
	"io"
	"net/http"
	"time"

	"NutriPulse/internal/calculator"
	"NutriPulse/internal/utility"
	"NutriPulse/web"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	// Use ExecuteTemplate to select the correct template by name
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true

	// X-Forwarded-For is believed only from loopback and private-network proxies.
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	e.Use(middleware.Recover())
	e.Use(LoggerMiddleware)
	e.Use(requestLogger())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:       300,
	}))

	e.StaticFS("/static", echo.MustSubFS(web.Public, "public"))

	renderer := &TemplateRenderer{
		templates: template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}
	e.Renderer = renderer

	// Web page and service status
	e.GET("/", s.renderIndexHandler)
	e.GET("/health", s.healthHandler)

	// Nutrition routes, rate limited per client IP
	api := e.Group("")
	if limiter := s.rateLimiter(); limiter != nil {
		api.Use(limiter)
	}
	api.POST("/calculate", s.nutrition.CalculateHandler)
	api.POST("/smart_suggestions", s.nutrition.SmartSuggestionsHandler)

	return e
}

// LoggerMiddleware attaches a request scoped logger carrying the request id to
// both the Echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := utility.GetLogger(c)

			event := logger.Info()
			if v.Error != nil {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter returns nil when RATE_LIMIT_RPS disables limiting.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	if s.cfg.RateLimitRPS <= 0 {
		return nil
	}

	burst := s.cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.cfg.RateLimitRPS),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return utility.GetRealIP(c), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			zerolog.Ctx(c.Request().Context()).Warn().Str("client_ip", identifier).Msg("Rate limit exceeded")
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests, slow down"})
		},
	})
}

/* ====================================================================
                   		Web Page Handler
==================================================================== */

type indexPage struct {
	Title           string
	AIEnabled       bool
	Model           string
	Goals           []string
	ActivityLevels  []string
	DefaultActivity string
}

// renderIndexHandler serves the calculator form.
func (s *Server) renderIndexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", indexPage{
		Title:     "NutriPulse",
		AIEnabled: s.personalizer.Available(),
		Model:     s.cfg.GeminiModel,
		Goals: []string{
			calculator.GoalWeightLoss,
			calculator.GoalFatLoss,
			calculator.GoalMuscleGain,
			calculator.GoalGeneralWellness,
			calculator.GoalDiabeticFriendly,
			calculator.GoalHeartHealth,
		},
		ActivityLevels: []string{
			calculator.ActivitySedentary,
			calculator.ActivityLightlyActive,
			calculator.ActivityModeratelyActive,
			calculator.ActivityVeryActive,
			calculator.ActivityExtremelyActive,
		},
		DefaultActivity: calculator.DefaultActivityLevel,
	})
}
