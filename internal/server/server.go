/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
nutrition handlers to the shared AI personalizer.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	user "NutriPulse/internal/User"
	"NutriPulse/internal/config"
	"NutriPulse/internal/geminiservice"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	cfg *config.Config

	// personalizer is built once at startup and shared by every request.
	personalizer *geminiservice.Personalizer

	nutrition *user.NutritionHandler

	startTime time.Time
}

func newApp(cfg *config.Config, p *geminiservice.Personalizer) *Server {
	if p == nil {
		p = geminiservice.NewPersonalizer(nil)
	}
	return &Server{
		port:         cfg.Port,
		cfg:          cfg,
		personalizer: p,
		nutrition:    user.NewNutritionHandler(p),
		startTime:    time.Now(),
	}
}

// NewServer initializes a new Server instance and returns a configured *http.Server
// with production-ready network timeouts.
func NewServer(cfg *config.Config, p *geminiservice.Personalizer) *http.Server {
	app := newApp(cfg, p)

	// WriteTimeout has to outlast three concurrent AI calls bounded by GEMINI_TIMEOUT.
	writeTimeout := 30 * time.Second
	if cfg.GeminiTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.GeminiTimeout + 5*time.Second
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,      // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second, // Maximum duration for reading the entire request.
		WriteTimeout: writeTimeout,     // Maximum duration before timing out writes of the response.
	}

	return server
}
