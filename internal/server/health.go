package server

import (
	"fmt"
	"net/http"
	"time"

	"NutriPulse/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status        string       `json:"status"`
	AI            AIStatus     `json:"ai"`
	Uptime        string       `json:"uptime"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	ServerHealth  ServerHealth `json:"server_health"`
}

// AIStatus reports whether narrative content comes from Gemini or the static tables.
type AIStatus struct {
	Available bool   `json:"available"`
	Model     string `json:"model,omitempty"`
}

// ServerHealth holds host metrics. Fields stay empty when the platform
// cannot report them.
type ServerHealth struct {
	CPULoad  string `json:"cpu_load,omitempty"`
	RAMUsage string `json:"ram_usage,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform,omitempty"`
}

func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.GetLogger(c)

	uptime := time.Since(s.startTime)
	status := HealthStatus{
		Status:        "ok",
		AI:            AIStatus{Available: s.personalizer.Available()},
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
	}
	if status.AI.Available {
		status.AI.Model = s.cfg.GeminiModel
	}

	// Host metrics are best effort and never fail the probe.
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.ServerHealth.RAMUsage = fmt.Sprintf("%.1f%%", v.UsedPercent)
	} else {
		logger.Debug().Err(err).Msg("Memory stats unavailable")
	}

	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		status.ServerHealth.CPULoad = fmt.Sprintf("%.1f%%", cpuPercent[0])
	} else if err != nil {
		logger.Debug().Err(err).Msg("CPU stats unavailable")
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		status.ServerHealth.Hostname = info.Hostname
		status.ServerHealth.Platform = info.Platform
	} else {
		logger.Debug().Err(err).Msg("Host info unavailable")
	}

	return c.JSON(http.StatusOK, status)
}
