package webapi

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	httptransport "gameshelf-server-go/internal/transport/http"
)

func (s *Service) handleAnalyticsSummary(c *gin.Context) {
	summary, err := s.analytics.Summary(c.Request.Context())
	if err != nil {
		s.logger.ErrorTag("HTTP", "analytics summary: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to build summary")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, summary, "")
}

// handleAnalyticsSystem reports host level runtime statistics. Individual
// probes failing degrade to absent fields rather than failing the request.
func (s *Service) handleAnalyticsSystem(c *gin.Context) {
	stats := gin.H{
		"goVersion":  runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"timestamp":  time.Now().UTC(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats["cpuPercent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memory"] = gin.H{
			"total":       vm.Total,
			"used":        vm.Used,
			"usedPercent": vm.UsedPercent,
		}
	}
	if info, err := host.Info(); err == nil {
		stats["host"] = gin.H{
			"hostname": info.Hostname,
			"os":       info.OS,
			"platform": info.Platform,
			"uptime":   info.Uptime,
		}
	}

	httptransport.RespondSuccess(c, http.StatusOK, stats, "")
}
