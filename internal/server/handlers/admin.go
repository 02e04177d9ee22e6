package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/skoller/showsync/internal/logger"
)

// AdminHandler exposes host and process diagnostics
type AdminHandler struct {
	startedAt time.Time
}

// NewAdminHandler creates an admin handler
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{startedAt: time.Now()}
}

// GetSystemStatus handles GET /api/admin/system
// Each probe is best-effort; a failing one is logged and reported as
// null rather than failing the whole response.
func (h *AdminHandler) GetSystemStatus(c *gin.Context) {
	status := gin.H{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
	}

	if info, err := host.Info(); err == nil {
		status["host"] = gin.H{
			"hostname": info.Hostname,
			"os":       info.OS,
			"platform": info.Platform,
			"uptime":   info.Uptime,
		}
	} else {
		logger.Warn("Host info probe failed", "error", err)
		status["host"] = nil
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status["memory"] = gin.H{
			"total":        vm.Total,
			"available":    vm.Available,
			"used_percent": vm.UsedPercent,
		}
	} else {
		logger.Warn("Memory probe failed", "error", err)
		status["memory"] = nil
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status["cpu_percent"] = percents[0]
	} else {
		status["cpu_percent"] = nil
	}

	if usage, err := disk.Usage("/"); err == nil {
		status["disk"] = gin.H{
			"total":        usage.Total,
			"free":         usage.Free,
			"used_percent": usage.UsedPercent,
		}
	} else {
		logger.Warn("Disk probe failed", "error", err)
		status["disk"] = nil
	}

	c.JSON(http.StatusOK, status)
}
