package webapi

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/foztr/removeer/internal/platform/config"
	platformerrors "github.com/foztr/removeer/internal/platform/errors"
	httptransport "github.com/foztr/removeer/internal/transport/http"
	"github.com/foztr/removeer/internal/utils"
)

// Service exposes operational endpoints outside the upload pipeline.
type Service struct {
	logger    *utils.Logger
	config    *config.Config
	startedAt time.Time
}

// NewService creates the operational API service.
func NewService(cfg *config.Config, logger *utils.Logger) (*Service, error) {
	if cfg == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "webapi.new", "config is required")
	}
	if logger == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "webapi.new", "logger is required")
	}

	return &Service{
		logger:    logger,
		config:    cfg,
		startedAt: time.Now(),
	}, nil
}

// Register wires the operational routes onto the API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.GET("/system/status", s.handleSystemStatus)

	s.logger.InfoTag("HTTP", "system routes registered")
	return nil
}

// SystemStatus describes the host and process the server runs on.
type SystemStatus struct {
	Service       string  `json:"service"`
	Mode          string  `json:"mode"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	GoVersion     string  `json:"goVersion"`
	NumGoroutine  int     `json:"numGoroutine"`
	Hostname      string  `json:"hostname,omitempty"`
	Platform      string  `json:"platform,omitempty"`
	MemoryUsedPct float64 `json:"memoryUsedPct,omitempty"`
	StorageDir    string  `json:"storageDir"`
	StorageFreeMB uint64  `json:"storageFreeMb,omitempty"`
}

// handleSystemStatus reports process and host health.
// @Summary System status
// @Description Reports process uptime, host information and storage headroom
// @Tags System
// @Produce json
// @Success 200 {object} SystemStatus
// @Router /system/status [get]
func (s *Service) handleSystemStatus(c *gin.Context) {
	status := SystemStatus{
		Service:       "removeer-backend",
		Mode:          s.config.Server.Mode,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		GoVersion:     runtime.Version(),
		NumGoroutine:  runtime.NumGoroutine(),
		StorageDir:    s.config.Storage.Dir,
	}

	// Host probes are best-effort; a restricted environment just leaves
	// the optional fields empty.
	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
		status.Platform = info.Platform
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryUsedPct = vm.UsedPercent
	}
	if usage, err := disk.Usage(s.config.Storage.Dir); err == nil {
		status.StorageFreeMB = usage.Free / (1 << 20)
	}

	httptransport.RespondSuccess(c, http.StatusOK, status, "")
}
