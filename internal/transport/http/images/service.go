package images

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foztr/removeer/internal/domain/upload"
	"github.com/foztr/removeer/internal/platform/config"
	platformerrors "github.com/foztr/removeer/internal/platform/errors"
	httptransport "github.com/foztr/removeer/internal/transport/http"
	"github.com/foztr/removeer/internal/utils"
)

// Service is the HTTP transport for the upload pipeline.
type Service struct {
	logger       *utils.Logger
	config       *config.Config
	orchestrator Orchestrator
}

// Orchestrator is the subset of the upload domain the transport needs.
type Orchestrator interface {
	Handle(ctx context.Context, req *upload.Request) (*upload.Result, error)
}

// NewService creates the images HTTP service.
func NewService(
	cfg *config.Config,
	logger *utils.Logger,
	orchestrator Orchestrator,
) (*Service, error) {
	if cfg == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "images.new", "config is required")
	}
	if logger == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "images.new", "logger is required")
	}
	if orchestrator == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "images.new", "orchestrator is required")
	}

	return &Service{
		logger:       logger,
		config:       cfg,
		orchestrator: orchestrator,
	}, nil
}

// Register wires the image routes onto the API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/images/upload", s.handleUpload)
	router.GET("/images/status", s.handleStatus)

	s.logger.InfoTag("HTTP", "image routes registered")
	return nil
}

// handleStatus reports pipeline readiness.
// @Summary Pipeline status
// @Description Reports whether the upload pipeline is ready and which inference endpoint is configured
// @Tags Images
// @Produce json
// @Success 200 {object} StatusData
// @Router /images/status [get]
func (s *Service) handleStatus(c *gin.Context) {
	httptransport.RespondSuccess(c, http.StatusOK, StatusData{
		Status:       "healthy",
		Service:      "removeer-backend",
		InferenceURL: s.config.ML.BaseURL,
	}, "")
}

// handleUpload accepts one multipart image, removes its background via the
// inference service and returns the stored artifact's URL.
// @Summary Upload an image for background removal
// @Description Accepts a single multipart file field "image" and returns a URL for the processed result
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "image file"
// @Success 200 {object} upload.Result
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /images/upload [post]
func (s *Service) handleUpload(c *gin.Context) {
	// A missing or unreadable file field yields a nil request, which the
	// orchestrator rejects as NoFileProvided.
	var req *upload.Request
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		req = &upload.Request{
			Reader:         file,
			Filename:       header.Filename,
			DeclaredFormat: formatFromFilename(header.Filename),
			Size:           header.Size,
		}
	}

	result, err := s.orchestrator.Handle(c.Request.Context(), req)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Service) respondPipelineError(c *gin.Context, err error) {
	var details string
	if !s.config.IsProduction() {
		details = diagnosticDetail(err)
	}

	switch {
	case errors.Is(err, upload.ErrNoFileProvided):
		s.logger.Warn("upload rejected: no file field present")
		httptransport.RespondError(c, http.StatusBadRequest, "No image file provided", "")
	case platformerrors.IsKind(err, platformerrors.KindValidation):
		s.logger.Warn("upload rejected: %v", err)
		httptransport.RespondError(c, http.StatusBadRequest, "Invalid image upload", details)
	case platformerrors.IsKind(err, platformerrors.KindInference):
		s.logger.ErrorTag("ML", "inference failed: %v", err)
		if details != "" {
			details = "ML Service error: " + details
		}
		httptransport.RespondError(c, http.StatusInternalServerError, "Upload failed", details)
	case platformerrors.IsKind(err, platformerrors.KindStorage):
		s.logger.ErrorTag("STORE", "artifact write failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Upload failed", details)
	default:
		s.logger.Error("upload failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Upload failed", details)
	}
}

// diagnosticDetail surfaces the underlying cause without the platform
// error's kind/op framing.
func diagnosticDetail(err error) string {
	var typed *platformerrors.Error
	if errors.As(err, &typed) && typed.Cause != nil {
		return typed.Cause.Error()
	}
	return err.Error()
}

func formatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	}
	return "jpeg"
}
