package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hmorales/fleet-visits/internal/clients"
	"github.com/hmorales/fleet-visits/internal/http/middleware"
	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/service"
	"github.com/hmorales/fleet-visits/internal/sheet"
	"github.com/hmorales/fleet-visits/internal/trip"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	visits *service.VisitService
	log    zerolog.Logger
}

func NewHandler(visits *service.VisitService, log zerolog.Logger) *Handler {
	return &Handler{visits: visits, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", h.health)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/trips/process", h.processTrip)
	protected.POST("/trips/report", h.exportReport)
	protected.POST("/trips/report/pdf", h.exportReportPDF)
	protected.POST("/clients/import", h.importClients)
	protected.GET("/clients", h.listClients)
	protected.GET("/vendors", h.listVendors)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) processTrip(c *gin.Context) {
	input, file, ok := h.bindTripInput(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.visits.ProcessTrip(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vehicle": result.Vehicle,
		"trip":    result.Trip,
	})
}

func (h *Handler) exportReport(c *gin.Context) {
	input, file, ok := h.bindTripInput(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.visits.GenerateReport(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) exportReportPDF(c *gin.Context) {
	input, file, ok := h.bindTripInput(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.visits.GenerateReportPDF(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) importClients(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	result, err := h.visits.ImportMaster(c.Request.Context(), file, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clients": result.Clients,
		"vendors": result.Vendors,
	})
}

func (h *Handler) listClients(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	vendor := strings.TrimSpace(c.Query("vendor"))
	if principal.IsVendor() {
		vendor = principal.Vendor
	}

	list, err := h.visits.ListClients(c.Request.Context(), vendor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}

func (h *Handler) listVendors(c *gin.Context) {
	vendors, err := h.visits.Vendors(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// bindTripInput reads the shared multipart form of the trip endpoints:
// the uploaded file plus mode/date/radius/vendor fields.
func (h *Handler) bindTripInput(c *gin.Context) (service.ProcessTripInput, multipart.File, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return service.ProcessTripInput{}, nil, false
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return service.ProcessTripInput{}, nil, false
	}

	mode, err := parseProcessMode(c.PostForm("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
		return service.ProcessTripInput{}, nil, false
	}

	radius := 0.0
	if raw := strings.TrimSpace(c.PostForm("radius")); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return service.ProcessTripInput{}, nil, false
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return service.ProcessTripInput{}, nil, false
	}

	return service.ProcessTripInput{
		File:      file,
		FileName:  fileHeader.Filename,
		Mode:      mode,
		Date:      strings.TrimSpace(c.PostForm("date")),
		RadiusM:   radius,
		Vendor:    strings.TrimSpace(c.PostForm("vendor")),
		Principal: principal,
	}, file, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoClients):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case isContentError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// isContentError covers everything wrong with the uploaded file itself;
// those messages are shown verbatim to the uploading user.
func isContentError(err error) bool {
	return errors.Is(err, sheet.ErrMissingHeader) ||
		errors.Is(err, sheet.ErrMissingColumn) ||
		errors.Is(err, sheet.ErrWrongFileType) ||
		errors.Is(err, trip.ErrNoValidEvents) ||
		errors.Is(err, trip.ErrNoMovement) ||
		errors.Is(err, trip.ErrNoMarkers) ||
		errors.Is(err, clients.ErrNoClientRows) ||
		errors.Is(err, clients.ErrEmptyClients)
}

func parseProcessMode(raw string) (model.ProcessMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "current":
		return model.ModeCurrent, nil
	case "new":
		return model.ModeNew, nil
	default:
		return "", service.ErrInvalidInput
	}
}
