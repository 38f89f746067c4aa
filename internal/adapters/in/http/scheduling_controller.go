package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/in"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

type SchedulingController struct {
	useCase in.SchedulingUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewSchedulingController(useCase in.SchedulingUseCase, cfg *config.Config, logger out.LoggerPort) *SchedulingController {
	return &SchedulingController{
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *SchedulingController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/profiles/:profileId/availability", c.getAvailability)
		api.GET("/profiles/:profileId/slots", c.getDaySlots)
		api.POST("/bookings", c.createBooking)
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func (c *SchedulingController) getAvailability(ctx *gin.Context) {
	profileID := ctx.Param("profileId")

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(ctx.Query("month"))
	if err != nil || month < 1 || month > 12 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	dates, err := c.useCase.GetFullyBookedDates(ctx.Request.Context(), profileID, year, time.Month(month))
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profileId":        profileID,
		"fullyBookedDates": dates,
	})
}

func (c *SchedulingController) getDaySlots(ctx *gin.Context) {
	profileID := ctx.Param("profileId")

	date, err := domain.ParseCivilDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	serviceType := domain.ServiceType(ctx.Query("serviceType"))

	slots, err := c.useCase.ComputeDaySlots(ctx.Request.Context(), profileID, date, serviceType)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profileId": profileID,
		"date":      date,
		"slots":     slots,
	})
}

type createBookingRequest struct {
	ProfileID   string `json:"profileId" binding:"required"`
	ProviderID  string `json:"providerId"`
	ServiceType string `json:"serviceType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

func (c *SchedulingController) createBooking(ctx *gin.Context) {
	var req createBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := domain.NewBookingDraft(req.ProfileID, req.ProviderID)
	draft.ServiceType = domain.ServiceType(req.ServiceType)
	draft.Time = req.Time
	draft.Location = req.Location
	draft.Notes = req.Notes

	// Пустая дата остается nil: отправка отклонит такой черновик сама
	if req.Date != "" {
		date, err := domain.ParseCivilDate(req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
		draft.Date = &date
	}

	booking, err := c.useCase.Submit(ctx.Request.Context(), bearerToken(ctx), draft)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrNotAuthenticated):
			status = http.StatusUnauthorized
		case domain.IsValidationError(err):
			status = http.StatusUnprocessableEntity
		}

		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, booking)
}
