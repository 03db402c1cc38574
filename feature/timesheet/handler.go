package timesheet

import (
	"errors"

	"timesheet-sync/core/logger"
	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"
	"timesheet-sync/feature/sheet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the timesheet.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the timesheet routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/timesheet")
	group.Get("/plan", h.HandlePlan)
	group.Post("/refresh", h.HandleRefresh)
	group.Post("/add", h.HandleAdd)
}

// HandlePlan returns the reconciliation plan without applying it.
// @Summary Plan Refresh
// @Tags timesheet
// @Produce json
// @Success 200 {object} reconcile.ReconcilePlan
// @Router /timesheet/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.UserContext())
	if err != nil {
		l.Error("Refresh planning failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleRefresh reconciles the sheet with the calendar.
// @Summary Refresh Timesheet
// @Tags timesheet
// @Produce json
// @Param dry_run query boolean false "Plan only"
// @Success 200 {object} RefreshResult
// @Router /timesheet/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := reconcile.ReconcileOptions{
		DryRun:    c.QueryBool("dry_run", false),
		Confirmed: true,
	}

	result, err := h.service.Refresh(c.UserContext(), opts)
	if err != nil {
		l.Error("Refresh failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if result != nil {
			body["applied"] = result.Applied
		}
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.JSON(result)
}

// HandleAdd appends events not yet in the sheet.
// @Summary Add Events
// @Tags timesheet
// @Produce json
// @Param from query string false "First date (yyyy-MM-dd), defaults to the period start"
// @Param to query string false "Last date (yyyy-MM-dd), defaults to the period end"
// @Param dry_run query boolean false "Plan only"
// @Success 200 {object} AddResult
// @Router /timesheet/add [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := reconcile.ReconcileOptions{
		DryRun:    c.QueryBool("dry_run", false),
		Confirmed: true,
	}

	var window *calendar.Window
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		if from == "" || to == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to must be given together"})
		}
		w, err := calendar.ParseWindow(from, to, h.service.loc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		window = &w
	}

	result, err := h.service.Add(c.UserContext(), window, opts)
	if err != nil {
		l.Error("Add failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// statusFor maps reconcile error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidContext),
		errors.Is(err, reconcile.ErrEmptyStore),
		errors.Is(err, reconcile.ErrNoCandidateDates):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrSourceUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, sheet.ErrObjectChanged):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
