package integrity

import (
	"timesheet-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/sheet", h.HandleSheetCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if sheetReport, err := h.service.CheckSheet(c.UserContext()); err != nil {
		report["sheet"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["sheet"] = sheetReport
	}

	if schemaReport, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schemaReport
	}

	return c.JSON(report)
}

// HandleSheetCheck checks the sheet and optionally removes duplicate rows.
// @Summary Check Sheet
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Remove duplicate rows"
// @Success 200 {object} checks.SheetReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/sheet [get]
func (h *Handler) HandleSheetCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckSheet(c.UserContext())
	if err != nil {
		l.Error("Sheet check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Duplicates) > 0 {
		l.Warn("Duplicate rows detected", zap.Int("count", len(report.Duplicates)))

		if fix {
			removed, err := h.service.FixSheet(c.UserContext(), report)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to remove duplicates",
					"details": err.Error(),
					"removed": removed,
				})
			}
			return c.JSON(fiber.Map{
				"status":  "fixed",
				"removed": removed,
			})
		}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the sheet_rows table.
// @Summary Check Schema
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
