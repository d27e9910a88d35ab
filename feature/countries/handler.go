package countries

import (
	"errors"

	"country-pipeline/core/logger"
	"country-pipeline/core/sqlgen"
	"country-pipeline/feature/countries/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for countries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the countries routes.
// The literal upsert route is registered before the :cca3 parameter.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/countries")
	group.Get("/", h.HandleList)
	group.Get("/upsert.sql", h.HandleUpsertSQL)
	group.Get("/:cca3", h.HandleGet)
}

// HandleList returns every reconciled row with the join summary.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Cached(c.UserContext())
	if err != nil {
		l.Error("Reconcile failed", zap.Error(err))
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"records":    result.Rows(),
		"summary":    result.Summary,
		"api_report": result.APIReport,
		"web_report": result.WebReport,
		"duplicates": result.Duplicates,
	})
}

// HandleGet returns the first row with the given cca3.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	cca3 := c.Params("cca3")
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Cached(c.UserContext())
	if err != nil {
		l.Error("Reconcile failed", zap.Error(err))
		return internalError(c, err)
	}

	row, ok := findRow(result.Rows(), cca3)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "country not found",
			"cca3":  cca3,
		})
	}
	return c.JSON(row)
}

// HandleUpsertSQL returns the upsert text, or 204 when there are no rows.
func (h *Handler) HandleUpsertSQL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Cached(c.UserContext())
	if err != nil {
		l.Error("Reconcile failed", zap.Error(err))
		return internalError(c, err)
	}

	text, err := h.service.GenerateSQL(result)
	if errors.Is(err, sqlgen.ErrEmptyRowSet) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		l.Error("SQL generation failed", zap.Error(err))
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/sql; charset=utf-8")
	return c.SendString(text)
}

func findRow(rows []models.CountryRow, cca3 string) (models.CountryRow, bool) {
	for _, r := range rows {
		if r.CCA3 != nil && *r.CCA3 == cca3 {
			return r, true
		}
	}
	return models.CountryRow{}, false
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
