package server

import (
	"context"
	"errors"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go-portprobe/database"
	dr "go-portprobe/dns-resolver"
	"go-portprobe/manager"
	"go-portprobe/models"
	"strconv"
)

// Handler defines an HTTP handler.
type Handler struct {
	m   *manager.Manager // m defines the *manager.Manager used in operations.
	ctx context.Context  // ctx bounds scans to the server's lifetime.
}

// ScanHandler defines the handler for the /scan endpoint.
func (h *Handler) ScanHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data models.Settings

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	plan, err := h.m.Plan(data)
	if err != nil {
		br.Message = err.Error()
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	rec, err := h.m.Scan(h.ctx, plan, nil)
	if err != nil {
		br.Message = err.Error()
		if errors.Is(err, dr.ErrResolve) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
		}
		logrus.Errorf("scan of %s failed: %v", plan.Target.Host, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ScanFailedResponse{
			response: br,
			Scan:     rec,
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(rec)
}

// ScansHandler defines the handler for the /scans endpoint.
func (h *Handler) ScansHandler(ctx fiber.Ctx) error {
	limit := defaultHistoryLimit
	if q := ctx.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(response{
				Error:   true,
				Message: "Invalid limit.",
			})
		}
		limit = n
	}

	scans, err := h.m.History(limit)
	if err != nil {
		logrus.Errorf("failed to list scans: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(ScansResponse{Scans: scans})
}

// ScanByIDHandler defines the handler for the /scans/:id endpoint.
func (h *Handler) ScanByIDHandler(ctx fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(response{
			Error:   true,
			Message: "Invalid scan id.",
		})
	}

	rec, err := h.m.Get(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(response{
				Error:   true,
				Message: "Scan not found.",
			})
		}
		logrus.Errorf("failed to fetch scan %d: %v", id, err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(rec)
}

// GetSettingsHandler returns the settings applied to requests that omit fields.
func (h *Handler) GetSettingsHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(h.m.Defaults())
}

// SettingsHandler defines the handler for POST /settings.
func (h *Handler) SettingsHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data models.Settings

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	saved, err := h.m.UpdateSettings(data)
	if err != nil {
		br.Message = "An error occurred during applying settings: " + err.Error()
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	return ctx.Status(fiber.StatusOK).JSON(saved)
}
