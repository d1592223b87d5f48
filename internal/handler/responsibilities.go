package handler

import (
	"shift-planner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ResponsibilitiesPage GET /responsibilities.
func (h *Handler) ResponsibilitiesPage(c *fiber.Ctx) error {
	return h.responsibilitiesPage(c, nil)
}

func (h *Handler) responsibilitiesPage(c *fiber.Ctx, formErr error) error {
	resps, err := h.respService.List()
	if err != nil {
		return err
	}
	return h.renderForm(c, "responsibilities", &page{Title: "Responsibilities", Data: resps}, formErr)
}

func responsibilityInput(c *fiber.Ctx) service.ResponsibilityInput {
	return service.ResponsibilityInput{
		Name:        c.FormValue("name"),
		Color:       c.FormValue("color"),
		Description: c.FormValue("description"),
	}
}

// CreateResponsibility POST /responsibilities.
func (h *Handler) CreateResponsibility(c *fiber.Ctx) error {
	if _, err := h.respService.Create(responsibilityInput(c)); err != nil {
		return h.responsibilitiesPage(c, err)
	}
	return redirect(c, "/responsibilities")
}

// UpdateResponsibility POST /responsibilities/:id.
func (h *Handler) UpdateResponsibility(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.responsibilitiesPage(c, err)
	}
	if _, err := h.respService.Update(id, responsibilityInput(c)); err != nil {
		return h.responsibilitiesPage(c, err)
	}
	return redirect(c, "/responsibilities")
}

// DeleteResponsibility POST /responsibilities/:id/delete.
func (h *Handler) DeleteResponsibility(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.responsibilitiesPage(c, err)
	}
	if err := h.respService.Delete(id); err != nil {
		return h.responsibilitiesPage(c, err)
	}
	return redirect(c, "/responsibilities")
}
