package handler

import "github.com/gofiber/fiber/v2"

// RolesPage GET /roles.
func (h *Handler) RolesPage(c *fiber.Ctx) error {
	return h.rolesPage(c, nil)
}

func (h *Handler) rolesPage(c *fiber.Ctx, formErr error) error {
	roles, err := h.roleService.List()
	if err != nil {
		return err
	}
	return h.renderForm(c, "roles", &page{Title: "Roles", Data: roles}, formErr)
}

// CreateRole POST /roles.
func (h *Handler) CreateRole(c *fiber.Ctx) error {
	if _, err := h.roleService.Create(c.FormValue("name"), c.FormValue("color")); err != nil {
		return h.rolesPage(c, err)
	}
	return redirect(c, "/roles")
}

// UpdateRole POST /roles/:id.
func (h *Handler) UpdateRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.rolesPage(c, err)
	}
	if _, err := h.roleService.Update(id, c.FormValue("name"), c.FormValue("color")); err != nil {
		return h.rolesPage(c, err)
	}
	return redirect(c, "/roles")
}

// DeleteRole POST /roles/:id/delete. Roles still held by a member are kept.
func (h *Handler) DeleteRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.rolesPage(c, err)
	}
	if err := h.roleService.Delete(id); err != nil {
		return h.rolesPage(c, err)
	}
	return redirect(c, "/roles")
}
