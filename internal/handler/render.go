package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"shift-planner/internal/apperr"
	"shift-planner/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"dashboard",
	"schedule",
	"members",
	"teams",
	"roles",
	"responsibilities",
	"absences",
	"error",
}

// page is the data every template receives.
type page struct {
	Title  string
	Active string
	Error  string
	Notice string
	Data   any
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	funcs := template.FuncMap{
		"shiftTypes": models.ShiftTypes,
		"add":        func(a, b int) int { return a + b },
		"px":         func(f float64) string { return fmt.Sprintf("%.1f", f) },
		"isID": func(ptr *uint, id uint) bool {
			return ptr != nil && *ptr == id
		},
		"isShift": func(ptr *models.ShiftType, st models.ShiftType) bool {
			return ptr != nil && *ptr == st
		},
	}

	v := &views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

func (h *Handler) render(c *fiber.Ctx, status int, name string, p *page) error {
	t, ok := h.views.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	if p.Active == "" {
		p.Active = name
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// renderForm renders a page after a form submission. Errors that carry a
// kind are shown inline with the matching status; anything else goes to the
// error handler.
func (h *Handler) renderForm(c *fiber.Ctx, name string, p *page, formErr error) error {
	status := fiber.StatusOK
	if formErr != nil {
		kind := apperr.KindOf(formErr)
		if kind == apperr.Internal {
			return formErr
		}
		status = kind.HTTPStatus()
		p.Error = apperr.Message(formErr)
		h.logger.WithError(formErr).WithFields(logrus.Fields{
			"page": name,
			"kind": string(kind),
		}).Info("Form rejected")
	}
	return h.render(c, status, name, p)
}

func redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}
