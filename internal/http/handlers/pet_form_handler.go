package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lostpets/internal/domain"
	"lostpets/internal/log"
	"lostpets/internal/services"
	"lostpets/internal/session"
)

type PetFormHandler struct {
	Listings *services.ListingService
	Cookie   string
	Timeout  time.Duration
}

func (h *PetFormHandler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.Timeout)
}

// New serves an empty form, pre-filled from the session when possible.
func (h *PetFormHandler) New(c *fiber.Ctx) error {
	formID := uuid.NewString()
	c.Locals("form_id", formID)

	d := &domain.ListingDraft{}
	h.prefill(c, d)
	return render(c, "add", formData(formID, d, services.Outcome{State: services.Idle}))
}

// Create handles a submit of the form.
func (h *PetFormHandler) Create(c *fiber.Ctx) error {
	formID := strings.TrimSpace(c.FormValue("form_id"))
	if _, err := uuid.Parse(formID); err != nil {
		formID = uuid.NewString()
	}
	c.Locals("form_id", formID)

	d, err := bindDraft(c)
	if err != nil {
		log.Error(c, "pets.create.bind", err, nil)
		return notFound(c, fiber.StatusBadRequest, "Не удалось прочитать форму. Попробуйте ещё раз.")
	}

	ctx, cancel := h.context(c)
	defer cancel()
	out := h.Listings.Submit(ctx, formID, d)

	if out.PhotoErr != nil {
		log.Warn(c, "pets.photo.passthrough", out.PhotoErr, nil)
	}
	status := fiber.StatusOK
	fields := map[string]any{"state": out.State.String(), "registering": d.Registering}
	switch out.State {
	case services.ValidationFailed:
		status = fiber.StatusBadRequest
		fields["reason"] = out.Error
		log.Info(c, "pets.create.invalid", fields)
	case services.Busy:
		status = fiber.StatusConflict
		log.Security(c, "pets.create.reentry", fields)
	case services.ServerRejected:
		status = fiber.StatusUnprocessableEntity
		log.Warn(c, "pets.create.rejected", out.Cause, fields)
	case services.TransportFailed:
		status = fiber.StatusBadGateway
		if ctx.Err() != nil {
			fields["ctx"] = ctx.Err().Error()
		}
		log.Error(c, "pets.create.fail", out.Cause, fields)
	case services.Succeeded:
		log.Audit(c, "pets.create.success", fields)
		if out.Reset {
			formID = uuid.NewString()
			h.prefill(c, d)
		}
	}

	c.Status(status)
	return render(c, "add", formData(formID, d, out))
}

// prefill runs the best-effort session lookup. Failures only reach the log.
func (h *PetFormHandler) prefill(c *fiber.Ctx, d *domain.ListingDraft) {
	ctx, cancel := h.context(c)
	defer cancel()

	res := h.Listings.Prefill(ctx, session.Cookie{Ctx: c, Name: h.Cookie}, d)
	switch {
	case errors.Is(res.Err, services.ErrNoSession):
		// anonymous visitor
	case res.Err != nil:
		log.Warn(c, "pets.prefill.fail", res.Err, nil)
	default:
		log.Info(c, "pets.prefill.ok", nil)
	}
}

func formData(formID string, d *domain.ListingDraft, out services.Outcome) fiber.Map {
	return fiber.Map{
		"FormID":  formID,
		"Draft":   d,
		"State":   out.State.String(),
		"Err":     out.Error,
		"Success": out.Success,
	}
}
