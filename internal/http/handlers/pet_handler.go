package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"lostpets/internal/domain"
	"lostpets/internal/log"
	"lostpets/internal/repos"
	"lostpets/internal/validate"
	"lostpets/internal/view"
)

// PetReader loads a published listing.
type PetReader interface {
	Get(ctx context.Context, id string) (domain.ListingRecord, error)
}

type PetHandler struct {
	Pets      PetReader
	MediaBase string
	Timeout   time.Duration
}

func (h *PetHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return notFound(c, fiber.StatusNotFound, "Объявление не найдено")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout())
	defer cancel()
	rec, err := h.Pets.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "Объявление не найдено")
	}
	if err != nil {
		log.Error(c, "pets.detail.error", err, map[string]any{"id": id})
		return notFound(c, fiber.StatusBadGateway, "Не удалось загрузить объявление. Попробуйте позже.")
	}
	return render(c, "pet", fiber.Map{"P": view.NewListing(rec, h.MediaBase)})
}

func (h *PetHandler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return 15 * time.Second
	}
	return h.Timeout
}
