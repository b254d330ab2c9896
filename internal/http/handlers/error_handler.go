package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lostpets/internal/log"
)

const (
	msgServerError = "Что-то пошло не так. Попробуйте ещё раз."
	msgPageMissing = "Страница не найдена"
)

// ErrorHandler is the app-wide fiber error handler. The cause only goes to
// the log; the visitor gets the shared message page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := msgServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		status, msg = fe.Code, msgPageMissing
	}
	if status >= fiber.StatusInternalServerError {
		log.Error(c, "server.error", err, nil)
	}
	if rerr := notFound(c, status, msg); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

// NotFound is the catch-all route for unknown paths.
func NotFound(c *fiber.Ctx) error {
	return notFound(c, fiber.StatusNotFound, msgPageMissing)
}
