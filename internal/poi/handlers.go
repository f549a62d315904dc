package poi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req POI
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.AuthorID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and author_id required")
		}
		created, err := svc.CreatePOI(c.Context(), req)
		if err != nil {
			if errors.Is(err, ErrAuthorNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		pois, err := svc.ListPOIs(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(pois)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.GetPOI(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrPOINotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})
}
