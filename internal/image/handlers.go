package image

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Routes are mounted under /pois so uploads and listings hang off the
// parent POI, mirroring the image-belongs-to-POI relationship.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/photos", authMiddleware, func(c *fiber.Ctx) error {
		var req UploadRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.FileName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "file_name required")
		}
		img, err := svc.AttachPhoto(c.Context(), c.Params("id"), req)
		if err != nil {
			if errors.Is(err, ErrPOINotFound) || errors.Is(err, ErrAuthorNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(img)
	})

	r.Get("/:id/images", func(c *fiber.Ctx) error {
		images, err := svc.Images(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(images)
	})

	r.Get("/:id/images/:imageID", func(c *fiber.Ctx) error {
		img, err := svc.GetImage(c.Context(), c.Params("imageID"))
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(img)
	})
}
