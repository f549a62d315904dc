package rating

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type submitBody struct {
	UserID     string     `json:"user_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Score      *int       `json:"score"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		targetType := TargetType(c.Query("target_type"))
		targetID := c.Query("target_id")
		if targetType == "" || targetID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "target_type and target_id required")
		}
		status, err := svc.GetRatingStatus(c.Context(), targetType, targetID, c.Query("user_id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(status)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body submitBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Score == nil {
			return fiber.NewError(fiber.StatusBadRequest, ErrMissingField.Error())
		}
		result, err := svc.SubmitRating(c.Context(), body.UserID, body.TargetType, body.TargetID, *body.Score)
		if err != nil {
			return statusError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var body submitBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Score == nil {
			return fiber.NewError(fiber.StatusBadRequest, ErrMissingField.Error())
		}
		result, err := svc.UpdateRating(c.Context(), body.UserID, body.TargetType, body.TargetID, *body.Score)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(result)
	})
}

func statusError(err error) error {
	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrInvalidScore), errors.Is(err, ErrDuplicateRating):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSelfRating):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrTargetNotFound), errors.Is(err, ErrRatingNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
