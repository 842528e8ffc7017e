package handlers

import (
	"errors"
	"log"

	"presskit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PressKitHandler handles HTTP requests for press kits.
type PressKitHandler struct {
	service  *services.PressKitService
	validate *validator.Validate
}

// NewPressKitHandler creates a new PressKitHandler.
func NewPressKitHandler(service *services.PressKitService) *PressKitHandler {
	return &PressKitHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the press kit routes. The public view route
// is registered first so it is matched ahead of the protected /:id
// routes and skips the auth middleware.
func (h *PressKitHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	kitRoutes := router.Group("/pressKits")
	kitRoutes.Get("/public/:id", h.HandleGetPublic)
	kitRoutes.Get("/", authRequired, h.HandleList)
	kitRoutes.Post("/", authRequired, h.HandleCreate)
	kitRoutes.Get("/:id", authRequired, h.HandleGet)
	kitRoutes.Put("/:id", authRequired, h.HandleUpdate)
	kitRoutes.Delete("/:id", authRequired, h.HandleDelete)
	kitRoutes.Post("/:id/duplicate", authRequired, h.HandleDuplicate)
}

// HandleList retrieves all press kits owned by the caller, most
// recently updated first.
func (h *PressKitHandler) HandleList(c *fiber.Ctx) error {
	musicianID, _ := c.Locals("musician_id").(string)

	kits, err := h.service.List(musicianID)
	if err != nil {
		log.Printf("Error getting press kits for musician %s: %v", musicianID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error fetching press kits",
		})
	}
	return c.JSON(kits)
}

// CreatePressKitRequest represents the request body for creating a
// press kit. Description, theme and isPublic are optional.
type CreatePressKitRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
	IsPublic    bool   `json:"isPublic"`
}

// HandleCreate creates a new press kit owned by the caller.
func (h *PressKitHandler) HandleCreate(c *fiber.Ctx) error {
	musicianID, _ := c.Locals("musician_id").(string)

	var req CreatePressKitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create press kit body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	kit, err := h.service.Create(musicianID, req.Title, req.Description, req.Theme, req.IsPublic)
	if err != nil {
		log.Printf("Error creating press kit: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error creating press kit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(kit)
}

// HandleGet retrieves a single press kit with all child collections.
func (h *PressKitHandler) HandleGet(c *fiber.Ctx) error {
	id, err := pressKitIDParam(c)
	if err != nil {
		return invalidIDResponse(c)
	}
	musicianID, _ := c.Locals("musician_id").(string)

	kit, err := h.service.Get(id, musicianID)
	if err != nil {
		return h.errorResponse(c, id, err, "Server error fetching press kit")
	}
	return c.JSON(kit)
}

// UpdatePressKitRequest represents a partial patch; absent fields are
// left untouched.
type UpdatePressKitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Theme       *string `json:"theme"`
	IsPublic    *bool   `json:"isPublic"`
}

// HandleUpdate applies a partial patch to a press kit.
func (h *PressKitHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := pressKitIDParam(c)
	if err != nil {
		return invalidIDResponse(c)
	}
	musicianID, _ := c.Locals("musician_id").(string)

	var req UpdatePressKitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update press kit body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	kit, err := h.service.Update(id, musicianID, services.PressKitUpdate{
		Title:       req.Title,
		Description: req.Description,
		Theme:       req.Theme,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return h.errorResponse(c, id, err, "Server error updating press kit")
	}
	return c.JSON(kit)
}

// HandleDelete deletes a press kit and all of its child rows.
func (h *PressKitHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := pressKitIDParam(c)
	if err != nil {
		return invalidIDResponse(c)
	}
	musicianID, _ := c.Locals("musician_id").(string)

	if err := h.service.Delete(id, musicianID); err != nil {
		return h.errorResponse(c, id, err, "Server error deleting press kit")
	}
	return c.JSON(fiber.Map{
		"message": "Press kit deleted successfully",
	})
}

// HandleDuplicate deep-copies a press kit the caller owns.
func (h *PressKitHandler) HandleDuplicate(c *fiber.Ctx) error {
	id, err := pressKitIDParam(c)
	if err != nil {
		return invalidIDResponse(c)
	}
	musicianID, _ := c.Locals("musician_id").(string)

	kit, err := h.service.Duplicate(id, musicianID)
	if err != nil {
		return h.errorResponse(c, id, err, "Server error duplicating press kit")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Press kit duplicated successfully",
		"pressKit": kit,
	})
}

// HandleGetPublic retrieves a public press kit without authentication
// and records one analytics row for the view.
func (h *PressKitHandler) HandleGetPublic(c *fiber.Ctx) error {
	id := c.Params("id")

	kit, err := h.service.GetPublic(id, services.Visitor{
		IP:        c.IP(),
		Referrer:  c.Get("Referer"),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Press kit not found",
			})
		}
		if errors.Is(err, services.ErrNotPublic) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This press kit is not publicly available",
			})
		}
		log.Printf("Error getting public press kit %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error fetching press kit",
		})
	}
	return c.JSON(kit)
}

// errorResponse maps service errors from the owner-facing operations
// onto the shared status code contract.
func (h *PressKitHandler) errorResponse(c *fiber.Ctx, id string, err error, internalMessage string) error {
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Press kit not found",
		})
	}
	if errors.Is(err, services.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied",
		})
	}
	log.Printf("Error handling press kit %s: %v", id, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": internalMessage,
	})
}

func pressKitIDParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

func invalidIDResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors": []fiber.Map{
			{"param": "id", "msg": "Invalid press kit ID"},
		},
	})
}
