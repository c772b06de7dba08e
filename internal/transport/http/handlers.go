// internal/transport/http/handlers.go
package http

import (
	"errors"
	"log"
	"strings"

	"shipment-service/internal/database"
	"shipment-service/internal/middleware"
	"shipment-service/internal/service"
	"shipment-service/pkg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ShipmentHandler struct {
	svc *service.ShipmentService
}

func NewShipmentHandler(svc *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{svc: svc}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func badID(c *fiber.Ctx, param string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + param})
}

// requireSelf parses :id and checks it against the caller from X-User-ID.
// Users may only read and write their own records. On false the response
// has already been written.
func requireSelf(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, ok := parseID(c, "id")
	if !ok {
		return uuid.Nil, false, badID(c, "user id")
	}
	if caller, ok := middleware.GetUserIDFromContext(c); !ok || caller != id {
		return uuid.Nil, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: resource belongs to another user"})
	}
	return id, true, nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}

// respondError maps service errors to HTTP statuses.
func respondError(c *fiber.Ctx, op string, err error) error {
	status := fiber.StatusInternalServerError
	msg := "something went wrong"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, msg = fiber.StatusNotFound, "not found"
	case errors.Is(err, service.ErrUnknownAlias), errors.Is(err, service.ErrInvalidInput):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrAddressNotOwned):
		status, msg = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrConflict):
		status, msg = fiber.StatusConflict, err.Error()
	case database.IsConstraintViolation(err):
		status, msg = fiber.StatusConflict, "conflicts with existing data"
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ [%s] %v", op, err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// CreateUser — POST /v1/users
// Registers the caller; the new user's id is the X-User-ID of the request.
func (h *ShipmentHandler) CreateUser(c *fiber.Ctx) error {
	caller, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req struct {
		Email string  `json:"email"`
		Name  string  `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user := &models.User{ID: caller, Email: req.Email, Name: req.Name, Phone: req.Phone}
	if err := h.svc.CreateUser(c.Context(), user); err != nil {
		return respondError(c, "CreateUser", err)
	}
	log.Printf("👤 [USERS] Registered user %s", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// GetUser — GET /v1/users/:id?include=shipments,settings,addresses
func (h *ShipmentHandler) GetUser(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	var include []string
	if raw := c.Query("include"); raw != "" {
		include = strings.Split(raw, ",")
	}
	user, err := h.svc.GetUser(c.Context(), id, include...)
	if err != nil {
		return respondError(c, "GetUser", err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// CreateShipment — POST /v1/users/:id/shipments
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	var req models.ShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	shipment, err := h.svc.CreateShipment(c.Context(), id, &req)
	if err != nil {
		return respondError(c, "CreateShipment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"shipment": shipment})
}

func (h *ShipmentHandler) ListShipments(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	shipments, err := h.svc.ListShipments(c.Context(), id)
	if err != nil {
		return respondError(c, "ListShipments", err)
	}
	return c.JSON(fiber.Map{"shipments": shipments})
}

// CreateAddress — POST /v1/users/:id/addresses
func (h *ShipmentHandler) CreateAddress(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return badBody(c)
	}
	address.ID = uuid.Nil
	address.User = nil
	if err := h.svc.CreateAddress(c.Context(), id, &address); err != nil {
		return respondError(c, "CreateAddress", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": address})
}

func (h *ShipmentHandler) ListAddresses(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	addresses, err := h.svc.ListAddresses(c.Context(), id)
	if err != nil {
		return respondError(c, "ListAddresses", err)
	}
	return c.JSON(fiber.Map{"addresses": addresses})
}

func (h *ShipmentHandler) GetSettings(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	settings, err := h.svc.GetSettings(c.Context(), id)
	if err != nil {
		return respondError(c, "GetSettings", err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpsertSettings — PUT /v1/users/:id/settings
// Omitted notifications_enabled and units keep their stored values
// (true and metric for a new row).
func (h *ShipmentHandler) UpsertSettings(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}
	var req models.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	settings, err := h.svc.UpsertSettings(c.Context(), id, &req)
	if err != nil {
		return respondError(c, "UpsertSettings", err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// SetPickupAddress — PUT /v1/users/:id/settings/pickup-address
// Body: {"address_id": "<uuid>"} or {"address_id": null} to clear.
func (h *ShipmentHandler) SetPickupAddress(c *fiber.Ctx) error {
	id, ok, err := requireSelf(c)
	if !ok {
		return err
	}

	var req struct {
		AddressID *uuid.UUID `json:"address_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	settings, err := h.svc.SetPickupAddress(c.Context(), id, req.AddressID)
	if err != nil {
		return respondError(c, "SetPickupAddress", err)
	}
	log.Printf("📍 [SETTINGS] Pickup address for user %s set to %v", id, req.AddressID)
	return c.JSON(fiber.Map{
		"status":   "success",
		"settings": settings,
	})
}

// GetShipment — GET /v1/shipments/:id
// Another user's shipment is reported as not found.
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "shipment id")
	}
	shipment, err := h.svc.GetShipment(c.Context(), id)
	if err != nil {
		return respondError(c, "GetShipment", err)
	}
	if caller, ok := middleware.GetUserIDFromContext(c); !ok || caller != shipment.UserID {
		return respondError(c, "GetShipment", service.ErrNotFound)
	}
	return c.JSON(fiber.Map{"shipment": shipment})
}
