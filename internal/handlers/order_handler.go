package handlers

import (
	"errors"
	"log"

	"storefront/internal/apperrors"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	uploads *services.UploadService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, uploads *services.UploadService) *OrderHandler {
	return &OrderHandler{
		service: service,
		uploads: uploads,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All routes
// assume AuthRequired has already run on the router group.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/me", h.HandleGetMyOrders)
	orderRoutes.Get("/", middleware.AdminOnly(), h.HandleGetAllOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/payment-proof", h.HandleUploadPaymentProof)
	orderRoutes.Put("/:id/payment-status", middleware.AdminOnly(), h.HandleUpdatePaymentStatus)
	orderRoutes.Put("/:id/delivery-status", middleware.AdminOnly(), h.HandleUpdateDeliveryStatus)
}

// HandleCreateOrder creates a new order owned by the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	createdOrder, err := h.service.CreateOrder(req, middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondServiceError(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleGetMyOrders retrieves the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrdersForOwner(middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error getting own orders: %v", err)
		return respondServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetAllOrders retrieves all orders. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order for its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID, middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondServiceError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleUploadPaymentProof accepts a single multipart file in the
// paymentProof field, stores it, and attaches it to the order. The order's
// payment status resets to pending.
func (h *OrderHandler) HandleUploadPaymentProof(c *fiber.Ctx) error {
	orderID := c.Params("id")

	fileHeader, err := c.FormFile("paymentProof")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A single file is required in the 'paymentProof' field",
			"error":   err.Error(),
		})
	}

	// Ownership is checked before the file touches disk.
	if _, err := h.service.GetOrder(orderID, middleware.CurrentUser(c)); err != nil {
		log.Printf("Error loading order %s for proof upload: %v", orderID, err)
		return respondServiceError(c, err, "Could not upload payment proof")
	}

	fileRef, err := h.uploads.SavePaymentProof(orderID, fileHeader)
	if err != nil {
		log.Printf("Error storing payment proof for order %s: %v", orderID, err)
		return respondServiceError(c, err, "Could not store payment proof")
	}

	order, err := h.service.AttachPaymentProof(orderID, fileRef, middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error attaching payment proof to order %s: %v", orderID, err)
		return respondServiceError(c, err, "Could not attach payment proof")
	}

	return c.JSON(order)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// HandleUpdatePaymentStatus sets the payment status of an order. Admin only.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	err := h.service.SetPaymentStatus(orderID, models.PaymentStatus(req.Status), middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error updating payment status for order %s: %v", orderID, err)
		return respondServiceError(c, err, "Could not update payment status")
	}

	return c.JSON(fiber.Map{
		"message": "Payment status updated",
		"status":  req.Status,
	})
}

// HandleUpdateDeliveryStatus sets the delivery status of an order. Admin only.
func (h *OrderHandler) HandleUpdateDeliveryStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	err := h.service.SetDeliveryStatus(orderID, models.DeliveryStatus(req.Status), middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error updating delivery status for order %s: %v", orderID, err)
		return respondServiceError(c, err, "Could not update delivery status")
	}

	return c.JSON(fiber.Map{
		"message": "Delivery status updated",
		"status":  req.Status,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized becomes an opaque 500.
func respondServiceError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
}
