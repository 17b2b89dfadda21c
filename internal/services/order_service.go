package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateOrderRequest is the checkout payload. Item names and prices come
// from the client cart; TotalAmount must match the item sum exactly.
type CreateOrderRequest struct {
	Items           []models.OrderItem     `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64                `json:"total_amount" validate:"gte=0"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher rabbitmq.Publisher
	validate  *validator.Validate
}

// NewOrderService creates a new OrderService. The publisher may be nil,
// in which case events are skipped.
func NewOrderService(orderRepo repositories.OrderRepository, publisher rabbitmq.Publisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// CreateOrder creates a new order owned by the acting user. Client name and
// email are denormalized from the user record; both status fields start
// out pending.
func (s *OrderService) CreateOrder(req CreateOrderRequest, actingUser *models.User) (*models.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	var itemSum float64
	for _, item := range req.Items {
		itemSum += item.Price * float64(item.Quantity)
	}
	// Tolerate float rounding from clients that sum in cents.
	if math.Abs(itemSum-req.TotalAmount) > 0.005 {
		return nil, fmt.Errorf("total amount %.2f does not match item sum %.2f: %w",
			req.TotalAmount, itemSum, apperrors.ErrValidation)
	}

	newOrder := &models.Order{
		ID:              uuid.New().String(),
		UserID:          actingUser.ID,
		ClientName:      actingUser.Username,
		ClientEmail:     actingUser.Email,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		DeliveryStatus:  models.DeliveryPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publish(rabbitmq.OrderEvent{
		Event:       rabbitmq.EventOrderCreated,
		OrderID:     newOrder.ID,
		UserID:      newOrder.UserID,
		TotalAmount: newOrder.TotalAmount,
	})

	return newOrder, nil
}

// ListOrdersForOwner retrieves the acting user's own orders, newest first.
func (s *OrderService) ListOrdersForOwner(actingUser *models.User) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(actingUser.ID)
}

// ListAllOrders retrieves all orders, newest first. Admin only.
func (s *OrderService) ListAllOrders(actingUser *models.User) ([]models.Order, error) {
	if !actingUser.Role.IsAdmin() {
		return nil, fmt.Errorf("listing all orders requires admin role: %w", apperrors.ErrForbidden)
	}
	return s.orderRepo.GetAll()
}

// GetOrder retrieves a single order. The owner and admins may read it.
func (s *OrderService) GetOrder(id string, actingUser *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actingUser.ID && !actingUser.Role.IsAdmin() {
		return nil, fmt.Errorf("order %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}
	return order, nil
}

// SetPaymentStatus updates the payment status of an order. Admin only.
func (s *OrderService) SetPaymentStatus(id string, status models.PaymentStatus, actingUser *models.User) error {
	if !actingUser.Role.IsAdmin() {
		return fmt.Errorf("payment status updates require admin role: %w", apperrors.ErrForbidden)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid payment status %q: %w", status, apperrors.ErrValidation)
	}

	if err := s.orderRepo.UpdatePaymentStatus(id, status); err != nil {
		return fmt.Errorf("failed to update payment status for order %s: %w", id, err)
	}

	s.publish(rabbitmq.OrderEvent{
		Event:         rabbitmq.EventPaymentStatusSet,
		OrderID:       id,
		PaymentStatus: string(status),
	})
	return nil
}

// SetDeliveryStatus updates the delivery status of an order. Admin only.
// The transition must be legal: fulfilment moves forward one step at a
// time, and cancellation is allowed from any non-terminal state.
func (s *OrderService) SetDeliveryStatus(id string, status models.DeliveryStatus, actingUser *models.User) error {
	if !actingUser.Role.IsAdmin() {
		return fmt.Errorf("delivery status updates require admin role: %w", apperrors.ErrForbidden)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid delivery status %q: %w", status, apperrors.ErrValidation)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !order.DeliveryStatus.CanTransition(status) {
		return fmt.Errorf("delivery status cannot move from %q to %q: %w",
			order.DeliveryStatus, status, apperrors.ErrValidation)
	}

	if err := s.orderRepo.UpdateDeliveryStatus(id, status); err != nil {
		return fmt.Errorf("failed to update delivery status for order %s: %w", id, err)
	}

	s.publish(rabbitmq.OrderEvent{
		Event:          rabbitmq.EventDeliveryStatusSet,
		OrderID:        id,
		DeliveryStatus: string(status),
	})
	return nil
}

// AttachPaymentProof records an uploaded proof file on the order and resets
// the payment status to pending so an admin re-verifies it. Only the order
// owner may attach proof; re-attaching is allowed.
func (s *OrderService) AttachPaymentProof(id string, fileRef string, actingUser *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actingUser.ID {
		return nil, fmt.Errorf("order %s belongs to another user: %w", id, apperrors.ErrForbidden)
	}

	if err := s.orderRepo.UpdatePaymentProof(id, fileRef); err != nil {
		return nil, fmt.Errorf("failed to attach payment proof to order %s: %w", id, err)
	}

	s.publish(rabbitmq.OrderEvent{
		Event:         rabbitmq.EventPaymentProofAttached,
		OrderID:       id,
		UserID:        order.UserID,
		PaymentStatus: string(models.PaymentPending),
	})

	return s.orderRepo.GetByID(id)
}

func (s *OrderService) publish(event rabbitmq.OrderEvent) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event.Event, event.OrderID, err)
	}
}
