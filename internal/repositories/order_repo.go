package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted in any flow, so no Delete is exposed.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdatePaymentStatus(id string, status models.PaymentStatus) error
	UpdateDeliveryStatus(id string, status models.DeliveryStatus) error
	// UpdatePaymentProof stores the proof path and resets the payment
	// status to pending in the same write.
	UpdatePaymentProof(id string, path string) error
}
