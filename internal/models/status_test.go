package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Valid(t *testing.T) {
	assert.True(t, models.PaymentPending.Valid())
	assert.True(t, models.PaymentApproved.Valid())
	assert.True(t, models.PaymentRejected.Valid())
	assert.False(t, models.PaymentStatus("refunded").Valid())
	assert.False(t, models.PaymentStatus("").Valid())
}

func TestDeliveryStatus_Valid(t *testing.T) {
	assert.True(t, models.DeliveryPending.Valid())
	assert.True(t, models.DeliveryCancelled.Valid())
	assert.False(t, models.DeliveryStatus("returned").Valid())
	assert.False(t, models.DeliveryStatus("").Valid())
}

func TestDeliveryStatus_CanTransition(t *testing.T) {
	// Forward progression, one step at a time
	assert.True(t, models.DeliveryPending.CanTransition(models.DeliveryProcessing))
	assert.True(t, models.DeliveryProcessing.CanTransition(models.DeliveryShipped))
	assert.True(t, models.DeliveryShipped.CanTransition(models.DeliveryDelivered))

	// No skipping or going backwards
	assert.False(t, models.DeliveryPending.CanTransition(models.DeliveryShipped))
	assert.False(t, models.DeliveryPending.CanTransition(models.DeliveryDelivered))
	assert.False(t, models.DeliveryShipped.CanTransition(models.DeliveryProcessing))
	assert.False(t, models.DeliveryProcessing.CanTransition(models.DeliveryProcessing))

	// Cancellation is reachable from any non-terminal state
	assert.True(t, models.DeliveryPending.CanTransition(models.DeliveryCancelled))
	assert.True(t, models.DeliveryProcessing.CanTransition(models.DeliveryCancelled))
	assert.True(t, models.DeliveryShipped.CanTransition(models.DeliveryCancelled))

	// Terminal states are closed
	assert.False(t, models.DeliveryDelivered.CanTransition(models.DeliveryCancelled))
	assert.False(t, models.DeliveryDelivered.CanTransition(models.DeliveryPending))
	assert.False(t, models.DeliveryCancelled.CanTransition(models.DeliveryProcessing))

	// Unknown targets are rejected
	assert.False(t, models.DeliveryPending.CanTransition(models.DeliveryStatus("returned")))
}
