package services_test

import (
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The product service is a thin pass-through, so these tests run it against
// the in-memory repository and check the stateful behavior end to end.

func TestProductService_CreateAndGet(t *testing.T) {
	service := services.NewProductService(repositories.NewMockProductRepository())

	newProduct := &models.Product{Name: "Mechanical Keyboard", Price: 75.0, Stock: 25}
	require.NoError(t, service.CreateProduct(newProduct))
	assert.NotEmpty(t, newProduct.ID) // Repository assigns a UUID

	fetched, err := service.GetProductByID(newProduct.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", fetched.Name)

	products, err := service.GetAllProducts()
	assert.NoError(t, err)
	assert.Len(t, products, 1)

	// Unknown IDs surface not found
	_, err = service.GetProductByID("no-such-product")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_Update(t *testing.T) {
	service := services.NewProductService(repositories.NewMockProductRepository())

	product := &models.Product{Name: "Wireless Mouse", Price: 25.0, Stock: 50}
	require.NoError(t, service.CreateProduct(product))

	product.Price = 19.99
	product.Stock = 45
	assert.NoError(t, service.UpdateProduct(product))

	fetched, err := service.GetProductByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 19.99, fetched.Price)
	assert.Equal(t, 45, fetched.Stock)

	// Updating a product that was never created fails
	err = service.UpdateProduct(&models.Product{ID: "no-such-product", Name: "Ghost", Price: 1.0})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	service := services.NewProductService(repositories.NewMockProductRepository())

	product := &models.Product{Name: "Laptop Stand", Price: 40.0, Stock: 12}
	require.NoError(t, service.CreateProduct(product))

	assert.NoError(t, service.DeleteProduct(product.ID))

	_, err := service.GetProductByID(product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting again fails
	assert.ErrorIs(t, service.DeleteProduct(product.ID), apperrors.ErrNotFound)
}
