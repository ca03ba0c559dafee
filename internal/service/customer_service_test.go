package service

import (
	"context"
	"testing"

	"otica/internal/apierror"
	"otica/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerDuplicateDocument(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)

	_, err := svc.Create(context.Background(), "org-1", dto.CreateCustomerRequest{
		FullName: "Ana Souza",
		Document: "12345678900",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "org-1", dto.CreateCustomerRequest{
		FullName: "Another Ana",
		Document: "12345678900",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// The same document is fine in a different tenant.
	_, err = svc.Create(context.Background(), "org-2", dto.CreateCustomerRequest{
		FullName: "Ana Souza",
		Document: "12345678900",
	})
	require.NoError(t, err)
}

func TestCreateCustomerBadBirthDate(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	_, err := svc.Create(context.Background(), "org-1", dto.CreateCustomerRequest{
		FullName:  "Ana Souza",
		Document:  "12345678900",
		BirthDate: strptr("31/12/1990"),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestDeactivateCustomerFlagsInactive(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), "org-1", dto.CreateCustomerRequest{
		FullName: "Ana Souza",
		Document: "12345678900",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.Deactivate(context.Background(), "org-1", id))
	assert.False(t, repo.customers[id].IsActive)
}
