package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory/inventorytest"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

func TestUserUseCase(t *testing.T) {
	store := inventorytest.NewStore()
	adminID := store.AddUser(entity.RoleAdmin, entity.UserStatusActive)
	uc := NewUserUseCase(store.Users()).WithBcryptCost(bcrypt.MinCost)
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{Email: "Bodega@Almacen.test", Password: "secreto123", Name: "Bodega", Role: entity.RoleBodeguero})
	require.NoError(t, err)
	assert.Equal(t, "bodega@almacen.test", u.Email)
	assert.Equal(t, entity.RoleBodeguero, u.Role)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "bodega@almacen.test", Password: "secreto123", Name: "X", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	status := entity.UserStatusInactive
	out, err := uc.Update(ctx, adminID, u.ID, dto.UpdateUserRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, out.Status)

	_, err = uc.Update(ctx, adminID, adminID, dto.UpdateUserRequest{Status: &status})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))

	assert.True(t, errors.As(uc.Delete(ctx, adminID, adminID), &ve))
	require.NoError(t, uc.Delete(ctx, adminID, u.ID))

	_, err = uc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
