package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/calzado-fabianne/almacen-api/internal/application/auth"
	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	cost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost cambia el costo de bcrypt (tests).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// Create crea un usuario activo con la contraseña hasheada.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := auth.NormalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := auth.HashPassword(in.Password, uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

// Update aplica los campos presentes. Un admin no puede quitarse el rol ni desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if actorID == id {
		if in.Role != nil && *in.Role != u.Role {
			return nil, domain.NewValidationError("role", "no puede cambiar su propio rol")
		}
		if in.Status != nil && *in.Status != entity.UserStatusActive {
			return nil, domain.NewValidationError("status", "no puede desactivarse a sí mismo")
		}
	}
	if in.Email != nil {
		email := auth.NormalizeEmail(*in.Email)
		if email != u.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrEmailAlreadyExists
			}
			u.Email = email
		}
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, uc.cost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	u.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// Delete elimina un usuario; nadie puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.NewValidationError("id", "no puede eliminar su propio usuario")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}
