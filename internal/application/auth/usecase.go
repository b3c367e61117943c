package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
	"github.com/calzado-fabianne/almacen-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, verificación y cambio de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// HashPassword genera el hash bcrypt de una contraseña.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crea un vendedor activo y devuelve token + usuario. ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := HashPassword(in.Password, uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleVendedor,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.session(user)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña errónea devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	return uc.session(user)
}

// Verify devuelve el usuario del token si sigue existiendo y activo.
func (uc *AuthUseCase) Verify(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// ChangePassword reemplaza la contraseña tras comprobar la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.NewValidationError("current_password", "contraseña actual incorrecta")
	}
	hash, err := HashPassword(in.NewPassword, uc.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return uc.userRepo.Update(ctx, user)
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
