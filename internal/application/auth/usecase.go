package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/application/usecase"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
	"github.com/jhoicas/cremeria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, usuario actual y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions ports.SessionStore
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. sessions puede ser nil; en
// ese caso el logout no revoca el token.
func NewAuthUseCase(userRepo repository.UserRepository, sessions ports.SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y password incorrecto responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *usecase.ToUserResponse(user),
	}, nil
}

// Me usuario de la sesión actual.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return usecase.ToUserResponse(user), nil
}

// Actor contexto explícito del usuario para los casos de uso. Se arma con el
// usuario guardado, no con lo que diga el token.
func (uc *AuthUseCase) Actor(ctx context.Context, userID string) (entity.Actor, error) {
	user, err := uc.activeUser(ctx, userID)
	if err != nil {
		return entity.Actor{}, err
	}
	return entity.ActorFromUser(user), nil
}

// Logout revoca el token (jti) hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if uc.sessions == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.TTL(time.Now())
	if ttl <= 0 {
		return nil
	}
	return domain.Upstream("revocar sesión", uc.sessions.Revoke(ctx, claims.ID, ttl))
}

// IsRevoked indica si el jti fue revocado por un logout.
func (uc *AuthUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if uc.sessions == nil || jti == "" {
		return false, nil
	}
	revoked, err := uc.sessions.IsRevoked(ctx, jti)
	if err != nil {
		return false, domain.Upstream("consultar sesión", err)
	}
	return revoked, nil
}

func (uc *AuthUseCase) activeUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sesión: obtener usuario: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
