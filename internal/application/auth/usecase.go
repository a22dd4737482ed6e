package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/dto"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/pkg/config"
	"github.com/AmalManoj-243/salesorderandpos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de usuarios de dispositivo POS. Los usuarios vienen de
// configuración (no hay base de usuarios propia): el backend de ventas es el
// dueño real de las identidades y este servicio solo sesiona cajeros.
type AuthUseCase struct {
	users  []config.DeviceUser
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users []config.DeviceUser, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg}
}

// Login valida credenciales contra el hash bcrypt configurado y emite un JWT
// con los claims de sesión POS (incluida la bodega del usuario).
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	var user *config.DeviceUser
	for i := range uc.users {
		if uc.users[i].Username == in.Username {
			user = &uc.users[i]
			break
		}
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Session{
		UserID:          user.Username,
		Name:            user.Name,
		SalesPersonID:   user.SalesPersonID,
		SalesPersonName: user.SalesPersonName,
		WarehouseID:     user.WarehouseID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:           token,
		Name:            user.Name,
		SalesPersonID:   user.SalesPersonID,
		SalesPersonName: user.SalesPersonName,
		WarehouseID:     user.WarehouseID,
	}, nil
}
