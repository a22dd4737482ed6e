package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos de sesión POS.
// WarehouseID viaja en el token para que el flujo de órdenes pueda resolver
// la bodega del usuario sin consultar nada externo.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	SalesPersonID   string `json:"sales_person_id,omitempty"`
	SalesPersonName string `json:"sales_person_name,omitempty"`
	WarehouseID     string `json:"warehouse_id,omitempty"`
}

// Session campos propios incluidos al generar un token.
type Session struct {
	UserID          string
	Name            string
	SalesPersonID   string
	SalesPersonName string
	WarehouseID     string
}

// Generate genera un token JWT firmado con los datos de sesión POS.
func Generate(secret string, s Session, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:          s.UserID,
		Name:            s.Name,
		SalesPersonID:   s.SalesPersonID,
		SalesPersonName: s.SalesPersonName,
		WarehouseID:     s.WarehouseID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims de sesión.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
