package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/dto"
	"github.com/AmalManoj-243/salesorderandpos/pkg/jwt"
)

// Locals keys para los claims de sesión POS en Fiber.
const (
	LocalUserID          = "user_id"
	LocalUserName        = "user_name"
	LocalSalesPersonID   = "sales_person_id"
	LocalSalesPersonName = "sales_person_name"
	LocalWarehouseID     = "warehouse_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae los claims de sesión a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalSalesPersonID, claims.SalesPersonID)
		c.Locals(LocalSalesPersonName, claims.SalesPersonName)
		c.Locals(LocalWarehouseID, claims.WarehouseID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetWarehouseID devuelve la bodega del usuario de sesión ("" si no tiene).
func GetWarehouseID(c *fiber.Ctx) string {
	return localString(c, LocalWarehouseID)
}

// GetSalesPerson devuelve id y nombre del vendedor de sesión.
func GetSalesPerson(c *fiber.Ctx) (id, name string) {
	return localString(c, LocalSalesPersonID), localString(c, LocalSalesPersonName)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
