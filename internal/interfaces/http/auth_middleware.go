package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow/internal/application/dto"
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/pkg/jwt"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// LocalActor key del actor autenticado en c.Locals.
const LocalActor = "actor"

// RoleInventoryManager rol para operaciones de catálogo (alta de productos, recálculo).
const RoleInventoryManager = "inventory_manager"

// AuthMiddleware valida el Bearer Token JWT y deja el actor (usuario, empleado, roles) en c.Locals.
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
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, entity.Actor{UserID: id.UserID, EmployeeID: id.EmployeeID, Roles: id.Roles})
		return c.Next()
	}
}

// RequireRole permite el paso si el actor tiene al menos uno de los roles indicados.
// Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(LocalActor).(entity.Actor)
		if !ok {
			return respondError(c, logger.Nop(), fmt.Errorf("%w: actor no encontrado en el contexto", domain.ErrUnauthorized))
		}
		for _, r := range roles {
			if actor.HasRole(r) {
				return c.Next()
			}
		}
		return respondError(c, logger.Nop(), domain.Permission("rol insuficiente para esta operación"))
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) entity.Actor {
	actor, _ := c.Locals(LocalActor).(entity.Actor)
	return actor
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	return GetActor(c).UserID
}
