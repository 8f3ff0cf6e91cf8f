package middlewares

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"invoicing-backend/models"
)

// Permission modules. A user holding a module may use all of its routes.
const (
	ModuleAccounts = "accounts"
	ModuleProducts = "products"
	ModuleInvoices = "invoices"
	ModuleReports  = "reports"
	ModuleUsers    = "users"
)

var Modules = []string{ModuleAccounts, ModuleProducts, ModuleInvoices, ModuleReports, ModuleUsers}

// HasPermission reports whether claims grant module. Admins hold every module.
func HasPermission(claims *Claims, module string) bool {
	if claims == nil {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	return slices.Contains(claims.Permissions, module)
}

// RequirePermission must run after RequireAuth.
func RequirePermission(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		if !HasPermission(claims, module) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "access denied"})
		}
		return c.Next()
	}
}
