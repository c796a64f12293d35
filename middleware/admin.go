package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware gates the admin routes on the identity header set by
// the auth proxy in front of this service. ADMIN_EMAILS is a comma-separated
// allowlist; when it is unset every admin request is rejected.
func AdminAuthMiddleware() fiber.Handler {
	allowed := map[string]bool{}
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = true
		}
	}
	if len(allowed) == 0 {
		log.Printf("⚠️ [ADMIN_AUTH] ADMIN_EMAILS is not set — admin routes will reject everyone")
	}

	return func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.Get("X-Admin-Email")))
		if email == "" || !allowed[email] {
			log.Printf("🚫 [ADMIN_AUTH] Rejected %s for %s", c.IP(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin authentication required",
			})
		}

		c.Locals("admin_email", email)
		return c.Next()
	}
}
