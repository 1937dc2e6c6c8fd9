package middleware

import (
	"strconv"
	"time"

	"GroundCheck/Config"
	"GroundCheck/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var (
	secretKey   = "sge-secret-key-2024-palm-oil"
	cookieName  = "sgs_token"
	sessionDays = 7
)

// Setup applies the session configuration. Call once at startup.
func Setup(cfg *Config.Config) {
	secretKey = cfg.JWTSecret
	cookieName = cfg.SessionCookie
	sessionDays = cfg.SessionDays
}

// GenerateToken mints a signed session token for the user, valid for the
// configured session lifetime.
func GenerateToken(user Models.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(user.ID)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(sessionDays) * 24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// SessionCookie wraps a token in the HTTP-only session cookie.
func SessionCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(sessionDays) * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	}
}

// ClearSessionCookie returns an expired session cookie.
func ClearSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	}
}

// Verify authenticates the session cookie and stores the user in locals.
// Missing cookie, bad signature, expired token and unknown or inactive users
// all yield the same 401. Pass Models.RoleAdmin to restrict to admins.
func Verify(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(cookieName)
		if cookie == "" {
			return unauthenticated(c)
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			return unauthenticated(c)
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return unauthenticated(c)
		}

		// Re-read the user so role changes and deactivation take effect
		// immediately instead of riding out the token lifetime.
		var user Models.User
		if err := Models.DB.Where("id = ?", claims.Issuer).First(&user).Error; err != nil {
			return unauthenticated(c)
		}
		if !user.IsActive {
			return unauthenticated(c)
		}

		c.Locals("user", user)

		if requiredRole == Models.RoleAdmin && user.Role != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden",
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the user stored by Verify.
func CurrentUser(c *fiber.Ctx) Models.User {
	user, _ := c.Locals("user").(Models.User)
	return user
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "Unauthorized",
	})
}
