package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ledger-service/shared/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

const localAdminID = "admin_id"

// RevocationChecker reports whether a token id was revoked before expiry.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type AdminClaims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret     []byte
	issuer     string
	revocation RevocationChecker
}

// NewAuthMiddleware builds the admin guard. With an empty secret it trusts
// the X-User-ID header set by the gateway instead of verifying tokens.
// revocation may be nil.
func NewAuthMiddleware(secret, issuer string, revocation RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		secret:     []byte(secret),
		issuer:     issuer,
		revocation: revocation,
	}
}

func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(m.secret) == 0 {
			return m.fromGateway(c)
		}

		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return unauthorized(c, "Missing or malformed bearer token")
		}

		claims, err := m.parse(strings.TrimSpace(parts[1]))
		if err != nil {
			slog.Warn("rejected admin token", "path", c.Path(), "error", err)
			return unauthorized(c, "Invalid or expired token")
		}

		if m.revocation != nil && claims.ID != "" {
			revoked, err := m.revocation.IsTokenRevoked(c.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "jti", claims.ID, "error", err)
				return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_ERROR", "Failed to verify token"))
			}
			if revoked {
				return unauthorized(c, "Token has been revoked")
			}
		}

		c.Locals(localAdminID, claims.AdminID)
		return c.Next()
	}
}

func (m *AuthMiddleware) parse(tokenString string) (*AdminClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.AdminID <= 0 {
		return nil, errors.New("token carries no admin id")
	}
	return claims, nil
}

func (m *AuthMiddleware) fromGateway(c fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get("X-User-ID"))
	if raw == "" {
		return unauthorized(c, "Missing user identity")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return unauthorized(c, "Invalid user identity")
	}
	c.Locals(localAdminID, id)
	return c.Next()
}

func unauthorized(c fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(utils.CreateErrorResponse("UNAUTHORIZED", message))
}
