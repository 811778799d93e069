package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// WebSocket upgrade requests carry the token in a query
		// parameter or the subprotocol, not the Authorization header
		if c.GetHeader("Upgrade") == "websocket" {
			token := c.Query("token")
			if token == "" {
				// Subprotocol format: "authorization.bearer.<token>"
				subprotocols := c.GetHeader("Sec-WebSocket-Protocol")
				if subprotocols != "" {
					parts := strings.Split(subprotocols, ".")
					if len(parts) >= 3 && parts[0] == "authorization" && parts[1] == "bearer" {
						token = parts[2]
					}
				}
			}

			if token == "" {
				// Abort without writing a body; the websocket handler
				// owns the connection error
				c.Abort()
				return
			}

			claims, err := parseToken(token, secret)
			if err != nil {
				c.Abort()
				return
			}

			setClaims(c, claims)
			c.Next()
			return
		}

		var tokenString string
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fall back to a query parameter so HLS players and <img> tags
		// can authenticate
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := parseToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func parseToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	if id, ok := claims["user_id"].(float64); ok {
		c.Set(ContextUserID, uint(id))
	}
	if email, ok := claims["email"].(string); ok {
		c.Set(ContextEmail, email)
	}
	if role, ok := claims["role"].(string); ok {
		c.Set(ContextRole, role)
	}
}
