package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/http/response"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"github.com/boxtrail/loyalty-backend/internal/requestdata"
)

// AuthMiddleware guards the two entry surfaces: user endpoints carry an HS256
// JWT issued by the main application, service endpoints carry the shared
// service token.
type AuthMiddleware struct {
	log          *logger.Logger
	jwtSecret    []byte
	serviceToken string
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret, serviceToken string) *AuthMiddleware {
	return &AuthMiddleware{
		log:          log.With("middleware", "AuthMiddleware"),
		jwtSecret:    []byte(jwtSecret),
		serviceToken: serviceToken,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}

		userID, err := am.parseSubject(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			c.Abort()
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      userID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireService admits only callers presenting the shared service token.
// Used by the award and webhook intake endpoints, which act on behalf of
// arbitrary users.
func (am *AuthMiddleware) RequireService() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if am.serviceToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(am.serviceToken)) != 1 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid service token"))
			c.Abort()
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: token,
			ServiceCall: true,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) parseSubject(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return am.jwtSecret, nil
	})
	if err != nil {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id in token")
	}
	return userID, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
