package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/turtlethecat2/projectrift/internal/config"
)

// WebhookSecretHeader en-tête portant le secret partagé du webhook
const WebhookSecretHeader = "X-RIFT-SECRET"

// JWTClaims représente les claims du JWT pour la surface admin
type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// Logger middleware de logging des requêtes HTTP
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logrus.WithFields(logrus.Fields{
			"timestamp":   param.TimeStamp.Format(time.RFC3339),
			"client_ip":   param.ClientIP,
			"method":      param.Method,
			"path":        param.Path,
			"status_code": param.StatusCode,
			"latency_ms":  param.Latency.Milliseconds(),
			"user_agent":  param.Request.UserAgent(),
			"request_id":  param.Request.Header.Get("X-Request-ID"),
			"service":     "rift",
		}).Info("HTTP Request")

		return ""
	})
}

// Recovery middleware avec logging amélioré
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithFields(logrus.Fields{
			"error":      recovered,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"client_ip":  c.ClientIP(),
			"request_id": c.GetHeader("X-Request-ID"),
			"service":    "rift",
		}).Error("Panic recovered in rift service")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": c.GetHeader("X-Request-ID"),
		})
	})
}

// CORS middleware configuré pour le HUD local
func CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:8000",
		},
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			WebhookSecretHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-Request-ID",
			"X-Rate-Limit-Remaining",
		},
		MaxAge: 12 * time.Hour,
	}

	return cors.New(config)
}

// RequestID ajoute un ID unique à chaque requête
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// SecurityHeaders ajoute les en-têtes de sécurité
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// WebhookAuth vérifie le secret partagé du webhook.
// Comparaison en temps constant, jamais d'égalité ordinaire sur un secret.
func WebhookAuth(webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(WebhookSecretHeader)

		if subtle.ConstantTimeCompare([]byte(provided), []byte(webhookSecret)) != 1 {
			logrus.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"request_id": c.GetHeader("X-Request-ID"),
			}).Warn("Invalid webhook secret")

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Invalid webhook secret",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimiter garde un limiteur par client
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.RWMutex
	rpm      int
	burst    int
}

// NewRateLimiter crée un nouveau rate limiter
func NewRateLimiter(rpm, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rpm:      rpm,
		burst:    burst,
	}
}

// GetLimiter récupère ou crée un limiteur pour un client
func (rl *RateLimiter) GetLimiter(clientID string) *rate.Limiter {
	rl.mutex.RLock()
	limiter, exists := rl.limiters[clientID]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.rpm)), rl.burst)
		rl.limiters[clientID] = limiter
		rl.mutex.Unlock()
	}

	return limiter
}

// RateLimit middleware de rate limiting par IP
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := NewRateLimiter(cfg.RequestsPerMinute, cfg.BurstSize)

	// Nettoyage périodique
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiter.mutex.Lock()
			limiter.limiters = make(map[string]*rate.Limiter)
			limiter.mutex.Unlock()
		}
	}()

	return func(c *gin.Context) {
		clientID := c.ClientIP()
		clientLimiter := limiter.GetLimiter(clientID)

		if !clientLimiter.Allow() {
			logrus.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"request_id": c.GetHeader("X-Request-ID"),
			}).Warn("Rate limit exceeded")

			c.Header("X-Rate-Limit-Remaining", "0")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests, please slow down",
				"retry_after": 60,
				"request_id":  c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		remaining := int(clientLimiter.Tokens())
		c.Header("X-Rate-Limit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}

// JWTAuth middleware d'authentification JWT pour la surface admin
func JWTAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Authorization header required",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		// Vérifier le format Bearer
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Invalid authorization header format",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		// Parser et valider le token
		token, err := jwt.ParseWithClaims(tokenParts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err.Error(),
				"path":       c.Request.URL.Path,
				"client_ip":  c.ClientIP(),
				"request_id": c.GetHeader("X-Request-ID"),
			}).Warn("JWT validation failed")

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Invalid token",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("user_role", claims.Role)
			c.Next()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Invalid token claims",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}
	}
}

// RequireRole middleware qui vérifie les rôles utilisateur
func RequireRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("user_role")
		if userRole == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "User role not found",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		hasRole := false
		for _, requiredRole := range requiredRoles {
			if userRole == requiredRole {
				hasRole = true
				break
			}
		}

		if !hasRole {
			logrus.WithFields(logrus.Fields{
				"user_role":      userRole,
				"required_roles": requiredRoles,
				"path":           c.Request.URL.Path,
				"request_id":     c.GetHeader("X-Request-ID"),
			}).Warn("Access denied: insufficient permissions")

			c.JSON(http.StatusForbidden, gin.H{
				"error":      "Insufficient permissions",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ValidateContentType vérifie le type de contenu des écritures
func ValidateContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			contentType := c.GetHeader("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"error":      "Content-Type must be application/json",
					"request_id": c.GetHeader("X-Request-ID"),
				})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
