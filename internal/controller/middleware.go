package controller

import (
	"errors"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/token"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	actorIdKey      = "actorId"
	tokenCookieName = "token"
	requestIdHeader = "X-Request-ID"
)

func actorId(c echo.Context) string {
	id, _ := c.Get(actorIdKey).(string)

	return id
}

// requestContext tags the request's logger with a request id, taken from the
// client when it sent one.
func requestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestId := c.Request().Header.Get(requestIdHeader)
			if requestId == "" {
				requestId = uuid.New().String()
			}
			c.Response().Header().Set(requestIdHeader, requestId)

			ctx := logger.WithFields(c.Request().Context(), logrus.Fields{"request_id": requestId})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.FromContext(c.Request().Context()).WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}).Debug("request handled")

			return err
		}
	}
}

// rateLimiter allows each client address rps requests per second with the
// given burst. Limiters of idle clients are dropped after a few minutes.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	limiters := cache.New(5*time.Minute, 10*time.Minute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			limiter := rate.NewLimiter(rate.Limit(rps), burst)
			if err := limiters.Add(key, limiter, cache.DefaultExpiration); err != nil {
				if existing, ok := limiters.Get(key); ok {
					limiter = existing.(*rate.Limiter)
				}
			}

			if !limiter.Allow() {
				return respondFailure(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			}

			return next(c)
		}
	}
}

// requireAuth reads the session token from the token cookie or a bearer
// Authorization header and rejects the request unless it is valid.
func requireAuth(auth service.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := tokenFromRequest(c)
			if tokenString == "" {
				return respondFailure(c, http.StatusUnauthorized, "Access denied. No token provided.")
			}

			userId, err := auth.Authenticate(tokenString)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return respondFailure(c, http.StatusUnauthorized, "Token expired")
				}

				return respondFailure(c, http.StatusUnauthorized, "Invalid token")
			}

			c.Set(actorIdKey, userId)
			ctx := logger.WithFields(c.Request().Context(), logrus.Fields{"actor_id": userId})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}

	return ""
}
