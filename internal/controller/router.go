package controller

import (
	"fmt"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/service"
	"net/http"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

type Options struct {
	SessionTTL        time.Duration
	SecureCookie      bool
	RequestsPerSecond float64
	Burst             int
}

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, opts Options) {
	handler.HideBanner = true
	handler.HTTPErrorHandler = handleUnwrittenError
	handler.Use(middleware.Recover())
	handler.Use(requestContext())
	handler.Use(requestLogger())
	if opts.RequestsPerSecond > 0 {
		handler.Use(rateLimiter(opts.RequestsPerSecond, opts.Burst))
	}

	validate := newValidator()
	auth := requireAuth(services.Auth)
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newAuthRoutesHandler(api, services, validate, auth, opts)
	newGigRoutesHandler(api, services, validate, auth)
	newBidRoutesHandler(api, services, validate, auth)
}

// handleUnwrittenError answers errors that reached echo before any handler
// wrote a response: unknown routes, wrong methods and recovered panics.
func handleUnwrittenError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := http.StatusInternalServerError, internalErrorMessage
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if status < http.StatusInternalServerError {
			message = fmt.Sprint(he.Message)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).WithError(err).Error("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = respondFailure(c, status, message)
}
