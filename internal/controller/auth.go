package controller

import (
	"gig-marketplace-api/internal/service"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type authRoutesHandler struct {
	authService  service.Auth
	validate     *validator.Validate
	sessionTTL   time.Duration
	secureCookie bool
}

func newAuthRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate,
	auth echo.MiddlewareFunc, opts Options) *authRoutesHandler {
	h := &authRoutesHandler{
		authService:  services.Auth,
		validate:     v,
		sessionTTL:   opts.SessionTTL,
		secureCookie: opts.SecureCookie,
	}
	outer.POST("/auth/register", h.Register)
	outer.POST("/auth/login", h.Login)
	outer.POST("/auth/logout", h.Logout)
	outer.GET("/auth/me", h.Me, auth)

	return h
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// /auth/register
func (h *authRoutesHandler) Register(c echo.Context) error {
	var input registerInput
	if err := c.Bind(&input); err != nil {
		return respondBadInput(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return respondBadInput(c, err)
	}

	session, err := h.authService.Register(c.Request().Context(), input.Name, input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, session.Token, time.Now().Add(h.sessionTTL))
	if e := respondOK(c, http.StatusCreated, "User registered successfully", session); e != nil {
		return e
	}

	return nil
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// /auth/login
func (h *authRoutesHandler) Login(c echo.Context) error {
	var input loginInput
	if err := c.Bind(&input); err != nil {
		return respondBadInput(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return respondBadInput(c, err)
	}

	session, err := h.authService.Login(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, session.Token, time.Now().Add(h.sessionTTL))
	if e := respondOK(c, http.StatusOK, "Login successful", session); e != nil {
		return e
	}

	return nil
}

// /auth/logout
func (h *authRoutesHandler) Logout(c echo.Context) error {
	h.setSessionCookie(c, "", time.Unix(0, 0))
	if e := respondOK(c, http.StatusOK, "Logged out successfully", nil); e != nil {
		return e
	}

	return nil
}

// /auth/me
func (h *authRoutesHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), actorId(c))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", user); e != nil {
		return e
	}

	return nil
}

func (h *authRoutesHandler) setSessionCookie(c echo.Context, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	c.SetCookie(cookie)
}
