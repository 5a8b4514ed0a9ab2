package controller

import (
	"errors"
	"fmt"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/service"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	internalErrorMessage = "Internal server error"
	badInputMessage      = "Input data is not formed correctly"
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, response{Success: true, Message: message, Data: data})
}

func respondFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, response{Success: false, Message: message})
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

// respondError writes the failure envelope for err and hands err back so
// echo sees the handler failed. Errors that are not *service.Error never
// show their text to the client.
func respondError(c echo.Context, err error) error {
	status, message := http.StatusInternalServerError, internalErrorMessage
	var serviceErr *service.Error
	if errors.As(err, &serviceErr) {
		status, message = statusForKind(serviceErr.Kind), serviceErr.Message
	}

	entry := logger.FromContext(c.Request().Context()).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	if e := respondFailure(c, status, message); e != nil {
		return e
	}

	return err
}

func respondBadInput(c echo.Context, err error) error {
	message := badInputMessage
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		message = getAllErrorMessages(validationErrs)
	}

	if e := respondFailure(c, http.StatusBadRequest, message); e != nil {
		return e
	}

	return err
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}

		return field.Name
	})

	return v
}

func getAllErrorMessages(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fmt.Sprintf("'%s': %s", fe.Field(), getMessage(fe)))
	}

	return strings.Join(messages, "; ")
}

func getMessage(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "email":
		return "should be a valid email address"
	}

	return "incorrect value passed"
}
