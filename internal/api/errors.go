package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/pkg/api"
)

var setupValidatorOnce sync.Once

// setupValidator makes validation errors use json field names and rejects
// unknown body fields.
func setupValidator() {
	setupValidatorOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					return fld.Name
				}
				return name
			})
		}
	})
}

type statusError struct {
	status  int
	message string
}

var sentinelStatus = []struct {
	err error
	statusError
}{
	{core.ErrInvalidID, statusError{http.StatusBadRequest, "Invalid ID provided"}},
	{core.ErrInvalidResetToken, statusError{http.StatusBadRequest, "Token is invalid or has expired"}},
	{core.ErrSelfAction, statusError{http.StatusBadRequest, "You cannot perform this action on your own account"}},
	{core.ErrInvalidCredentials, statusError{http.StatusUnauthorized, "Incorrect email or password"}},
	{core.ErrSessionExpired, statusError{http.StatusUnauthorized, "Your session has expired, please log in again"}},
	{core.ErrUserGone, statusError{http.StatusUnauthorized, "The user belonging to this token no longer exists"}},
	{core.ErrUnauthorized, statusError{http.StatusUnauthorized, "You are not logged in, please log in to get access"}},
	{core.ErrUserBanned, statusError{http.StatusForbidden, "Your account has been banned"}},
	{core.ErrForbidden, statusError{http.StatusForbidden, "You do not have permission to perform this action"}},
	{core.ErrUserNotFound, statusError{http.StatusNotFound, "Not found the user with the ID"}},
	{core.ErrCartNotFound, statusError{http.StatusNotFound, "Not found the cart with the ID"}},
	{core.ErrProductNotFound, statusError{http.StatusNotFound, "Not found the product with the ID"}},
	{core.ErrCategoryNotFound, statusError{http.StatusNotFound, "Not found the category with the ID"}},
	{core.ErrVariantNotFound, statusError{http.StatusNotFound, "Not found the variant with the ID"}},
	{core.ErrSizeNotFound, statusError{http.StatusNotFound, "Not found the size with the ID"}},
}

// respondError writes err as the error envelope. Unknown errors become a 500
// and are logged with their cause.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		api.Error(c, http.StatusBadRequest, verr.Message, verr.Fields)
		return
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			api.Error(c, s.status, s.message, nil)
			return
		}
	}

	logger.Error("Request failed",
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	api.Error(c, http.StatusInternalServerError, "Internal Server Error", nil)
}

// bindJSON decodes the body into req and writes a 400 envelope on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	message, fields := bindingErrors(err)
	api.Error(c, http.StatusBadRequest, message, fields)
	return false
}

// bindingErrors translates decoding and validation failures into a message
// and a field map. All failing fields are reported.
func bindingErrors(err error) (string, map[string]string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			name := fieldName(fe)
			if _, ok := fields[name]; !ok {
				fields[name] = fieldMessage(fe)
			}
		}
		return "Validation failed", fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "Invalid request body", map[string]string{
			typeErr.Field: fmt.Sprintf("Must be of type %s", typeErr.Type.String()),
		}
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required", nil
	}
	return "Invalid request body: " + err.Error(), nil
}

// fieldName strips the struct name from the namespace, leaving keys such as
// "items[0].product".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "hexcolor":
		return "Must be a hex color such as #ff0000"
	case "eqfield":
		return "Passwords do not match"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
}
