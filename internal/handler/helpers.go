package handler

import (
	"errors"
	"net/http"
	"reflect"

	"agrocrm/internal/apierror"
	"agrocrm/internal/cpf"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// `cpf` tag: full check-digit validation. Input is normalized first so
	// both "12345678909" and "123.456.789-09" pass binding.
	_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpf.IsValid(cpf.Normalize(fl.Field().String()))
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryFilter binds and validates a query-string filter struct.
func bindQueryFilter(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(filter); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service-layer errors to status codes. Typed apierror
// values carry their status; anything else is an unexpected failure and is
// logged server-side, never leaked.
func respondError(c *gin.Context, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apierror.New(apiErr.Detail))
		return
	}
	log.Error().
		Err(err).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}
