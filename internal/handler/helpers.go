package handler

import (
	"errors"
	"net/http"
	"reflect"

	"stockpro/internal/apierror"
	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Erro", "JSON inválido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Erro", "Parâmetros inválidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Erro", err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// pathID parses a UUID path parameter, writing a 400 when malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Erro", "ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto status codes. Anything unclassified
// is handed to the ErrorHandler middleware, which logs it and answers 500.
func respondError(c *gin.Context, title string, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(title, err.Error()))
	case service.IsConflict(err):
		c.JSON(http.StatusConflict, apierror.New(title, err.Error()))
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, apierror.New(title, err.Error()))
	default:
		_ = c.Error(err)
	}
}
