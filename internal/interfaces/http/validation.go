package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Los errores se reportan con el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	// decimal.Decimal se valida como número para que required/dgte0 no entren en pánico.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			return fl.Field().Float() >= 0
		case reflect.Int, reflect.Int64, reflect.Int32:
			return fl.Field().Int() >= 0
		}
		return false
	})
	return v
}

// bindAndValidate parsea el cuerpo JSON y aplica las etiquetas validate.
// Devuelve un *domain.ValidationError o un error de campos para writeError.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &bodyError{err: err}
	}
	return validateStruct(req)
}

// bindQuery parsea la query string y la valida.
func bindQuery(c *fiber.Ctx, req interface{}) error {
	if err := c.QueryParser(req); err != nil {
		return &bodyError{err: err}
	}
	return validateStruct(req)
}

func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return &fieldsError{fields: fields}
}

// fieldPath quita el nombre del struct raíz: "CreateEntryRequest.lines[0].quantity" → "lines[0].quantity".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

type bodyError struct{ err error }

func (e *bodyError) Error() string { return "cuerpo inválido: " + e.err.Error() }

type fieldsError struct{ fields map[string]string }

func (e *fieldsError) Error() string { return "datos inválidos" }

func (e *fieldsError) Unwrap() error { return domain.ErrInvalidInput }

func validationResponse(fields map[string]string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields}
}
