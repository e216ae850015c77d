package rpc

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

// Handler receives the raw JSON input of one call; it is empty when the
// caller sent none.
type Handler func(c echo.Context, input json.RawMessage) (any, error)

type Procedure struct {
	Name      string
	Kind      Kind
	Protected bool
	Handler   Handler
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind decodes the call input into In and runs its validate tags before fn.
// A missing input decodes to the zero In.
func Bind[In any](fn func(c echo.Context, in In) (any, error)) Handler {
	return func(c echo.Context, raw json.RawMessage) (any, error) {
		var in In
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, Wrap(CodeBadRequest, "invalid input", err)
			}
		}
		if validatable(in) {
			if err := validate.Struct(in); err != nil {
				return nil, Wrap(CodeBadRequest, validationMessage(err), err)
			}
		}
		return fn(c, in)
	}
}

func NoInput(fn func(c echo.Context) (any, error)) Handler {
	return func(c echo.Context, _ json.RawMessage) (any, error) {
		return fn(c)
	}
}

func validatable(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid input"
	}
	fe := verrs[0]
	return "invalid input: " + fe.Field() + " failed " + fe.Tag()
}
