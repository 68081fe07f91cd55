package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// handlerBase lo que comparten todos los handlers: validador y logger.
type handlerBase struct {
	validate *validator.Validate
	log      *logger.Logger
}

func newHandlerBase(log *logger.Logger) handlerBase {
	v := validator.New()
	// Los errores de validación usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return handlerBase{validate: v, log: logger.OrNop(log).Component("http")}
}
