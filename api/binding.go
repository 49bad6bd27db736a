package api

import (
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin/binding"
)

// bindingValidator lets gin's ShouldBind* use the shared validator so handler
// binding and service checks report failures the same way.
type bindingValidator struct{}

func (bindingValidator) ValidateStruct(obj any) error {
	return validation.Struct(obj)
}

func (bindingValidator) Engine() any {
	return validation.Engine()
}

func init() {
	binding.Validator = bindingValidator{}
}
