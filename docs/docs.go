// Package docs expone la especificación OpenAPI de la API (swagger.json) a swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

type openAPIDoc struct{}

// ReadDoc implementa swag.Swagger.
func (openAPIDoc) ReadDoc() string { return doc }

func init() {
	swag.Register(swag.Name, openAPIDoc{})
}
