// Package servers holds the HTTP API contract: the OpenAPI document, its wire
// types and the echo routing that binds path parameters before calling a
// ServerInterface.
package servers

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var rawSpec []byte

// Spec returns the raw OpenAPI document.
func Spec() []byte {
	return rawSpec
}

// GetSwagger parses the embedded OpenAPI document with external references disabled.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	return doc, nil
}
