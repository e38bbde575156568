package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
)

//go:embed openapi.yaml
var openapiDoc []byte

// Spec loads and validates the embedded OpenAPI document.
func Spec() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiDoc)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// turnRoute is the request validation route for POST /turn.
func turnRoute(doc *openapi3.T) (*routers.Route, error) {
	item := doc.Paths.Value("/turn")
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("openapi document has no POST /turn")
	}
	return &routers.Route{
		Spec:      doc,
		Path:      "/turn",
		PathItem:  item,
		Method:    http.MethodPost,
		Operation: item.Post,
	}, nil
}
