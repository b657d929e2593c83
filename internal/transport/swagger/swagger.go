package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger"
)

// DocumentPath is the public URL of the OpenAPI document.
const DocumentPath = "/openapi.yml"

// Document is a loaded and validated OpenAPI description.
type Document struct {
	Spec *openapi3.T
	raw  []byte
}

// Load reads the OpenAPI file from fs and validates it. A document that does
// not validate is rejected so the server never advertises a broken contract.
func Load(ctx context.Context, fs afero.Fs, path string) (*Document, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return &Document{Spec: spec, raw: raw}, nil
}

// ServeHTTP writes the document as it was read from disk.
func (d *Document) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.raw)
}

// Handler serves the Swagger UI pointed at DocumentPath.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
	)
}
