package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// LoadSpec parses and validates the embedded OpenAPI document.
var LoadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// GraphParams are the query parameters of GET /runs/{id}/graph.
type GraphParams struct {
	Stage  *string `form:"stage,omitempty" json:"stage,omitempty"`
	Format *string `form:"format,omitempty" json:"format,omitempty"`
}

func serveSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(rawSpec)
}

// runID binds the {id} path parameter.
func runID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

func bindGraphParams(r *http.Request) (GraphParams, error) {
	var params GraphParams
	if err := runtime.BindQueryParameter("form", true, false, "stage", r.URL.Query(), &params.Stage); err != nil {
		return params, fmt.Errorf("invalid format for parameter stage: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		return params, fmt.Errorf("invalid format for parameter format: %w", err)
	}
	return params, nil
}

// decodeBody validates the request body against the named component schema
// before decoding it into dst. Without a loaded OpenAPI document only decoding happens.
func (s *Server) decodeBody(r *http.Request, schema string, dst any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if s.spec != nil {
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		ref, ok := s.spec.Components.Schemas[schema]
		if !ok || ref.Value == nil {
			return fmt.Errorf("unknown schema %q", schema)
		}
		if err := ref.Value.VisitJSON(raw); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, dst)
}
