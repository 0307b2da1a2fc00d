package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds the {name} path segment as a UUID, writing a 400 response
// and returning false when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "invalid format for parameter "+name+": "+err.Error())
		return openapi_types.UUID{}, false
	}
	return id, true
}

// queryInt binds an optional integer query parameter. A nil result means the
// parameter was absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "invalid format for parameter "+name+": "+err.Error())
		return nil, false
	}
	return v, true
}

// queryString binds an optional string query parameter, returning "" when absent.
func queryString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "invalid format for parameter "+name+": "+err.Error())
		return "", false
	}
	if v == nil {
		return "", true
	}
	return *v, true
}
