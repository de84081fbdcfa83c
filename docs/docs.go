// Package docs serves the OpenAPI document behind the Swagger UI.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed swagger.json
var swaggerJSON []byte

// JSON returns the embedded OpenAPI document.
func JSON() []byte {
	return swaggerJSON
}

// Handler serves the document at /swagger/doc.json.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(swaggerJSON)
}
