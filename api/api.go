// Package api holds the OpenAPI document of the sixpmaster HTTP surface.
package api

import _ "embed"

// OpenAPI is the raw OpenAPI 3 document.
//
//go:embed sixpmaster.openapi.yaml
var OpenAPI []byte
