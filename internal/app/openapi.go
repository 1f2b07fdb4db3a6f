package app

import _ "embed"

// OpenAPISpec is the OpenAPI document of the stub posts API
//
//go:embed openapi.yaml
var OpenAPISpec []byte
