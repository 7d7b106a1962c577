package api

// Run `go generate ./...` from the project root to regenerate routes.go
// after editing api-spec.yaml.

//go:generate go tool oapi-codegen --config=codegen.yaml api-spec.yaml
