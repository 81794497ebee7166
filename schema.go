package main

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func simulateSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			DoNotReference:             true,
		}
		schema = reflector.Reflect(new(simulateRequest))
		schema.Title = "ppsim simulation"
		schema.Description = "Body of POST /api/v1/simulate. Every hit count is optional."
	})
	return schema
}

// SchemaGET serves the JSON schema of simulation requests.
func SchemaGET(c *gin.Context) {
	c.JSON(200, simulateSchema())
}
