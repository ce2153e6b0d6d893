package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the OpenAPI endpoints for the blog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>blog API · Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "blog", "version": "v1.0.0" },
  "paths": {
    "/api/posts": {
      "get": {
        "summary": "List post summaries, or search them when q is set",
        "parameters": [
          { "name": "q", "in": "query", "schema": { "type": "string" } },
          { "name": "mode", "in": "query", "schema": { "type": "string", "enum": ["fuzzy", "fulltext"] } }
        ],
        "responses": { "200": { "description": "posts or ranked hits" }, "400": { "description": "unknown search mode" } }
      }
    },
    "/api/posts/ids": { "get": { "summary": "List every post id", "responses": { "200": { "description": "ids" } } } },
    "/api/posts/featured": {
      "get": {
        "summary": "Newest posts",
        "parameters": [ { "name": "n", "in": "query", "schema": { "type": "integer", "minimum": 1 } } ],
        "responses": { "200": { "description": "post summaries" }, "400": { "description": "invalid n" } }
      }
    },
    "/api/posts/{id}": {
      "get": {
        "summary": "Full post with rendered HTML",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "responses": { "200": { "description": "post and html" }, "404": { "description": "post not found" }, "422": { "description": "front matter could not be parsed" } }
      }
    },
    "/api/posts/{id}/related": {
      "get": {
        "summary": "Posts sharing tags with the given post",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "responses": { "200": { "description": "post summaries" }, "404": { "description": "post not found" } }
      }
    },
    "/api/tags": { "get": { "summary": "Distinct tags in first-seen order", "responses": { "200": { "description": "tags" } } } },
    "/api/reload": { "post": { "summary": "Re-read the post source and rebuild indexes", "responses": { "200": { "description": "post count" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
