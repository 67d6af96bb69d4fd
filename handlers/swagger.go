package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document for the
// content API mounted at prefix.
//   - GET /swagger/index.html
//   - GET /swagger/doc.json
func RegisterSwagger(rg *gin.Engine, prefix string) {
	doc := openAPI(prefix)
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>folio API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: '/swagger/doc.json', dom_id: '#swagger-ui' });
    </script>
  </body>
</html>`

type op struct {
	method, summary string
	secured         bool
}

var apiRoutes = []struct {
	path string
	ops  []op
}{
	{"/auth/login", []op{{"post", "Exchange admin credentials for a bearer token", false}}},
	{"/auth/logout", []op{{"post", "Revoke the presented token", true}}},
	{"/auth/me", []op{{"get", "Current admin identity", true}}},
	{"/about-content", singletonOps("about page")},
	{"/home-content", singletonOps("home page")},
	{"/resume-content", singletonOps("resume")},
	{"/contact", singletonOps("contact details")},
	{"/general-details", singletonOps("site-wide details")},
	{"/blogs", listOps("blog posts")},
	{"/blogs/{id}", itemOps("blog post")},
	{"/blogs/slug/{slug}", []op{{"get", "Get a blog post by slug", false}}},
	{"/portfolio", listOps("portfolio items")},
	{"/portfolio/{id}", itemOps("portfolio item")},
	{"/services", listOps("services")},
	{"/services/{id}", itemOps("service")},
	{"/process-content", []op{{"get", "Get the process section", false}, {"post", "Replace the process section", true}}},
	{"/process-content/{id}", []op{{"put", "Replace the process section by id", true}, {"delete", "Delete the process section", true}}},
	{"/upload/image", []op{{"post", "Upload an image (multipart field file)", true}}},
	{"/upload/document", []op{{"post", "Upload a PDF document", true}}},
	{"/upload/favicon", []op{{"post", "Upload a favicon", true}}},
	{"/upload/image/{publicId}", []op{{"delete", "Delete an uploaded image", true}}},
	{"/upload/document/{publicId}", []op{{"delete", "Delete an uploaded document", true}}},
	{"/contact/send", []op{{"post", "Send a contact message", false}}},
	{"/quote/send", []op{{"post", "Send a quote request", false}}},
	{"/import-export/export", []op{{"get", "Download a full content bundle", true}}},
	{"/import-export/export-frontend", []op{{"get", "Download the public content bundle", true}}},
	{"/import-export/import", []op{{"post", "Import a content bundle", true}}},
	{"/import-export/summary", []op{{"get", "Document counts per collection", true}}},
}

func singletonOps(what string) []op {
	return []op{{"get", "Get the " + what, false}, {"put", "Update the " + what, true}}
}

func listOps(what string) []op {
	return []op{{"get", "List " + what, false}, {"post", "Create one of the " + what, true}}
}

func itemOps(what string) []op {
	return []op{{"get", "Get a " + what, false}, {"put", "Update a " + what, true}, {"delete", "Delete a " + what, true}}
}

func openAPI(prefix string) gin.H {
	paths := gin.H{}
	for _, r := range apiRoutes {
		item := gin.H{}
		for _, o := range r.ops {
			entry := gin.H{"summary": o.summary, "responses": gin.H{"200": gin.H{"description": "OK"}}}
			if o.secured {
				entry["security"] = []gin.H{{"bearerAuth": []string{}}}
			}
			item[o.method] = entry
		}
		paths[r.path] = item
	}
	return gin.H{
		"openapi": "3.0.0",
		"info":    gin.H{"title": "folio content API", "version": "1.0.0"},
		"servers": []gin.H{{"url": prefix}},
		"paths":   paths,
		"components": gin.H{"securitySchemes": gin.H{
			"bearerAuth": gin.H{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
		}},
	}
}
