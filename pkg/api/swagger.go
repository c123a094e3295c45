package api

import (
	"fmt"
	"net/http"

	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>gamehdr API</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
	  window.onload = function() {
	    SwaggerUIBundle({
	      url: '/swagger/swagger.json',
	      dom_id: '#swagger-ui',
	      presets: [
	        SwaggerUIBundle.presets.apis,
	        SwaggerUIBundle.presets.standalone
	      ]
	    });
	  };
	</script>
</body>
</html>`

// swaggerYAML converts the registered JSON document to YAML. JSON is valid
// YAML, so a decode and re-encode is enough.
func swaggerYAML(doc string) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal([]byte(doc), &v); err != nil {
		return nil, fmt.Errorf("failed to parse swagger doc: %w", err)
	}
	return yaml.Marshal(v)
}

// handleSwagger serves the Swagger UI and the API document as JSON or YAML
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))

	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(swag.Name)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to read swagger doc")
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))

	case "/swagger/swagger.yaml":
		doc, err := swag.ReadDoc(swag.Name)
		if err == nil {
			var out []byte
			if out, err = swaggerYAML(doc); err == nil {
				w.Header().Set("Content-Type", "application/yaml")
				_, _ = w.Write(out)
				return
			}
		}
		s.logger.Error().Err(err).Msg("failed to render swagger yaml")
		http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)

	default:
		http.NotFound(w, r)
	}
}
