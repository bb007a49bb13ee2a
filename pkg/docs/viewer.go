package docs

import (
	"html/template"
	"io"
)

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: '#swagger-ui' });
    </script>
  </body>
</html>
`))

// WriteViewer renders the swagger-ui page that loads the document at specURL.
func WriteViewer(w io.Writer, specURL string, opts Options) error {
	return viewerTemplate.Execute(w, struct {
		Title   string
		SpecURL string
	}{
		Title:   opts.title(),
		SpecURL: specURL,
	})
}
