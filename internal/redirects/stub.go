package redirects

import (
	"bytes"
	"html/template"
)

var stubTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Redirecting…</title>
<link rel="canonical" href="{{.}}">
<meta name="robots" content="noindex">
<meta http-equiv="refresh" content="0; url={{.}}">
<script>window.location.replace({{.}})</script>
</head>
<body><a href="{{.}}">{{.}}</a></body>
</html>
`))

// Stub renders an HTML page that performs a full load of target. Static
// hosts serve it at the legacy path.
func Stub(target string) ([]byte, error) {
	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, target); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
