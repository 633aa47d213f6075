// Package view renders the stats site's HTML pages. Templates are
// embedded so the server binary is self-contained.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed assets/site.css
var siteCSS []byte

// WriteStaticAssets writes the embedded stylesheet into the static dir
// the daemon serves, so /static/site.css resolves.
func WriteStaticAssets(staticDir string) error {
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating static dir %s", staticDir)
	}
	path := filepath.Join(staticDir, "site.css")
	return errors.Wrapf(os.WriteFile(path, siteCSS, 0o644), "writing %s", path)
}

var funcMap = template.FuncMap{
	"commas": Commas,
}

// Renderer implements echo.Renderer on top of the embedded template
// set. Each page template is named after its file, eg "overview".
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Commas formats a number with thousands separators for headline
// stats, eg 12345678 -> "12,345,678".
func Commas(n interface{}) string {
	var s string
	switch v := n.(type) {
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatInt(int64(v+0.5), 10)
	default:
		return fmt.Sprintf("%v", n)
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
