package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-commandes/i18n"
	"github.com/diewo77/go-commandes/validation"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templatesFS embed.FS

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(_ *http.Request) string { return i18n.Default }
	// flashResolver reads (and clears) the pending flash message, if any.
	flashResolver func(http.ResponseWriter, *http.Request) string
)

// SetLangResolver allows the host app to provide a custom language resolver (e.g., reading from context).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetFlashResolver installs the callback that pops the flash message.
func SetFlashResolver(f func(http.ResponseWriter, *http.Request) string) {
	flashResolver = f
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.Default
	if r != nil {
		lang = langResolver(r)
	}
	return funcs(lang)
}

func funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":      func(code string) string { return i18n.T(lang, code) },
		"lang":   func() string { return lang },
		"statut": func(v any) string { return i18n.T(lang, "statut."+fmt.Sprint(v)) },
		"mode":   func(v any) string { return i18n.T(lang, "mode."+fmt.Sprint(v)) },
		"money":  func(v any) string { return Money(lang, v) },
		"year":   func() int { return time.Now().Year() },
		"query":  url.QueryEscape,
		"add": func(a, b int) int {
			return a + b
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
		// active marks the nav entry owning the current path.
		"active": func(path, prefix string) bool {
			return path == prefix || strings.HasPrefix(path, prefix+"/")
		},
	}
}

// Money formats an amount with two decimals and the euro sign.
// nil pointers render as "-".
func Money(lang string, v any) string {
	var d decimal.Decimal
	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case float64:
		d = decimal.NewFromFloat(n)
	case *float64:
		if n == nil {
			return "-"
		}
		d = decimal.NewFromFloat(*n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	default:
		return fmt.Sprint(v)
	}
	s := d.StringFixed(2)
	if lang == "fr" {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s + " €"
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// lookup parses layout + partials + the page once and caches it.
// DEV=1 disables the cache.
func lookup(name string) (*template.Template, error) {
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	t, err := template.New("layout.html").Funcs(funcs(i18n.Default)).ParseFS(templatesFS,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+name,
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes a page inside the layout with a 200 status.
// name is the path under templates/ (e.g., "commandes/view.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus renders into a buffer first so a template error never
// leaves a half-written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Errors"]; !exists {
		data["Errors"] = validation.Violations{}
	}
	if _, exists := data["Flash"]; !exists && flashResolver != nil {
		data["Flash"] = flashResolver(w, r)
	}
	data["Path"] = r.URL.Path
	data["Lang"] = langResolver(r)

	base, err := lookup(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
