package handlers

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	tc := &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{},
	}
	tc.AddFunc("inr", FormatINR)
	tc.AddFunc("rupees", formatRupees)
	return tc
}

// AddFunc registers a template helper. It must be called before Load.
func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every *.html page in fsys together with the shared layout.html.
func (tc *TemplateCache) Load(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return err
	}
	for _, page := range pages {
		if page == "layout.html" {
			continue
		}
		tmpl, err := template.New(page).Funcs(tc.funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			slog.Error("Failed to parse template", "file", page, "error", err)
			return err
		}
		tc.cache[page] = tmpl
		slog.Debug("Cached template", "name", page)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// Render executes the named page's layout.
func (tc *TemplateCache) Render(w http.ResponseWriter, name string, data any) {
	tmpl := tc.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("Failed to render template", "name", name, "error", err)
	}
}

// FormatINR renders minor units as rupees with Indian digit grouping,
// e.g. 12345678 -> ₹1,23,456.78.
func FormatINR(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	rupees := strconv.Itoa(cents / 100)
	paise := cents % 100

	if len(rupees) > 3 {
		head, tail := rupees[:len(rupees)-3], rupees[len(rupees)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		rupees = strings.Join(groups, ",") + "," + tail
	}
	return sign + "₹" + rupees + "." + twoDigits(paise)
}

// formatRupees renders minor units for a price input, e.g. 24950 -> 249.50.
func formatRupees(cents int) string {
	return strconv.Itoa(cents/100) + "." + twoDigits(cents%100)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
