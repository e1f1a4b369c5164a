package feed

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"text/template"

	"github.com/lepinkainen/folio/templates"
)

// TemplateGenerator renders text documents such as robots.txt and sitemaps.
type TemplateGenerator struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	// override is consulted first, usually the local templates directory.
	override fs.FS
	// fallback is the filesystem compiled into the binary.
	fallback fs.FS
}

// TemplateOption configures a TemplateGenerator.
type TemplateOption func(*TemplateGenerator)

// WithOverrideFS sets the filesystem searched before the embedded templates. Nil disables overrides.
func WithOverrideFS(f fs.FS) TemplateOption {
	return func(tg *TemplateGenerator) { tg.override = f }
}

// WithFallbackFS replaces the embedded templates.
func WithFallbackFS(f fs.FS) TemplateOption {
	return func(tg *TemplateGenerator) { tg.fallback = f }
}

// NewTemplateGenerator creates an empty template generator reading the local
// templates directory first and the embedded templates second.
func NewTemplateGenerator(opts ...TemplateOption) *TemplateGenerator {
	tg := &TemplateGenerator{
		templates: make(map[string]*template.Template),
		funcMap:   TemplateFuncs(),
		override:  os.DirFS("templates"),
		fallback:  templates.EmbeddedTemplates,
	}
	for _, opt := range opts {
		opt(tg)
	}
	return tg
}

// LoadTemplates loads every template matching pattern (for example "*.xml.tmpl").
// Files in the override filesystem replace embedded ones of the same name.
// A template is named after its file name without the ".tmpl" suffix.
func (tg *TemplateGenerator) LoadTemplates(pattern string) error {
	matches, err := fs.Glob(tg.fallback, pattern)
	if err != nil {
		return fmt.Errorf("invalid template pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no templates match %q", pattern)
	}

	for _, file := range matches {
		content, source, err := tg.readTemplateFile(file)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		if err := tg.parse(name, source, content); err != nil {
			return err
		}
	}

	return nil
}

func (tg *TemplateGenerator) parse(name, source string, content []byte) error {
	tmpl, err := template.New(name).Funcs(tg.funcMap).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", source, err)
	}

	tg.templates[name] = tmpl
	slog.Debug("Template loaded successfully", "name", name, "source", source)
	return nil
}

// ReadTemplate returns the raw content of a template file, override first.
func (tg *TemplateGenerator) ReadTemplate(file string) ([]byte, error) {
	content, source, err := tg.readTemplateFile(file)
	if err != nil {
		return nil, err
	}
	slog.Debug("Read template", "file", file, "source", source)
	return content, nil
}

// readTemplateFile prefers the override filesystem and falls back to the embedded copy.
func (tg *TemplateGenerator) readTemplateFile(file string) ([]byte, string, error) {
	if tg.override != nil {
		if content, err := fs.ReadFile(tg.override, file); err == nil {
			return content, "override:" + file, nil
		}
	}

	content, err := fs.ReadFile(tg.fallback, file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read embedded template %s: %w", file, err)
	}
	return content, "embedded:" + file, nil
}

// GenerateFromTemplate executes the named template with data.
func (tg *TemplateGenerator) GenerateFromTemplate(templateName string, data any, writer io.Writer) error {
	tmpl, exists := tg.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	if err := tmpl.Execute(writer, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return nil
}

// GetAvailableTemplates returns the loaded template names, sorted.
func (tg *TemplateGenerator) GetAvailableTemplates() []string {
	templates := make([]string, 0, len(tg.templates))
	for name := range tg.templates {
		templates = append(templates, name)
	}
	slices.Sort(templates)
	return templates
}
