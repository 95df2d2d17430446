package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/sitekit-dev/sitekit/internal/scaffold"
)

// frontMatter is the recognized header of a markdown page.
type frontMatter struct {
	Title  string `yaml:"title"`
	Layout string `yaml:"layout"`
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// markdownEntry wraps converted markdown in a layout: the page supplies
// the layout's "title" and "content" blocks and then executes the layout.
const markdownEntry = `{{define "title"}}{{.Title}}{{end}}{{define "content"}}{{.Content}}{{end}}{{template %q .}}`

func (b *Builder) renderMarkdown(env *Environment, slug, tmplName, output string) PageResult {
	raw, err := fs.ReadFile(env.fsys, tmplName)
	if err != nil {
		return b.failed(slug, tmplName, output, fmt.Errorf("read markdown: %w", err))
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return b.failed(slug, tmplName, output, fmt.Errorf("front matter: %w", err))
	}

	var html bytes.Buffer
	if err := md.Convert(body, &html); err != nil {
		return b.failed(slug, tmplName, output, fmt.Errorf("convert markdown: %w", err))
	}

	layout := meta.Layout
	if layout == "" {
		layout = b.opts.MarkdownLayout
	}
	title := meta.Title
	if title == "" {
		title = scaffold.ToTitle(slug)
	}

	t, err := env.LoadSource(tmplName, fmt.Sprintf(markdownEntry, layout))
	if err != nil {
		return b.failed(slug, tmplName, output, err)
	}

	data := pageData(b.opts.Site, slug)
	data["Title"] = title
	data["Content"] = template.HTML(html.String())

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return b.failed(slug, tmplName, output, err)
	}
	return b.write(slug, tmplName, output, buf.Bytes())
}
