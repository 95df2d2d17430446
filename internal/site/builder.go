package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/defs"
)

// Options locates the inputs and outputs of a build. Directory fields are
// absolute; template names are relative to TemplatesDir.
type Options struct {
	ProjectRoot    string
	TemplatesDir   string
	PagesDir       string // relative to TemplatesDir
	HomeTemplate   string
	OutputDir      string
	StaticDir      string
	Suffix         string
	MarkdownLayout string
	Site           SiteInfo
}

// OptionsFromConfig derives build options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ProjectRoot:    cfg.Root,
		TemplatesDir:   cfg.TemplatesPath(),
		PagesDir:       cfg.Build.PagesDir,
		HomeTemplate:   cfg.Build.HomeTemplate,
		OutputDir:      cfg.OutputPath(),
		StaticDir:      cfg.StaticPath(),
		Suffix:         cfg.Build.TemplateSuffix,
		MarkdownLayout: cfg.Build.MarkdownLayout,
		Site: SiteInfo{
			Name:    cfg.Site.Name,
			BaseURL: cfg.Site.BaseURL,
		},
	}
}

// Reporter receives each page result as soon as it is known.
type Reporter interface {
	PageDone(PageResult)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(PageResult)

// PageDone implements Reporter.
func (f ReporterFunc) PageDone(r PageResult) { f(r) }

// Builder renders the home page and every page template into the output
// directory. A failing page is recorded and the remaining pages still render.
type Builder struct {
	opts     Options
	reporter Reporter
	logger   *slog.Logger
}

// NewBuilder creates a Builder. A nil reporter or logger is allowed.
func NewBuilder(opts Options, reporter Reporter, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Suffix == "" {
		opts.Suffix = defs.TemplateSuffix
	}
	if opts.MarkdownLayout == "" {
		opts.MarkdownLayout = defs.BaseTemplate
	}
	return &Builder{opts: opts, reporter: reporter, logger: logger}
}

// Build performs one full build. The returned error covers failures that
// stop the build as a whole; page failures are only in the Report.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := &Report{}
	env := NewEnvironment(os.DirFS(b.opts.TemplatesDir), b.opts.Suffix)

	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}

	b.logger.Debug("building site", "templates", b.opts.TemplatesDir, "output", b.opts.OutputDir)

	b.record(report, b.renderTemplate(env, "home", b.opts.HomeTemplate, defs.IndexHTML, homeData(b.opts.Site)))

	pages, err := b.listPages()
	if err != nil {
		return report, err
	}

	written := map[string]string{}
	for _, name := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		tmplName := path.Join(b.opts.PagesDir, name)
		slug, isMarkdown := b.slugOf(name)
		output := path.Join(slug, defs.IndexHTML)

		var result PageResult
		switch {
		case slug == "" || strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, "."):
			result = b.failed(slug, tmplName, output, fmt.Errorf("%w: %q", ErrInvalidSlug, name))
		case written[slug] != "":
			result = b.failed(slug, tmplName, output,
				fmt.Errorf("%w: %q already produced by %s", ErrDuplicateSlug, slug, written[slug]))
		case isMarkdown:
			result = b.renderMarkdown(env, slug, tmplName, output)
		default:
			result = b.renderTemplate(env, slug, tmplName, output, pageData(b.opts.Site, slug))
		}
		if slug != "" && written[slug] == "" {
			written[slug] = tmplName
		}
		b.record(report, result)
	}

	if b.copiesStatic() {
		n, err := copyStatic(b.opts.StaticDir, filepath.Join(b.opts.OutputDir, filepath.Base(b.opts.StaticDir)))
		if err != nil {
			return report, err
		}
		report.StaticFiles = n
	}

	if b.opts.Site.BaseURL != "" {
		if err := writeSitemap(b.opts.OutputDir, b.opts.Site.BaseURL, report.Pages); err != nil {
			return report, err
		}
		report.SitemapWrote = true
	}

	b.logger.Info("build finished",
		"pages", len(report.Pages), "failed", len(report.Failed()), "static_files", report.StaticFiles)
	return report, nil
}

func (b *Builder) record(report *Report, r PageResult) {
	report.Pages = append(report.Pages, r)
	if r.OK() {
		b.logger.Debug("page rendered", "page", r.Name, "output", r.Output, "bytes", r.Bytes)
	} else {
		b.logger.Warn("page failed", "page", r.Name, "error", r.Err)
	}
	if b.reporter != nil {
		b.reporter.PageDone(r)
	}
}

// listPages returns the sorted file names directly inside the pages
// directory that are page sources. A missing pages directory is empty.
func (b *Builder) listPages() ([]string, error) {
	dir := filepath.Join(b.opts.TemplatesDir, filepath.FromSlash(b.opts.PagesDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Debug("no pages directory", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("list pages: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := b.pageKind(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// pageKind reports whether name is a page source and whether it is markdown.
func (b *Builder) pageKind(name string) (markdown bool, ok bool) {
	switch {
	case strings.HasSuffix(name, b.opts.Suffix):
		return false, true
	case strings.HasSuffix(name, defs.MarkdownSuffix):
		return true, true
	}
	return false, false
}

func (b *Builder) slugOf(name string) (slug string, markdown bool) {
	markdown, _ = b.pageKind(name)
	if markdown {
		return strings.TrimSuffix(name, defs.MarkdownSuffix), true
	}
	return strings.TrimSuffix(name, b.opts.Suffix), false
}

func (b *Builder) renderTemplate(env *Environment, page, tmplName, output string, data PageData) PageResult {
	t, err := env.Load(tmplName)
	if err != nil {
		return b.failed(page, tmplName, output, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return b.failed(page, tmplName, output, err)
	}
	return b.write(page, tmplName, output, buf.Bytes())
}

// write stores one rendered page. Nothing is written for a page that failed
// to render, so the previous output survives.
func (b *Builder) write(page, tmplName, output string, content []byte) PageResult {
	dst := filepath.Join(b.opts.OutputDir, filepath.FromSlash(output))
	if err := writeFile(dst, content); err != nil {
		return b.failed(page, tmplName, output, err)
	}
	return PageResult{Name: page, Template: tmplName, Output: output, Bytes: len(content)}
}

func (b *Builder) failed(page, tmplName, output string, err error) PageResult {
	return PageResult{
		Name:     page,
		Template: tmplName,
		Output:   output,
		Err:      &PageError{Page: page, Template: tmplName, Err: err},
	}
}

// copiesStatic reports whether static assets must be copied: only when the
// output is a separate directory and a static directory exists.
func (b *Builder) copiesStatic() bool {
	if b.opts.StaticDir == "" || filepath.Clean(b.opts.OutputDir) == filepath.Clean(b.opts.ProjectRoot) {
		return false
	}
	info, err := os.Stat(b.opts.StaticDir)
	return err == nil && info.IsDir()
}

// writeFile atomically replaces dst, creating parent directories.
func writeFile(dst string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	if err := atomic.WriteFile(dst, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := os.Chmod(dst, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	return nil
}
