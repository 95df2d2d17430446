package site

import (
	"html/template"
	"strings"

	"github.com/sitekit-dev/sitekit/internal/scaffold"
)

// funcMap provides the helper functions available to every site template.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"title":  scaffold.ToTitle,
		"urlFor": urlFor,
	}
}

// urlFor returns the clean URL of a page slug; the empty slug is the home page.
func urlFor(slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return "/"
	}
	return "/" + slug + "/"
}
