package site

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sitekit-dev/sitekit/internal/defs"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// writeSitemap lists every successfully written page under baseURL, in
// build order (home first, then pages sorted by name).
func writeSitemap(outputDir, baseURL string, pages []PageResult) error {
	base := strings.TrimRight(baseURL, "/")
	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		if !p.OK() {
			continue
		}
		slug := ""
		if p.Output != defs.IndexHTML {
			slug = p.Name
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: base + urlFor(slug)})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	content := append([]byte(xml.Header), out...)
	content = append(content, '\n')
	return writeFile(filepath.Join(outputDir, defs.SitemapXML), content)
}
