package site

// SiteInfo is the site-wide data every page receives as .Site.
type SiteInfo struct {
	Name    string
	BaseURL string
}

// PageData is the data a page template executes with. It is a map so that
// a template reading a key its page does not receive (.PageSlug on the
// home page) fails instead of rendering an empty string.
type PageData map[string]any

// homeData returns the data for the home page: site-wide values only.
func homeData(site SiteInfo) PageData {
	return PageData{"Site": site}
}

// pageData returns the data for a subpage.
func pageData(site SiteInfo, slug string) PageData {
	return PageData{"Site": site, "PageSlug": slug}
}
