package webpage

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// downloadExtensions are the file-extension tokens that mark a
// hyperlink as a download candidate.
var downloadExtensions = []string{
	".exe", ".zip", ".rar", ".tar", ".gz", ".pdf", ".dmg", ".deb", ".rpm",
}

// findDownloadLinks scans every hyperlink for file-extension tokens and
// returns up to maxLinks qualifying links in document order, with hrefs
// absolutized against the page URL.
func findDownloadLinks(doc *goquery.Document, pageURL string, maxLinks int) []DownloadLink {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var links []DownloadLink

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || !hasDownloadExtension(href) {
			return true
		}

		absolute, ok := absolutize(href, base)
		if !ok {
			return true
		}

		label := strings.TrimSpace(s.Text())
		if label == "" {
			label = "Download"
		}

		links = append(links, DownloadLink{Label: label, URL: absolute})

		return len(links) < maxLinks
	})

	return links
}

func hasDownloadExtension(href string) bool {
	lower := strings.ToLower(href)
	for _, ext := range downloadExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}

	return false
}

// absolutize resolves rooted-relative hrefs against the page base and
// keeps absolute http(s) hrefs as-is. Anything else (fragments,
// protocol-relative oddities, javascript:) is skipped.
func absolutize(href string, base *url.URL) (string, bool) {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, true
	}

	if !strings.HasPrefix(href, "/") || base == nil {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	return base.ResolveReference(ref).String(), true
}
