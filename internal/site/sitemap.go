package site

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapPolicy struct {
	changeFreq string
	priority   string
}

var sitemapPolicies = map[PageKind]sitemapPolicy{
	KindCityIndex: {changeFreq: "weekly", priority: "0.9"},
	KindCity:      {changeFreq: "daily", priority: "0.8"},
	KindClub:      {changeFreq: "weekly", priority: "0.7"},
	KindEvent:     {changeFreq: "daily", priority: "0.8"},
	KindPromoter:  {changeFreq: "weekly", priority: "0.6"},
}

// sitemap accumulates canonical routes. Short-link aliases are never listed.
type sitemap struct {
	site string
	urls []sitemapURL
}

func newSitemap(site string) *sitemap {
	return &sitemap{
		site: site,
		urls: []sitemapURL{
			{Loc: site + "/", ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: site + "/list-your-club", ChangeFreq: "monthly", Priority: "0.8"},
		},
	}
}

func (s *sitemap) add(p page) {
	policy, ok := sitemapPolicies[p.kind]
	if !ok {
		return
	}
	s.urls = append(s.urls, sitemapURL{
		Loc:        s.site + p.route,
		LastMod:    p.lastMod,
		ChangeFreq: policy.changeFreq,
		Priority:   policy.priority,
	})
}

func (s *sitemap) write(root string) error {
	data, err := xml.MarshalIndent(urlSet{Xmlns: sitemapNamespace, URLs: s.urls}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode sitemap")
	}
	body := append([]byte(xml.Header), data...)
	body = append(body, '\n')

	path := filepath.Join(root, "sitemap.xml")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.Wrapf(err, "write sitemap %s", path)
	}
	return nil
}
