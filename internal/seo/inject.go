// Package seo rewrites the metadata of the built SPA document for one route.
//
// All rewrites are first-occurrence textual replacements: the template is
// produced by the front-end build and only its head tags are touched.
package seo

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Meta is the page-specific metadata for one route. Image and URL are
// optional; StructuredData is rendered in order, one JSON-LD block per item.
type Meta struct {
	Title          string
	Description    string
	Image          string
	URL            string
	StructuredData []any
}

var (
	titleTag         = regexp.MustCompile(`<title>[^<]*</title>`)
	descriptionTag   = regexp.MustCompile(`<meta name="description"\s+content="[^"]*"\s*/?>`)
	ogTitleTag       = regexp.MustCompile(`<meta property="og:title" content="[^"]*"\s*/?>`)
	ogDescriptionTag = regexp.MustCompile(`<meta property="og:description"\s+content="[^"]*"\s*/?>`)
	ogURLTag         = regexp.MustCompile(`<meta property="og:url" content="[^"]*"\s*/?>`)
	ogImageTag       = regexp.MustCompile(`<meta property="og:image"\s+content="[^"]*"\s*/?>`)
	ogImageWidthTag  = regexp.MustCompile(`\s*<meta property="og:image:width"\s+content="[^"]*"\s*/?>`)
	ogImageHeightTag = regexp.MustCompile(`\s*<meta property="og:image:height"\s+content="[^"]*"\s*/?>`)
	twTitleTag       = regexp.MustCompile(`<meta name="twitter:title" content="[^"]*"\s*/?>`)
	twDescriptionTag = regexp.MustCompile(`<meta name="twitter:description"\s+content="[^"]*"\s*/?>`)
	twURLTag         = regexp.MustCompile(`<meta name="twitter:url" content="[^"]*"\s*/?>`)
	twImageTag       = regexp.MustCompile(`<meta name="twitter:image"\s+content="[^"]*"\s*/?>`)
	canonicalLinkTag = regexp.MustCompile(`<link rel="canonical" href="[^"]*"\s*/?>`)
)

const headClose = "</head>"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape makes s safe for element text and double-quoted attribute values.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Injector holds what is shared by every page of a build.
type Injector struct {
	// DefaultImage is the template's own og:image. Pages using it keep the
	// template's explicit width/height hints.
	DefaultImage string
}

// Inject returns a copy of template carrying meta.
func (in Injector) Inject(template string, meta Meta) (string, error) {
	title := Escape(meta.Title)
	description := Escape(meta.Description)

	html := replaceFirst(titleTag, template, "<title>"+title+"</title>")
	html = replaceFirst(descriptionTag, html, metaName("description", description))

	html = replaceFirst(ogTitleTag, html, metaProperty("og:title", title))
	html = replaceFirst(ogDescriptionTag, html, metaProperty("og:description", description))
	if meta.URL != "" {
		html = replaceFirst(ogURLTag, html, metaProperty("og:url", Escape(meta.URL)))
	}
	if meta.Image != "" {
		html = replaceFirst(ogImageTag, html, metaProperty("og:image", Escape(meta.Image)))
		if meta.Image != in.DefaultImage {
			html = replaceFirst(ogImageWidthTag, html, "")
			html = replaceFirst(ogImageHeightTag, html, "")
		}
	}

	html = replaceFirst(twTitleTag, html, metaName("twitter:title", title))
	html = replaceFirst(twDescriptionTag, html, metaName("twitter:description", description))
	if meta.URL != "" {
		html = replaceFirst(twURLTag, html, metaName("twitter:url", Escape(meta.URL)))
	}
	if meta.Image != "" {
		html = replaceFirst(twImageTag, html, metaName("twitter:image", Escape(meta.Image)))
	}

	if meta.URL != "" {
		html = replaceFirst(canonicalLinkTag, html, `<link rel="canonical" href="`+Escape(meta.URL)+`" />`)
	}

	if len(meta.StructuredData) > 0 {
		blocks, err := jsonLD(meta.StructuredData)
		if err != nil {
			return "", err
		}
		html = strings.Replace(html, headClose, blocks+headClose, 1)
	}

	return html, nil
}

func jsonLD(items []any) (string, error) {
	var b strings.Builder
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return "", err
		}
		b.WriteString(`<script type="application/ld+json">`)
		b.Write(data)
		b.WriteString("</script>\n")
	}
	return b.String(), nil
}

func metaName(name, content string) string {
	return `<meta name="` + name + `" content="` + content + `" />`
}

func metaProperty(property, content string) string {
	return `<meta property="` + property + `" content="` + content + `" />`
}

// replaceFirst substitutes the first match of re with repl taken literally.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
