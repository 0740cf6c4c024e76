package seo

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultImage = "https://clubin.co.in/clubin-logo-og.png"

const template = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>Clubin</title>
    <meta name="description" content="Book guestlists" />
    <link rel="canonical" href="https://clubin.co.in/" />
    <meta property="og:title" content="Clubin" />
    <meta property="og:description" content="Book guestlists" />
    <meta property="og:url" content="https://clubin.co.in/" />
    <meta property="og:image" content="https://clubin.co.in/clubin-logo-og.png" />
    <meta property="og:image:width" content="1200" />
    <meta property="og:image:height" content="630" />
    <meta name="twitter:title" content="Clubin" />
    <meta name="twitter:description" content="Book guestlists" />
    <meta name="twitter:url" content="https://clubin.co.in/" />
    <meta name="twitter:image" content="https://clubin.co.in/clubin-logo-og.png" />
  </head>
  <body><div id="root"></div></body>
</html>
`

func TestInjectTitleAndDescriptionOnly(t *testing.T) {
	in := Injector{DefaultImage: defaultImage}

	got, err := in.Inject(template, Meta{Title: "Goa Nights", Description: "Beach parties"})
	require.NoError(t, err)

	want := strings.NewReplacer(
		"<title>Clubin</title>", "<title>Goa Nights</title>",
		`"description" content="Book guestlists"`, `"description" content="Beach parties"`,
		`"og:title" content="Clubin"`, `"og:title" content="Goa Nights"`,
		`"og:description" content="Book guestlists"`, `"og:description" content="Beach parties"`,
		`"twitter:title" content="Clubin"`, `"twitter:title" content="Goa Nights"`,
		`"twitter:description" content="Book guestlists"`, `"twitter:description" content="Beach parties"`,
	).Replace(template)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inject() mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectURLAndCustomImage(t *testing.T) {
	in := Injector{DefaultImage: defaultImage}

	got, err := in.Inject(template, Meta{
		Title:       "Skyye",
		Description: "Rooftop",
		Image:       "https://cdn.clubin.co.in/skyye.jpg",
		URL:         "https://clubin.co.in/clubs/bengaluru/c1",
	})
	require.NoError(t, err)

	assert.Contains(t, got, `<link rel="canonical" href="https://clubin.co.in/clubs/bengaluru/c1" />`)
	assert.Contains(t, got, `<meta property="og:url" content="https://clubin.co.in/clubs/bengaluru/c1" />`)
	assert.Contains(t, got, `<meta name="twitter:url" content="https://clubin.co.in/clubs/bengaluru/c1" />`)
	assert.Contains(t, got, `<meta property="og:image" content="https://cdn.clubin.co.in/skyye.jpg" />`)
	assert.Contains(t, got, `<meta name="twitter:image" content="https://cdn.clubin.co.in/skyye.jpg" />`)
	assert.NotContains(t, got, "og:image:width")
	assert.NotContains(t, got, "og:image:height")
	assert.Contains(t, got, "    <meta property=\"og:image\" content=\"https://cdn.clubin.co.in/skyye.jpg\" />\n    <meta name=\"twitter:title\"")
}

func TestInjectDefaultImageKeepsDimensions(t *testing.T) {
	in := Injector{DefaultImage: defaultImage}

	got, err := in.Inject(template, Meta{Title: "t", Description: "d", Image: defaultImage})
	require.NoError(t, err)

	assert.Contains(t, got, `<meta property="og:image:width" content="1200" />`)
	assert.Contains(t, got, `<meta property="og:image:height" content="630" />`)
}

func TestInjectEscapes(t *testing.T) {
	in := Injector{DefaultImage: defaultImage}

	got, err := in.Inject(template, Meta{
		Title:       `Tom & Jerry's "<Live>"`,
		Description: `a > b & c < d`,
		URL:         `https://clubin.co.in/events/1?a=1&b="2"`,
	})
	require.NoError(t, err)

	assert.Contains(t, got, `<title>Tom &amp; Jerry's &quot;&lt;Live&gt;&quot;</title>`)
	assert.Contains(t, got, `<meta name="description" content="a &gt; b &amp; c &lt; d" />`)
	assert.Contains(t, got, `<link rel="canonical" href="https://clubin.co.in/events/1?a=1&amp;b=&quot;2&quot;" />`)

	attr := regexp.MustCompile(`content="([^"]*)"`)
	for _, m := range attr.FindAllStringSubmatch(got, -1) {
		assert.NotContains(t, m[1], "<")
		assert.NotContains(t, m[1], ">")
	}
}

func TestInjectDollarSignsAreLiteral(t *testing.T) {
	got, err := Injector{}.Inject(template, Meta{Title: "Entry $1 ${name}", Description: "$0"})
	require.NoError(t, err)

	assert.Contains(t, got, "<title>Entry $1 ${name}</title>")
	assert.Contains(t, got, `<meta name="description" content="$0" />`)
}

func TestInjectStructuredDataInOrderBeforeHead(t *testing.T) {
	first := map[string]any{"@type": "CollectionPage", "name": "Clubs"}
	second := map[string]any{"@type": "BreadcrumbList"}

	got, err := Injector{}.Inject(template, Meta{Title: "t", Description: "d", StructuredData: []any{first, second}})
	require.NoError(t, err)

	blocks := `<script type="application/ld+json">{"@type":"CollectionPage","name":"Clubs"}</script>` + "\n" +
		`<script type="application/ld+json">{"@type":"BreadcrumbList"}</script>` + "\n" +
		"</head>"
	assert.Contains(t, got, blocks)
	assert.Equal(t, 2, strings.Count(got, "application/ld+json"))
	assert.Equal(t, 1, strings.Count(got, "</head>"))
}

func TestInjectStructuredDataIsValidJSON(t *testing.T) {
	item := map[string]any{"name": "</script><script>alert(1)</script>"}

	got, err := Injector{}.Inject(template, Meta{StructuredData: []any{item}})
	require.NoError(t, err)

	start := strings.Index(got, `<script type="application/ld+json">`) + len(`<script type="application/ld+json">`)
	end := strings.Index(got[start:], "</script>")
	require.Positive(t, end)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got[start:start+end]), &decoded))
	assert.Equal(t, item["name"], decoded["name"])
}

func TestInjectDoesNotMutateTemplate(t *testing.T) {
	original := strings.Clone(template)

	a, err := Injector{}.Inject(template, Meta{Title: "A", Description: "a"})
	require.NoError(t, err)
	b, err := Injector{}.Inject(template, Meta{Title: "B", Description: "b"})
	require.NoError(t, err)

	assert.Equal(t, original, template)
	assert.Contains(t, a, "<title>A</title>")
	assert.Contains(t, b, "<title>B</title>")
}

func TestInjectReplacesFirstOccurrenceOnly(t *testing.T) {
	doubled := "<head><title>one</title><title>two</title></head>"

	got, err := Injector{}.Inject(doubled, Meta{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "<head><title>new</title><title>two</title></head>", got)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&amp;&quot;&lt;&gt;'", Escape(`&"<>'`))
	assert.Equal(t, "plain", Escape("plain"))
}
