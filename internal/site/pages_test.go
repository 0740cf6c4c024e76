package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmarkuslanger/clubin-prerender/internal/api"
)

func testPages() pages {
	return pages{
		site:         "https://clubin.co.in",
		defaultImage: "https://clubin.co.in/clubin-logo-og.png",
		cities:       testCities,
	}
}

func price(v float64) *float64 { return &v }

// structured returns the i-th JSON-LD item of p decoded into a generic map.
func structured(t *testing.T, p page, i int) map[string]any {
	t.Helper()
	require.Greater(t, len(p.meta.StructuredData), i)
	data, err := json.Marshal(p.meta.StructuredData[i])
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func offersOf(t *testing.T, p page) []map[string]any {
	t.Helper()
	raw, ok := structured(t, p, 0)["offers"].([]any)
	require.True(t, ok)
	out := make([]map[string]any, 0, len(raw))
	for _, o := range raw {
		out = append(out, o.(map[string]any))
	}
	return out
}

func TestEventAvailability(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"open", "https://schema.org/InStock"},
		{"closing", "https://schema.org/InStock"},
		{"closed", "https://schema.org/SoldOut"},
		{"sold-out", "https://schema.org/SoldOut"},
		{"", "https://schema.org/SoldOut"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			p := testPages().event(api.Event{ID: "e1", Title: "Techno", Date: "2026-11-01", GuestlistStatus: tt.status})

			offers := offersOf(t, p)
			require.Len(t, offers, 3)
			for _, o := range offers {
				assert.Equal(t, tt.want, o["availability"])
			}
		})
	}
}

func TestEventStructuredData(t *testing.T) {
	e := api.Event{
		ID:              "e42",
		Title:           "Sunburn Warmup",
		Club:            "Kitty Su",
		Location:        "Connaught Place, Delhi NCR",
		Genre:           "EDM",
		Description:     "Warmup night",
		ImageURL:        "https://cdn.clubin.co.in/e42.jpg",
		Date:            "2026-12-20T00:00:00.000Z",
		StartTime:       "21:00",
		EndTime:         "03:00",
		GuestlistStatus: "open",
		Price:           price(999),
		StagPrice:       price(1500),
		LadiesPrice:     price(0),
		CreatedAt:       "2026-10-01T10:11:12.000Z",
		PromoterRef:     &api.Promoter{ID: "p7", Name: "Night Owls"},
	}

	p := testPages().event(e)

	assert.Equal(t, "/events/e42", p.route)
	assert.Equal(t, "Sunburn Warmup at Kitty Su - 2026-12-20 | Clubin", p.meta.Title)
	assert.Equal(t, "Sunburn Warmup at Kitty Su on 2026-12-20. Warmup night", p.meta.Description)
	assert.Equal(t, "https://clubin.co.in/events/e42", p.meta.URL)

	ev := structured(t, p, 0)
	assert.Equal(t, "Event", ev["@type"])
	assert.Equal(t, "2026-12-20T21:00:00", ev["startDate"])
	assert.Equal(t, "2026-12-20T03:00:00", ev["endDate"])
	assert.Equal(t, map[string]any{"@type": "PerformingGroup", "name": "EDM"}, ev["performer"])
	assert.Equal(t, map[string]any{
		"@type": "Organization",
		"name":  "Night Owls",
		"url":   "https://clubin.co.in/promoters/p7",
	}, ev["organizer"])

	offers := offersOf(t, p)
	assert.Equal(t, "Stag Entry", offers[0]["name"])
	assert.Equal(t, 1500.0, offers[0]["price"])
	assert.Equal(t, "Couple Entry", offers[1]["name"])
	assert.Equal(t, 999.0, offers[1]["price"], "missing tier falls back to generic price")
	assert.Equal(t, 0.0, offers[2]["price"])
	assert.Equal(t, "2026-10-01", offers[0]["validFrom"])
	assert.Equal(t, "INR", offers[0]["priceCurrency"])

	crumbs := structured(t, p, 1)["itemListElement"].([]any)
	require.Len(t, crumbs, 4)
	third := crumbs[2].(map[string]any)
	assert.Equal(t, "Kitty Su", third["name"])
	assert.Equal(t, "https://clubin.co.in/clubs/delhi-ncr", third["item"])
	last := crumbs[3].(map[string]any)
	assert.Equal(t, 4.0, last["position"])
	assert.NotContains(t, last, "item")
}

func TestEventMinimalFields(t *testing.T) {
	p := testPages().event(api.Event{ID: "e1", Title: "Open Mic", Date: "2026-11-01"})

	ev := structured(t, p, 0)
	assert.Equal(t, "2026-11-01", ev["startDate"])
	assert.Equal(t, "2026-11-01", ev["endDate"])
	assert.NotContains(t, ev, "organizer")
	assert.NotContains(t, ev, "image")
	assert.Equal(t, "Open Mic", ev["performer"].(map[string]any)["name"])
	assert.Equal(t, "2026-11-01", offersOf(t, p)[0]["validFrom"])
	assert.Equal(t, 0.0, offersOf(t, p)[0]["price"])

	crumbs := structured(t, p, 1)["itemListElement"].([]any)
	require.Len(t, crumbs, 3)
	assert.Equal(t, 3.0, crumbs[2].(map[string]any)["position"])

	assert.Equal(t, "https://clubin.co.in/clubin-logo-og.png", p.meta.Image)
	assert.Contains(t, p.meta.Description, "Book your spot on Clubin!")
}

func TestEventPromoterWithoutNameHasNoOrganizer(t *testing.T) {
	p := testPages().event(api.Event{ID: "e1", Title: "x", Date: "2026-11-01", PromoterRef: &api.Promoter{ID: "p1"}})
	assert.NotContains(t, structured(t, p, 0), "organizer")
}

func TestClubPage(t *testing.T) {
	c := api.Club{
		ID:          "c9",
		Name:        "Skyye",
		Location:    "UB City, Bengaluru",
		Address:     "Vittal Mallya Rd",
		Description: "Rooftop bar with a view",
		ImageURL:    "https://cdn.clubin.co.in/skyye.jpg",
		UpdatedAt:   "2026-09-30T08:00:00Z",
	}

	p := testPages().club(c)

	assert.Equal(t, "/clubs/bengaluru/c9", p.route)
	assert.Equal(t, "2026-09-30", p.lastMod)
	assert.Equal(t, "Skyye - Nightclub in UB City, Bengaluru | Clubin", p.meta.Title)
	assert.Equal(t, "Skyye in UB City, Bengaluru. Rooftop bar with a view", p.meta.Description)
	assert.Equal(t, c.ImageURL, p.meta.Image)

	club := structured(t, p, 0)
	assert.Equal(t, "NightClub", club["@type"])
	assert.Equal(t, map[string]any{
		"@type":           "PostalAddress",
		"streetAddress":   "Vittal Mallya Rd",
		"addressLocality": "UB City, Bengaluru",
		"addressCountry":  "IN",
	}, club["address"])

	crumbs := structured(t, p, 1)["itemListElement"].([]any)
	require.Len(t, crumbs, 4)
	assert.Equal(t, "https://clubin.co.in/clubs/bengaluru", crumbs[2].(map[string]any)["item"])
}

func TestClubDescriptionIsTruncated(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "ñight "
	}

	p := testPages().club(api.Club{ID: "c1", Name: "N", Location: "Goa", Description: long})

	prefix := "N in Goa. "
	require.True(t, len(p.meta.Description) > len(prefix))
	assert.Len(t, []rune(p.meta.Description[len(prefix):]), 160)
}

func TestPromoterPage(t *testing.T) {
	withRegion := testPages().promoter(api.Promoter{ID: "p1", Name: "Night Owls", Region: "Goa", LogoURL: "https://cdn/p1.png"})
	assert.Equal(t, "/promoters/p1", withRegion.route)
	assert.Equal(t, "Night Owls - Event Promoter in Goa | Clubin", withRegion.meta.Title)
	assert.Contains(t, withRegion.meta.Description, "based in Goa")
	assert.Equal(t, "https://cdn/p1.png", structured(t, withRegion, 0)["image"])

	bare := testPages().promoter(api.Promoter{ID: "p2"})
	assert.Equal(t, "Promoter - Event Promoter | Clubin", bare.meta.Title)
	assert.Equal(t, "https://clubin.co.in/clubin-logo-og.png", bare.meta.Image)
	assert.NotContains(t, structured(t, bare, 0), "image")
}

func TestCityPages(t *testing.T) {
	index := testPages().cityIndex()
	assert.Equal(t, "/clubs", index.route)
	assert.Equal(t, "CollectionPage", structured(t, index, 0)["@type"])
	assert.Len(t, structured(t, index, 1)["itemListElement"], 2)

	city := testPages().city("Delhi NCR")
	assert.Equal(t, "/clubs/delhi-ncr", city.route)
	assert.Equal(t, "Best Nightclubs in Delhi NCR | Clubin", city.meta.Title)
	assert.Equal(t, "https://clubin.co.in/clubs/delhi-ncr", city.meta.URL)
	assert.Len(t, structured(t, city, 1)["itemListElement"], 3)
}

func TestAliasRoute(t *testing.T) {
	route, ok := aliasRoute("c", "ab12")
	assert.True(t, ok)
	assert.Equal(t, "/c/ab12", route)

	_, ok = aliasRoute("e", "/")
	assert.False(t, ok)

	for _, code := range []string{"..", ".", "x/../../clubs/bengaluru", "a/b", `a\b`} {
		_, ok = aliasRoute("e", code)
		assert.False(t, ok, "code %q", code)
	}
}
