package site

import (
	"strings"

	"github.com/janmarkuslanger/clubin-prerender/internal/api"
	"github.com/janmarkuslanger/clubin-prerender/internal/i18n"
	"github.com/janmarkuslanger/clubin-prerender/internal/seo"
)

// PageKind labels a route for counting, metrics and the ledger.
type PageKind string

const (
	KindCityIndex      PageKind = "city_index"
	KindCity           PageKind = "city"
	KindClub           PageKind = "club"
	KindClubShortLink  PageKind = "club_shortlink"
	KindEvent          PageKind = "event"
	KindEventShortLink PageKind = "event_shortlink"
	KindPromoter       PageKind = "promoter"
)

const (
	clubDescriptionLimit  = 160
	eventDescriptionLimit = 150
	datePrefixLength      = 10
)

type page struct {
	route   string
	kind    PageKind
	lastMod string
	meta    seo.Meta
}

// pages assembles route metadata from API records.
type pages struct {
	site         string
	defaultImage string
	cities       []string
}

func (p pages) url(route string) string {
	return p.site + route
}

func (p pages) home() crumb {
	return crumb{name: i18n.Text(i18n.KeyCrumbHome), link: p.url("/")}
}

func (p pages) clubs() crumb {
	return crumb{name: i18n.Text(i18n.KeyCrumbClubs), link: p.url("/clubs")}
}

func (p pages) cityIndex() page {
	url := p.url("/clubs")
	return page{
		route: "/clubs",
		kind:  KindCityIndex,
		meta: seo.Meta{
			Title:       i18n.Text(i18n.KeyCitiesTitle),
			Description: i18n.Text(i18n.KeyCitiesDescription),
			URL:         url,
			StructuredData: []any{
				newCollectionPage(i18n.Text(i18n.KeyCitiesCollection), url),
				newBreadcrumbs(p.home(), crumb{name: i18n.Text(i18n.KeyCrumbClubs)}),
			},
		},
	}
}

func (p pages) city(city string) page {
	route := "/clubs/" + slugify(city)
	url := p.url(route)
	return page{
		route: route,
		kind:  KindCity,
		meta: seo.Meta{
			Title:       i18n.Format(i18n.KeyCityTitle, city),
			Description: i18n.Format(i18n.KeyCityDescription, city),
			URL:         url,
			StructuredData: []any{
				newCollectionPage(i18n.Format(i18n.KeyCityCollection, city), url),
				newBreadcrumbs(p.home(), p.clubs(), crumb{name: city}),
			},
		},
	}
}

func (p pages) club(c api.Club) page {
	citySlug := CitySlug(c.Location, p.cities)
	route := "/clubs/" + citySlug + "/" + c.ID
	url := p.url(route)

	description := c.Description
	if description == "" {
		description = i18n.Text(i18n.KeyClubFallback)
	}

	return page{
		route:   route,
		kind:    KindClub,
		lastMod: datePrefix(c.UpdatedAt),
		meta: seo.Meta{
			Title:       i18n.Format(i18n.KeyClubTitle, c.Name, c.Location),
			Description: i18n.Format(i18n.KeyClubDescription, c.Name, c.Location, truncate(description, clubDescriptionLimit)),
			Image:       p.imageOrDefault(c.ImageURL),
			URL:         url,
			StructuredData: []any{
				nightClub{
					Context:     schemaContext,
					Type:        "NightClub",
					Name:        c.Name,
					Image:       c.ImageURL,
					Description: c.Description,
					Address: postalAddress{
						Type:            "PostalAddress",
						StreetAddress:   c.Address,
						AddressLocality: c.Location,
						AddressCountry:  countryIndia,
					},
					URL: url,
				},
				newBreadcrumbs(
					p.home(),
					p.clubs(),
					crumb{name: c.Location, link: p.url("/clubs/" + citySlug)},
					crumb{name: c.Name},
				),
			},
		},
	}
}

func (p pages) event(e api.Event) page {
	date := datePrefix(e.Date)
	route := "/events/" + e.ID
	url := p.url(route)

	availability := availabilitySoldOut
	if guestlistOpen(e.GuestlistStatus) {
		availability = availabilityInStock
	}
	validFrom := date
	if e.CreatedAt != "" {
		validFrom = datePrefix(e.CreatedAt)
	}

	tiers := []struct {
		key   string
		price *float64
	}{
		{i18n.KeyOfferStag, e.StagPrice},
		{i18n.KeyOfferCouple, e.CouplePrice},
		{i18n.KeyOfferLadies, e.LadiesPrice},
	}
	offers := make([]offer, 0, len(tiers))
	for _, tier := range tiers {
		offers = append(offers, offer{
			Type:          "Offer",
			Name:          i18n.Text(tier.key),
			Price:         tierPrice(tier.price, e.Price),
			PriceCurrency: currencyINR,
			Availability:  availability,
			URL:           url,
			ValidFrom:     validFrom,
		})
	}

	performer := e.Genre
	if performer == "" {
		performer = e.Title
	}

	structured := event{
		Context:             schemaContext,
		Type:                "Event",
		Name:                e.Title,
		StartDate:           dateTime(date, e.StartTime),
		EndDate:             dateTime(date, e.EndTime),
		EventStatus:         eventScheduled,
		EventAttendanceMode: offlineAttendanceMode,
		Image:               e.ImageURL,
		Description:         e.Description,
		Location: place{
			Type: "Place",
			Name: e.Club,
			Address: postalAddress{
				Type:            "PostalAddress",
				AddressLocality: e.Location,
				AddressCountry:  countryIndia,
			},
		},
		URL:       url,
		Offers:    offers,
		Performer: performingGroup{Type: "PerformingGroup", Name: performer},
	}
	if ref := e.PromoterRef; ref != nil && ref.Name != "" {
		structured.Organizer = &organizer{
			Type: "Organization",
			Name: ref.Name,
			URL:  p.url("/promoters/" + ref.ID),
		}
	}

	trail := []crumb{p.home(), p.clubs()}
	if e.Location != "" {
		trail = append(trail, crumb{name: e.Club, link: p.url("/clubs/" + CitySlug(e.Location, p.cities))})
	}
	trail = append(trail, crumb{name: e.Title})

	description := e.Description
	if description == "" {
		description = i18n.Text(i18n.KeyEventFallback)
	}

	return page{
		route:   route,
		kind:    KindEvent,
		lastMod: datePrefix(e.UpdatedAt),
		meta: seo.Meta{
			Title:          i18n.Format(i18n.KeyEventTitle, e.Title, e.Club, date),
			Description:    i18n.Format(i18n.KeyEventDescription, e.Title, e.Club, date, truncate(description, eventDescriptionLimit)),
			Image:          p.imageOrDefault(e.ImageURL),
			URL:            url,
			StructuredData: []any{structured, newBreadcrumbs(trail...)},
		},
	}
}

func (p pages) promoter(pr api.Promoter) page {
	route := "/promoters/" + pr.ID
	url := p.url(route)

	name := pr.Name
	if name == "" {
		name = i18n.Text(i18n.KeyPromoterName)
	}
	title := i18n.Format(i18n.KeyPromoterTitle, name)
	description := i18n.Format(i18n.KeyPromoterDescription, name)
	if pr.Region != "" {
		title = i18n.Format(i18n.KeyPromoterTitleRegion, name, pr.Region)
		description = i18n.Format(i18n.KeyPromoterDescriptionReg, name, pr.Region)
	}

	return page{
		route: route,
		kind:  KindPromoter,
		meta: seo.Meta{
			Title:       title,
			Description: description,
			Image:       p.imageOrDefault(pr.LogoURL),
			URL:         url,
			StructuredData: []any{
				organization{Context: schemaContext, Type: "Organization", Name: name, URL: url, Image: pr.LogoURL},
				newBreadcrumbs(p.home(), p.clubs(), crumb{name: name}),
			},
		},
	}
}

func (p pages) imageOrDefault(image string) string {
	if image == "" {
		return p.defaultImage
	}
	return image
}

func guestlistOpen(status string) bool {
	return status == "open" || status == "closing"
}

// tierPrice falls back to the generic price, then to zero.
func tierPrice(tier, generic *float64) float64 {
	if tier != nil {
		return *tier
	}
	if generic != nil {
		return *generic
	}
	return 0
}

// dateTime joins an ISO date and an optional HH:MM time of day.
func dateTime(date, clock string) string {
	if clock == "" {
		return date
	}
	return date + "T" + clock + ":00"
}

func datePrefix(value string) string {
	return truncate(value, datePrefixLength)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// aliasRoute maps a short code to its route. A code must be one path segment
// so it can never land on another page.
func aliasRoute(prefix, code string) (string, bool) {
	code = strings.Trim(code, "/")
	if !isSegment(code) {
		return "", false
	}
	return "/" + prefix + "/" + code, true
}

func isSegment(s string) bool {
	switch {
	case s == "", s == ".", s == "..":
		return false
	case strings.ContainsAny(s, `/\`):
		return false
	}
	return true
}
