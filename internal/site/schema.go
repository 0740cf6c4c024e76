package site

// schema.org vocabulary used in the JSON-LD blocks. Field order follows the
// order crawlers' testing tools display, which keeps diffs between builds small.

const (
	schemaContext = "https://schema.org"

	availabilityInStock = "https://schema.org/InStock"
	availabilitySoldOut = "https://schema.org/SoldOut"

	eventScheduled        = "https://schema.org/EventScheduled"
	offlineAttendanceMode = "https://schema.org/OfflineEventAttendanceMode"

	countryIndia = "IN"
	currencyINR  = "INR"
)

type collectionPage struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

type breadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality"`
	AddressCountry  string `json:"addressCountry"`
}

type nightClub struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Image       string        `json:"image,omitempty"`
	Description string        `json:"description"`
	Address     postalAddress `json:"address"`
	URL         string        `json:"url"`
}

type place struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Address postalAddress `json:"address"`
}

type offer struct {
	Type          string  `json:"@type"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PriceCurrency string  `json:"priceCurrency"`
	Availability  string  `json:"availability"`
	URL           string  `json:"url"`
	ValidFrom     string  `json:"validFrom"`
}

type performingGroup struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type organizer struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type event struct {
	Context             string          `json:"@context"`
	Type                string          `json:"@type"`
	Name                string          `json:"name"`
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
	EventStatus         string          `json:"eventStatus"`
	EventAttendanceMode string          `json:"eventAttendanceMode"`
	Image               string          `json:"image,omitempty"`
	Description         string          `json:"description"`
	Location            place           `json:"location"`
	URL                 string          `json:"url"`
	Offers              []offer         `json:"offers"`
	Performer           performingGroup `json:"performer"`
	Organizer           *organizer      `json:"organizer,omitempty"`
}

type organization struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Image   string `json:"image,omitempty"`
}

// crumb is one breadcrumb entry; the last entry of a trail has no link.
type crumb struct {
	name string
	link string
}

func newCollectionPage(name, url string) collectionPage {
	return collectionPage{Context: schemaContext, Type: "CollectionPage", Name: name, URL: url}
}

func newBreadcrumbs(crumbs ...crumb) breadcrumbList {
	items := make([]listItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, listItem{Type: "ListItem", Position: i + 1, Name: c.name, Item: c.link})
	}
	return breadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}
