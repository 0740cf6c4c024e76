package i18n

import "fmt"

const defaultLocale = "en"

const (
	KeyAppName                = "app.name"
	KeyCitiesTitle            = "cities.title"
	KeyCitiesDescription      = "cities.description"
	KeyCitiesCollection       = "cities.collection"
	KeyCityTitle              = "city.title"
	KeyCityDescription        = "city.description"
	KeyCityCollection         = "city.collection"
	KeyClubTitle              = "club.title"
	KeyClubDescription        = "club.description"
	KeyClubFallback           = "club.fallback"
	KeyEventTitle             = "event.title"
	KeyEventDescription       = "event.description"
	KeyEventFallback          = "event.fallback"
	KeyOfferStag              = "offer.stag"
	KeyOfferCouple            = "offer.couple"
	KeyOfferLadies            = "offer.ladies"
	KeyPromoterName           = "promoter.name"
	KeyPromoterTitle          = "promoter.title"
	KeyPromoterTitleRegion    = "promoter.title.region"
	KeyPromoterDescription    = "promoter.description"
	KeyPromoterDescriptionReg = "promoter.description.region"
	KeyCrumbHome              = "crumb.home"
	KeyCrumbClubs             = "crumb.clubs"
)

var translations = map[string]map[string]string{
	"en": {
		KeyAppName:                "Clubin",
		KeyCitiesTitle:            "Nightclubs & Party Venues in India - Browse by City | Clubin",
		KeyCitiesDescription:      "Browse nightclubs and party venues across Bengaluru, Mumbai, Delhi NCR, Goa, Pune, Hyderabad, Chennai, Jaipur & Chandigarh. Book guestlists and VIP tables on Clubin.",
		KeyCitiesCollection:       "Browse Nightclubs by City",
		KeyCityTitle:              "Best Nightclubs in %s | Clubin",
		KeyCityDescription:        "Discover the hottest nightclubs and party venues in %s. Book guestlists and get VIP table reservations on Clubin.",
		KeyCityCollection:         "Best Nightclubs in %s",
		KeyClubTitle:              "%s - Nightclub in %s | Clubin",
		KeyClubDescription:        "%s in %s. %s",
		KeyClubFallback:           "Book guestlists and VIP tables on Clubin.",
		KeyEventTitle:             "%s at %s - %s | Clubin",
		KeyEventDescription:       "%s at %s on %s. %s",
		KeyEventFallback:          "Book your spot on Clubin!",
		KeyOfferStag:              "Stag Entry",
		KeyOfferCouple:            "Couple Entry",
		KeyOfferLadies:            "Ladies Entry",
		KeyPromoterName:           "Promoter",
		KeyPromoterTitle:          "%s - Event Promoter | Clubin",
		KeyPromoterTitleRegion:    "%s - Event Promoter in %s | Clubin",
		KeyPromoterDescription:    "%s is an event promoter. Browse their upcoming nightclub events and parties on Clubin.",
		KeyPromoterDescriptionReg: "%s is an event promoter based in %s. Browse their upcoming nightclub events and parties on Clubin.",
		KeyCrumbHome:              "Home",
		KeyCrumbClubs:             "Clubs",
	},
}

func AppName() string {
	return Text(KeyAppName)
}

func Text(key string) string {
	return TextForLocale(defaultLocale, key)
}

// Format looks up key and formats it with args.
func Format(key string, args ...any) string {
	return fmt.Sprintf(Text(key), args...)
}

func TextForLocale(locale, key string) string {
	if values, ok := translations[locale]; ok {
		if value, ok := values[key]; ok {
			return value
		}
	}
	if values, ok := translations[defaultLocale]; ok {
		if value, ok := values[key]; ok {
			return value
		}
	}
	return key
}
