package api

// Club mirrors the /clubs payload. Only the fields the pages use are decoded.
type Club struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	Address       string         `json:"address,omitempty"`
	Description   string         `json:"description,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
	PromoterClubs []PromoterClub `json:"promoterClubs,omitempty"`
}

// PromoterClub is the join row between a club and one of its promoters.
type PromoterClub struct {
	Promoter *Promoter `json:"promoter,omitempty"`
}

// Event mirrors the /events payload.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Club            string    `json:"club"`
	Location        string    `json:"location"`
	Description     string    `json:"description,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	GuestlistStatus string    `json:"guestlistStatus,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	StagPrice       *float64  `json:"stagPrice,omitempty"`
	CouplePrice     *float64  `json:"couplePrice,omitempty"`
	LadiesPrice     *float64  `json:"ladiesPrice,omitempty"`
	CreatedAt       string    `json:"createdAt,omitempty"`
	UpdatedAt       string    `json:"updatedAt,omitempty"`
	PromoterRef     *Promoter `json:"promoterRef,omitempty"`
}

// Promoter is referenced from both events and clubs.
type Promoter struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Region  string `json:"region,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// ShortLinkKind is the target type accepted by POST /shortlinks.
type ShortLinkKind string

const (
	ShortLinkClub  ShortLinkKind = "club"
	ShortLinkEvent ShortLinkKind = "event"
)

type shortLinkRequest struct {
	Type     ShortLinkKind `json:"type"`
	TargetID string        `json:"targetId"`
}

type shortLinkResponse struct {
	Code     string `json:"code"`
	ShortURL string `json:"shortUrl,omitempty"`
}
