package api

// PromoterSet is an insertion-ordered promoter mapping keyed by id.
// Re-adding an id replaces its value but keeps its original position.
type PromoterSet struct {
	order []string
	byID  map[string]Promoter
}

func NewPromoterSet() *PromoterSet {
	return &PromoterSet{byID: make(map[string]Promoter)}
}

func (s *PromoterSet) Add(p Promoter) {
	if p.ID == "" {
		return
	}
	if _, ok := s.byID[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.byID[p.ID] = p
}

func (s *PromoterSet) Get(id string) (Promoter, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *PromoterSet) Len() int {
	return len(s.order)
}

// All returns the promoters in first-seen order.
func (s *PromoterSet) All() []Promoter {
	out := make([]Promoter, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// CollectPromoters merges event promoter references and club promoter
// associations. Events are read first, so a club's copy of a promoter wins.
func CollectPromoters(clubs []Club, events []Event) *PromoterSet {
	set := NewPromoterSet()
	for _, e := range events {
		if e.PromoterRef != nil {
			set.Add(*e.PromoterRef)
		}
	}
	for _, c := range clubs {
		for _, pc := range c.PromoterClubs {
			if pc.Promoter != nil {
				set.Add(*pc.Promoter)
			}
		}
	}
	return set
}
