package domain

// LookupItem is one result of the external shopping search.
type LookupItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LowestPrice int    `json:"lprice"`
}
