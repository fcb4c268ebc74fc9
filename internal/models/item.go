package models

type Item struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Available   bool   `json:"available" yaml:"available"`
	OwnerID     int64  `json:"owner_id" yaml:"owner_id"`
	RequestID   int64  `json:"request_id,omitempty" yaml:"request_id"`
}

// ItemView is the owner-facing projection of an item: the item itself plus
// the last/next booking pair and the comment thread. For non-owners the
// booking fields stay nil.
type ItemView struct {
	Item
	LastBooking *Booking      `json:"last_booking,omitempty"`
	NextBooking *Booking      `json:"next_booking,omitempty"`
	Comments    []CommentView `json:"comments"`
}
