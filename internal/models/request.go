package models

import "time"

// ItemRequest is a user's ask for an item that is not in the catalog yet.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	Created     time.Time `json:"created"`
}

// ItemRequestView includes the items listed in response to the request.
type ItemRequestView struct {
	ItemRequest
	Items []*Item `json:"items"`
}
