package api

import "time"

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// updateUserRequest is a partial update: nil means "leave as is".
type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   int64  `json:"request_id"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createBookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type createCommentRequest struct {
	Text string `json:"text"`
}

type createItemRequestRequest struct {
	Description string `json:"description"`
}
