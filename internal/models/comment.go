package models

import "time"

// Comment is append-only; Created is assigned by the store at write time.
type Comment struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	ItemID   int64     `json:"item_id"`
	AuthorID int64     `json:"author_id"`
	Created  time.Time `json:"created"`
}

// CommentView carries the resolved author name for display.
type CommentView struct {
	Comment
	AuthorName string `json:"author_name"`
}
