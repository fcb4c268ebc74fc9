package models

// User is a directory record. Other entities reference users by id only,
// never by value.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
