package models

import "time"

// ItemRequest is a "wanted item" note left by a user. Items created in
// answer to it carry its id in their request_id column.
type ItemRequest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}
