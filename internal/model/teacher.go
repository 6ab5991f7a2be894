package model

import "time"

// Teacher is an entry of the teacher directory. NameAR is required; the
// English name is optional.
type Teacher struct {
	ID        int64     `json:"id"`
	NameAR    string    `json:"name_ar"`
	NameEN    string    `json:"name_en"`
	Subject   string    `json:"subject"`
	Stage     string    `json:"stage"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
