package domain

import "time"

// Student is a loaded student row. Email is the sole natural key: once a row
// exists for an email, later loads neither update nor error, they skip.
type Student struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	Year         *int       `json:"year,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Department is a lazily created dimension row; name is unique.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
