package domain

import "time"

// User is a row of USER. JSON keys follow the column names the admin
// console reads directly.
type User struct {
	ID       string    `json:"USER_ID"`
	Email    string    `json:"EMAIL"`
	Password string    `json:"-"`
	Name     string    `json:"NAME"`
	Gender   string    `json:"GENDER,omitempty"`
	Age      int       `json:"AGE,omitempty"`
	IsActive string    `json:"IS_ACTIVE"` // Y | N
	JoinDate time.Time `json:"JOIN_DATE"`
}

const (
	UserActive    = "Y"
	UserSuspended = "N"
)

type Tag struct {
	ID   int64  `json:"tagId"`
	Name string `json:"tagName"`
}
