package model

import "time"

// User doubles as the public profile: id, username and created_at are the
// only fields ever serialized to other users.
type User struct {
	UUIDBase
	Username     string    `gorm:"size:100;not null" json:"username"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Confirmed    bool      `gorm:"default:false" json:"-"`
	ConfirmToken string    `gorm:"size:64;index" json:"-"`
	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"-"`
}

func (User) TableName() string {
	return "users"
}
