package model

import "time"

// User mirrors an identity-provider account. The primary key is the
// provider's stable subject id, so rows are created lazily on the first
// authenticated write and refreshed on later ones. Email is a pointer
// because tokens may carry no email claim; NULL keeps the unique index
// satisfied for any number of email-less users.
type User struct {
	ID        string    `json:"id" gorm:"primarykey;type:varchar(100)"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Email     *string   `json:"email" gorm:"type:varchar(100);unique"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
