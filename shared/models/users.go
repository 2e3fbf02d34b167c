package models

// ===============================
// User
// ===============================
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"type:text;unique;not null" json:"username"`
	Password string `gorm:"type:text;not null" json:"-"` // hashed
}

func (User) TableName() string { return "users" }
