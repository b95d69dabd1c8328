package domain

// User is an operator account. Passwords never leave the server.
type User struct {
	UserID   int64   `gorm:"column:userId;primaryKey;autoIncrement" json:"userId"`
	Username string  `gorm:"column:username;size:64;uniqueIndex;not null" json:"username"`
	Password string  `gorm:"column:password;not null" json:"-"`
	Admin    BitBool `gorm:"column:admin;not null;default:false" json:"admin"`
	EventIDs string  `gorm:"column:eventIds" json:"eventIds"`
}

func (User) TableName() string { return "Users" }

// Claims is the identity carried inside a bearer token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	EventIDs string `json:"eventIds"`
}

func (u *User) Claims() Claims {
	return Claims{
		UserID:   u.UserID,
		Username: u.Username,
		Admin:    bool(u.Admin),
		EventIDs: u.EventIDs,
	}
}
