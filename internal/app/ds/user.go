package ds

import (
	"finishline/internal/app/role"
)

type User struct {
	UserID    uint      `gorm:"primaryKey;column:user_id"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(100);unique;not null"`
	Role      role.Role `gorm:"type:varchar(20);not null;default:'GUEST'"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Team struct {
	TeamID   uint   `gorm:"primaryKey;column:team_id"`
	TeamName string `gorm:"type:varchar(100);not null"`
	SlackID  string `gorm:"type:varchar(50);not null"`
	LeaderID uint   `gorm:"not null"`

	Leader User `gorm:"foreignKey:LeaderID;references:UserID"`
}
