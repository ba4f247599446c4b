package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RolePublic = "public"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RolePublic, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Subject     string    `json:"-" gorm:"uniqueIndex;not null"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role" gorm:"not null;default:public;index"`
	Region      string    `json:"region"`
	TotalPoints int       `json:"totalPoints" gorm:"not null;default:0;index"`
	Level       int       `json:"level" gorm:"not null;default:1"`
	Streak      int       `json:"streak" gorm:"not null;default:0"`
}

// LevelForPoints is the only source of truth for a user's level.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return points/100 + 1
}

// AfterFind drops whatever level was cached in the row and derives it again.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.Level = LevelForPoints(u.TotalPoints)
	return nil
}

// ApplyScore credits points and keeps level and streak consistent with them.
func (u *User) ApplyScore(pointsEarned int, correct bool) {
	u.TotalPoints += pointsEarned
	u.Level = LevelForPoints(u.TotalPoints)
	if correct {
		u.Streak++
	} else {
		u.Streak = 0
	}
}
