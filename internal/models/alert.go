package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type HealthAlert struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time                   `json:"createdAt" gorm:"index"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
	Disease            string                      `json:"disease" gorm:"not null"`
	Region             string                      `json:"region" gorm:"not null;index"`
	Severity           string                      `json:"severity" gorm:"not null"`
	CaseCount          int                         `json:"caseCount"`
	Message            string                      `json:"message" gorm:"not null"`
	PreventiveMeasures datatypes.JSONSlice[string] `json:"preventiveMeasures"`
	Symptoms           datatypes.JSONSlice[string] `json:"symptoms"`
	IsActive           bool                        `json:"isActive" gorm:"not null;default:true;index"`
}
