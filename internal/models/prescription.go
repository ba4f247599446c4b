package models

import (
	"time"

	"gorm.io/datatypes"
)

// Prescription is an anonymized case record. Rows are never updated or deleted.
type Prescription struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time                   `json:"createdAt" gorm:"index"`
	DoctorID  uint                        `json:"doctorId" gorm:"not null;index"`
	Region    string                      `json:"region" gorm:"not null;index:idx_prescriptions_region_diagnosis"`
	Diagnosis string                      `json:"diagnosis" gorm:"not null;index:idx_prescriptions_region_diagnosis"`
	AgeGroup  string                      `json:"ageGroup" gorm:"not null"`
	Gender    string                      `json:"gender" gorm:"not null"`
	Severity  string                      `json:"severity" gorm:"not null"`
	Symptoms  datatypes.JSONSlice[string] `json:"symptoms"`
}

type PrescriptionStats struct {
	TodayEntries int64 `json:"todayEntries"`
	WeekEntries  int64 `json:"weekEntries"`
}

type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int64  `json:"count"`
}
