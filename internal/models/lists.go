package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// emptyIfNil keeps list columns as [] rather than null.
func emptyIfNil(lists ...*datatypes.JSONSlice[string]) {
	for _, l := range lists {
		if *l == nil {
			*l = datatypes.JSONSlice[string]{}
		}
	}
}

func (p *Prescription) BeforeSave(tx *gorm.DB) error {
	emptyIfNil(&p.Symptoms)
	return nil
}

func (a *HealthAlert) BeforeSave(tx *gorm.DB) error {
	emptyIfNil(&a.PreventiveMeasures, &a.Symptoms)
	return nil
}

func (d *Disease) BeforeSave(tx *gorm.DB) error {
	emptyIfNil(&d.Symptoms, &d.PreventiveMeasures)
	return nil
}

func (q *QuizQuestion) BeforeSave(tx *gorm.DB) error {
	emptyIfNil(&q.Options)
	return nil
}
