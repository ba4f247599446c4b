package models

type PrescriptionInput struct {
	AgeGroup  string   `json:"ageGroup"`
	Gender    string   `json:"gender"`
	Diagnosis string   `json:"diagnosis"`
	Symptoms  []string `json:"symptoms"`
	Severity  string   `json:"severity"`
	Region    string   `json:"region"`
}

type AlertInput struct {
	Disease            string   `json:"disease"`
	Region             string   `json:"region"`
	Severity           string   `json:"severity"`
	CaseCount          int      `json:"caseCount"`
	Message            string   `json:"message"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
	Symptoms           []string `json:"symptoms"`
}

type DiseaseInput struct {
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	Symptoms           []string `json:"symptoms"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
	Treatment          string   `json:"treatment"`
	Severity           string   `json:"severity"`
	Season             string   `json:"season"`
}

type AnswerInput struct {
	QuestionID     uint `json:"questionId"`
	SelectedAnswer *int `json:"selectedAnswer"`
}
