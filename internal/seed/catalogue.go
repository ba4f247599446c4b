package seed

import "healthwatch/internal/models"

// Catalogue returns a fresh copy of the reference diseases.
func Catalogue() []models.Disease {
	return []models.Disease{
		{
			Name:        "Dengue",
			Category:    "communicable",
			Description: "A mosquito-borne viral infection causing flu-like illness, transmitted by Aedes mosquitoes.",
			Symptoms: []string{
				"High fever",
				"Severe headache",
				"Pain behind eyes",
				"Joint and muscle pain",
				"Skin rash",
				"Mild bleeding",
			},
			PreventiveMeasures: []string{
				"Eliminate mosquito breeding sites by removing standing water",
				"Use mosquito repellents and wear protective clothing",
				"Install window screens and use mosquito nets",
				"Seek immediate medical attention if symptoms appear",
				"Community-wide mosquito control programs",
			},
			Treatment: "Rest, fluids, and pain relievers. Severe cases require hospitalization.",
			Severity:  "moderate",
			Season:    "monsoon",
		},
		{
			Name:        "Malaria",
			Category:    "communicable",
			Description: "A life-threatening disease caused by parasites transmitted through infected mosquito bites.",
			Symptoms: []string{
				"High fever with chills",
				"Sweating",
				"Headache",
				"Nausea and vomiting",
				"Muscle pain",
				"Fatigue",
			},
			PreventiveMeasures: []string{
				"Sleep under insecticide-treated mosquito nets",
				"Use indoor residual spraying",
				"Take antimalarial medications as prescribed",
				"Wear long-sleeved clothes during dusk and dawn",
				"Eliminate standing water around homes",
			},
			Treatment: "Antimalarial medications as prescribed by healthcare providers. Early treatment is crucial.",
			Severity:  "severe",
			Season:    "monsoon",
		},
		{
			Name:        "Diarrhea",
			Category:    "communicable",
			Description: "Frequent loose or watery bowel movements, often caused by contaminated food or water.",
			Symptoms: []string{
				"Loose watery stools",
				"Abdominal cramps",
				"Nausea",
				"Dehydration",
				"Fever (sometimes)",
				"Urgency to use bathroom",
			},
			PreventiveMeasures: []string{
				"Drink clean, boiled, or filtered water",
				"Wash hands thoroughly with soap before eating and after using toilet",
				"Eat freshly cooked food",
				"Practice proper food hygiene",
				"Ensure proper sanitation facilities",
			},
			Treatment: "Oral rehydration solution (ORS), rest, and medical consultation for severe cases.",
			Severity:  "mild",
			Season:    "year-round",
		},
		{
			Name:        "Typhoid",
			Category:    "communicable",
			Description: "A bacterial infection caused by contaminated food and water, leading to prolonged fever.",
			Symptoms: []string{
				"Sustained high fever",
				"Weakness and fatigue",
				"Abdominal pain",
				"Headache",
				"Loss of appetite",
				"Rose-colored spots on chest",
			},
			PreventiveMeasures: []string{
				"Get vaccinated against typhoid",
				"Drink safe, boiled water",
				"Eat thoroughly cooked food",
				"Maintain good hand hygiene",
				"Avoid street food and raw vegetables in endemic areas",
			},
			Treatment: "Antibiotics as prescribed. Complete the full course even if symptoms improve.",
			Severity:  "severe",
			Season:    "year-round",
		},
		{
			Name:        "Tuberculosis (TB)",
			Category:    "communicable",
			Description: "A bacterial infection primarily affecting the lungs, spread through airborne droplets.",
			Symptoms: []string{
				"Persistent cough for 2+ weeks",
				"Coughing up blood",
				"Chest pain",
				"Fever and night sweats",
				"Weight loss",
				"Fatigue",
			},
			PreventiveMeasures: []string{
				"Get vaccinated with BCG vaccine",
				"Cover mouth when coughing or sneezing",
				"Ensure good ventilation in living spaces",
				"Complete full TB treatment if infected",
				"Avoid close contact with TB patients during active phase",
			},
			Treatment: "6-9 months of antibiotics. Must complete full treatment course to prevent drug resistance.",
			Severity:  "severe",
			Season:    "year-round",
		},
		{
			Name:        "Cholera",
			Category:    "communicable",
			Description: "An acute diarrheal disease caused by contaminated water, can be fatal if untreated.",
			Symptoms: []string{
				"Severe watery diarrhea",
				"Vomiting",
				"Rapid dehydration",
				"Muscle cramps",
				"Low blood pressure",
				"Weak pulse",
			},
			PreventiveMeasures: []string{
				"Drink only boiled or chlorinated water",
				"Practice proper hand hygiene",
				"Eat thoroughly cooked food",
				"Proper disposal of human waste",
				"Get vaccinated in high-risk areas",
			},
			Treatment: "Immediate rehydration with ORS or IV fluids. Antibiotics for severe cases.",
			Severity:  "severe",
			Season:    "monsoon",
		},
	}
}
