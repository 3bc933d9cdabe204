package survey

// Question bank categories.
const (
	CategoryDemographic = "demographic"
	CategoryEconomic    = "economic"
	CategoryHealth      = "health"
)

// DemoSurveyID is the stable identifier of the built-in demo survey.
const DemoSurveyID = "DEMO_001"

func validation(lo, hi float64) *Validation {
	return &Validation{Min: lo, Max: hi}
}

// QuestionBank returns the built-in legacy question bank keyed by category.
// A fresh copy is returned on every call.
func QuestionBank() map[string][]LegacyQuestion {
	return map[string][]LegacyQuestion{
		CategoryDemographic: {
			{ID: "d1", Text: "What is your age?", Type: LegacyNumber, Required: true, Validation: validation(0, 120)},
			{ID: "d2", Text: "What is your gender?", Type: LegacySelect, Options: []string{"Male", "Female", "Other"}, Required: true},
			{ID: "d3", Text: "What is your education level?", Type: LegacySelect, Options: []string{"Primary", "Secondary", "Graduate", "Post-Graduate"}, Required: true},
			{ID: "d4", Text: "What is your marital status?", Type: LegacySelect, Options: []string{"Single", "Married", "Divorced", "Widowed"}},
		},
		CategoryEconomic: {
			{ID: "e1", Text: "What is your employment status?", Type: LegacySelect, Options: []string{"Employed", "Unemployed", "Self-Employed"}, Required: true},
			{ID: "e2", Text: "What is your monthly household income?", Type: LegacySelect, Options: []string{"<10k", "10-25k", "25-50k", "50-100k", ">100k"}, Required: true},
			{ID: "e3", Text: "What is your occupation?", Type: LegacyText, Required: true, AIClassify: true},
		},
		CategoryHealth: {
			{ID: "h1", Text: "Do you have health insurance?", Type: LegacySelect, Options: []string{"Yes", "No"}, Required: true},
			{ID: "h2", Text: "How would you rate your overall health?", Type: LegacySelect, Options: []string{"Excellent", "Good", "Fair", "Poor"}},
		},
	}
}

// BankQuestion looks up a single bank question by id.
func BankQuestion(id string) (LegacyQuestion, bool) {
	for _, qs := range QuestionBank() {
		for _, q := range qs {
			if q.ID == id {
				return q, true
			}
		}
	}
	return LegacyQuestion{}, false
}

// DemoSurvey returns the built-in adaptive "Household Demographic Survey".
func DemoSurvey() *Survey {
	ls := LegacySurvey{
		Title:    "Household Demographic Survey",
		Domain:   "Household Demographics",
		Region:   "India",
		AreaType: string(AreaRural),
		Language: DefaultLanguage,
		Questions: []LegacyQuestion{
			{ID: "q1", Text: "What is your age?", Type: LegacyNumber, Required: true, Validation: validation(0, 120), Category: CategoryDemographic},
			{ID: "q2", Text: "What is your gender?", Type: LegacySelect, Options: []string{"Male", "Female", "Other", "Prefer not to say"}, Required: true, Category: CategoryDemographic},
			{ID: "q3", Text: "What is your employment status?", Type: LegacySelect, Options: []string{"Employed", "Self-Employed", "Unemployed", "Student", "Retired"}, Required: true, Category: CategoryEconomic},
			{ID: "q4", Text: "What is your monthly household income?", Type: LegacySelect, Options: []string{"<10,000", "10,000-25,000", "25,000-50,000", "50,000-1,00,000", ">1,00,000"}, Required: true, Category: CategoryEconomic},
			{ID: "q5", Text: "What is your occupation?", Type: LegacyText, Required: true, Category: CategoryEconomic, AIClassify: true},
		},
	}
	s, err := FromLegacySurvey(ls)
	if err != nil {
		// The demo only uses known legacy types.
		panic(err)
	}
	return s
}
