package domain

import "encoding/json"

const (
	DefaultEmploymentType = "full-time"
	DefaultWorkMode       = "on-site"
)

// JobPosting is the structured record recovered from one free-text posting.
type JobPosting struct {
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	EmploymentType      string       `json:"employmentType"` // assumed "full-time" when unstated
	WorkMode            string       `json:"workMode"`       // assumed "on-site" when unstated
	Description         string       `json:"description"`
	Responsibilities    []string     `json:"responsibilities"`
	Requirements        Requirements `json:"requirements"`
	Benefits            []string     `json:"benefits"`
	Salary              SalaryInfo   `json:"salary"`
	ApplicationDeadline string       `json:"applicationDeadline"` // raw matched text
	PostedDate          string       `json:"postedDate"`          // raw matched text
	Keywords            []string     `json:"keywords"`
}

type Requirements struct {
	Education      []EducationRequirement     `json:"education"`
	Experience     []ExperienceRequirement    `json:"experience"`
	Skills         []SkillRequirement         `json:"skills"`
	Languages      []LanguageRequirement      `json:"languages"`
	Certifications []CertificationRequirement `json:"certifications"`
}

type EducationRequirement struct {
	Level    string `json:"level"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
}

type ExperienceRequirement struct {
	Years    int    `json:"years"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
}

type SkillLevel string

const (
	SkillExpert       SkillLevel = "expert"
	SkillIntermediate SkillLevel = "intermediate"
	SkillBeginner     SkillLevel = "beginner"
)

// MarshalJSON writes an unset level as null.
func (l SkillLevel) MarshalJSON() ([]byte, error) {
	if l == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

func (l *SkillLevel) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = SkillLevel(s)
	return nil
}

type SkillRequirement struct {
	Name     string     `json:"name"`
	Level    SkillLevel `json:"level"`
	Required bool       `json:"required"`
}

type LanguageProficiency string

const (
	LanguageFluent         LanguageProficiency = "fluent"
	LanguageConversational LanguageProficiency = "conversational"
	LanguageBasic          LanguageProficiency = "basic"
)

type LanguageRequirement struct {
	Name        string              `json:"name"`
	Proficiency LanguageProficiency `json:"proficiency"`
	Required    bool                `json:"required"`
}

type CertificationRequirement struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// SalaryInfo fields are all optional; nil/empty means "not mentioned", not zero.
type SalaryInfo struct {
	Min      *int   `json:"min,omitempty"`
	Max      *int   `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"` // USD/EUR/GBP/JPY...
	Period   string `json:"period,omitempty"`   // hourly/annual/monthly/weekly
}

func (s SalaryInfo) IsZero() bool {
	return s.Min == nil && s.Max == nil && s.Currency == "" && s.Period == ""
}

// NewJobPosting returns the all-defaults record. Lists are non-nil so they
// marshal as [] rather than null.
func NewJobPosting() JobPosting {
	return JobPosting{
		EmploymentType:   DefaultEmploymentType,
		WorkMode:         DefaultWorkMode,
		Responsibilities: []string{},
		Benefits:         []string{},
		Keywords:         []string{},
		Requirements: Requirements{
			Education:      []EducationRequirement{},
			Experience:     []ExperienceRequirement{},
			Skills:         []SkillRequirement{},
			Languages:      []LanguageRequirement{},
			Certifications: []CertificationRequirement{},
		},
	}
}

// DefaultedFields lists the fields still holding their default value.
// Employment type and work mode are reported when they equal the assumed
// defaults, since a stated "full-time" cannot be told apart from an unstated one.
func (j JobPosting) DefaultedFields() []string {
	var out []string
	add := func(name string, isDefault bool) {
		if isDefault {
			out = append(out, name)
		}
	}
	add("title", j.Title == "")
	add("company", j.Company == "")
	add("location", j.Location == "")
	add("employmentType", j.EmploymentType == DefaultEmploymentType)
	add("workMode", j.WorkMode == DefaultWorkMode)
	add("description", j.Description == "")
	add("responsibilities", len(j.Responsibilities) == 0)
	add("requirements", j.Requirements.empty())
	add("benefits", len(j.Benefits) == 0)
	add("salary", j.Salary.IsZero())
	add("applicationDeadline", j.ApplicationDeadline == "")
	add("postedDate", j.PostedDate == "")
	add("keywords", len(j.Keywords) == 0)
	return out
}

func (r Requirements) empty() bool {
	return len(r.Education) == 0 && len(r.Experience) == 0 && len(r.Skills) == 0 &&
		len(r.Languages) == 0 && len(r.Certifications) == 0
}
