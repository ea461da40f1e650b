package extract

import (
	"slices"
	"strings"
)

type SectionName string

const (
	SectionTitle            SectionName = "title"
	SectionCompany          SectionName = "company"
	SectionLocation         SectionName = "location"
	SectionEmploymentType   SectionName = "employment_type"
	SectionWorkMode         SectionName = "work_mode"
	SectionDescription      SectionName = "description"
	SectionResponsibilities SectionName = "responsibilities"
	SectionRequirements     SectionName = "requirements"
	SectionEducation        SectionName = "education"
	SectionExperience       SectionName = "experience"
	SectionSkills           SectionName = "skills"
	SectionBenefits         SectionName = "benefits"
	SectionSalary           SectionName = "salary"
	SectionApplication      SectionName = "application"
	SectionDeadline         SectionName = "deadline"
)

// SectionRule maps a heading pattern to a section. Rules are tried in order.
type SectionRule struct {
	Name    SectionName
	Pattern string // case-insensitive, matched against the heading label
}

// Term is one vocabulary entry. Pattern defaults to the quoted Name.
type Term struct {
	Name          string
	Pattern       string
	CaseSensitive bool
}

// LevelRule maps modifier words to a level, e.g. "proficient" -> expert.
type LevelRule struct {
	Level string
	Words []string
}

// Vocabulary holds every fixed table the extractors consult. It is plain data;
// NewParser compiles it once and the compiled form is never mutated.
type Vocabulary struct {
	Sections        []SectionRule
	EmploymentTypes []Term
	WorkModes       []Term
	EducationLevels []Term
	Skills          []Term
	Languages       []Term
	Certifications  []Term

	// generic certification words ("license") whose name comes from context
	CertificationWords []string
	GenericKeywords    []string

	Preferred []string
	Required  []string

	SkillLevels    []LevelRule
	LanguageLevels []LevelRule

	// proficiency used when no language modifier is near the match
	DefaultLanguageLevel string

	// cut the ±50 byte qualifier and proficiency windows at line and
	// sentence breaks, so a qualifier on the next bullet does not apply
	ClauseWindows bool
}

// DefaultVocabulary returns a fresh copy of the built-in tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Sections: []SectionRule{
			{SectionTitle, `\b(job\s+title|position\s+title|title)\b|^(position|role)$`},
			{SectionCompany, `^(company(\s+name)?|employer|organi[sz]ation|hiring\s+company)$`},
			{SectionLocation, `\b(job\s+|work\s+)?locations?\b|^where\s+you'?ll\s+work$`},
			{SectionEmploymentType, `\b(employment|job|contract|position)\s+type\b|^(type|schedule|employment)$`},
			{SectionWorkMode, `\bwork(place)?\s+(mode|model|arrangement|setup|style|type)\b|^workplace$|\bremote\s+policy\b`},
			{SectionDescription, `\b(description|summary|overview|introduction)\b|\babout\s+the\s+(role|job|position|opportunity)\b|^the\s+role$`},
			{SectionResponsibilities, `\b(responsibilities|duties|accountabilities)\b|\bwhat\s+you('ll|\s+will)\s+do\b|\byour\s+role\b|\bday[\s-]to[\s-]day\b`},
			{SectionRequirements, `\b(requirements|qualifications|must\s+haves?)\b|\bwhat\s+you('ll|\s+will)\s+(need|bring)\b|\bwhat\s+we('re|\s+are)\s+looking\s+for\b|\bwho\s+you\s+are\b|\babout\s+you\b`},
			{SectionEducation, `\b(education|academic\s+background|degree\s+requirements?)\b`},
			{SectionExperience, `\b(experience|work\s+history)\b`},
			{SectionSkills, `\b(skills|skill\s+set|tech(nology)?\s+stack|technologies|competencies|tools)\b`},
			{SectionBenefits, `\b(benefits|perks)\b|\b(what\s+)?we\s+offer\b|\bwhy\s+(join|work)\b`},
			{SectionSalary, `\b(salary|compensation|pay(\s+range)?|wages?|remuneration)\b`},
			// ahead of application so "Application deadline" is a deadline heading
			{SectionDeadline, `\b(deadline|closing\s+date|apply\s+by)\b|\bapplications?\s+close\b`},
			{SectionApplication, `\bhow\s+to\s+apply\b|\b(application(\s+process)?|to\s+apply|apply\s+now)\b`},
		},
		EmploymentTypes: []Term{
			{Name: "full-time", Pattern: `full[\s-]?time`},
			{Name: "part-time", Pattern: `part[\s-]?time`},
			{Name: "contract"},
			{Name: "temporary"},
			{Name: "internship"},
			{Name: "freelance"},
			{Name: "permanent"},
			{Name: "casual"},
			{Name: "seasonal"},
		},
		WorkModes: []Term{
			{Name: "remote"},
			{Name: "on-site", Pattern: `on[\s-]?site`},
			{Name: "hybrid"},
			{Name: "flexible"},
			{Name: "work from home", Pattern: `work(ing)?\s+from\s+home`},
		},
		EducationLevels: []Term{
			{Name: "high school diploma", Pattern: `(?i:high[\s-]school|secondary\s+school)|GED`, CaseSensitive: true},
			{Name: "associate's degree", Pattern: `(?i:associate'?s?\s+(degree|of))`, CaseSensitive: true},
			{Name: "bachelor's degree", Pattern: `(?i:bachelor'?s?|undergraduate\s+degree)|B\.?Sc?\.?|B\.A\.|BA`, CaseSensitive: true},
			{Name: "master's degree", Pattern: `(?i:masters|master'?s?\s+(degree|of|in)|graduate\s+degree)|M\.S\.?|M\.?Sc\.?|M\.A\.`, CaseSensitive: true},
			{Name: "doctorate", Pattern: `(?i:ph\.?d\.?|doctorate|doctoral\s+degree)`, CaseSensitive: true},
			{Name: "MBA", Pattern: `MBA`, CaseSensitive: true},
		},
		Skills:         defaultSkills(),
		Languages:      defaultLanguages(),
		Certifications: defaultCertifications(),
		CertificationWords: []string{
			"certification", "certifications", "certificate", "certified",
			"license", "licence", "licensed", "licensure",
		},
		GenericKeywords: []string{
			"senior", "junior", "lead", "principal", "manager", "engineer", "developer",
			"analyst", "designer", "architect", "consultant", "intern",
			"remote", "hybrid", "full-time", "part-time", "contract",
			"startup", "enterprise", "cross-functional", "stakeholders", "mentoring",
		},
		Preferred: []string{
			"preferred", "nice to have", "nice-to-have", "desirable", "desired",
			"a plus", "bonus", "advantageous", "ideally", "optional",
		},
		Required: []string{
			"required", "must have", "must-have", "must", "mandatory", "essential", "necessary",
		},
		SkillLevels: []LevelRule{
			{Level: "expert", Words: []string{"expert", "expertise", "advanced", "proficient", "extensive"}},
			{Level: "intermediate", Words: []string{"intermediate", "competent", "familiar", "familiarity"}},
			{Level: "beginner", Words: []string{"beginner", "basic", "novice", "elementary"}},
		},
		LanguageLevels: []LevelRule{
			{Level: "fluent", Words: []string{"native", "fluent", "fluency", "bilingual", "proficient", "advanced"}},
			{Level: "conversational", Words: []string{"intermediate", "conversational", "working"}},
			{Level: "basic", Words: []string{"basic", "beginner", "elementary"}},
		},
		DefaultLanguageLevel: "conversational",
	}
}

func defaultSkills() []Term {
	return []Term{
		// languages
		{Name: "Python"},
		{Name: "Java"},
		{Name: "JavaScript"},
		{Name: "TypeScript"},
		{Name: "Go", Pattern: `Go|(?i:golang)`, CaseSensitive: true},
		{Name: "C++"},
		{Name: "C#"},
		{Name: "Ruby"},
		{Name: "PHP"},
		{Name: "Swift", CaseSensitive: true},
		{Name: "Kotlin"},
		{Name: "Rust", CaseSensitive: true},
		{Name: "Scala"},
		{Name: "Perl"},
		{Name: "MATLAB"},
		{Name: "Objective-C"},
		{Name: "Dart", CaseSensitive: true},
		{Name: "Elixir"},
		{Name: "Haskell"},
		{Name: "Bash"},
		{Name: "SQL"},
		{Name: "HTML", Pattern: `HTML5?`},
		{Name: "CSS", Pattern: `CSS3?`},
		// frameworks and libraries
		{Name: "React", Pattern: `React(\.js|JS)?`, CaseSensitive: true},
		{Name: "React Native"},
		{Name: "Angular"},
		{Name: "Vue.js", Pattern: `vue(\.js)?`},
		{Name: "Svelte"},
		{Name: "Next.js"},
		{Name: "Node.js", Pattern: `node(\.js|js)`},
		{Name: "Express", Pattern: `Express(\.js)?`, CaseSensitive: true},
		{Name: "Django"},
		{Name: "Flask"},
		{Name: "FastAPI"},
		{Name: "Spring Boot", Pattern: `Spring(\s+Boot)?`, CaseSensitive: true},
		{Name: "Ruby on Rails", Pattern: `ruby\s+on\s+rails|rails`},
		{Name: "Laravel"},
		{Name: ".NET", Pattern: `\.NET(\s+Core)?`, CaseSensitive: true},
		{Name: "ASP.NET"},
		{Name: "jQuery"},
		{Name: "Redux"},
		{Name: "GraphQL"},
		{Name: "REST", Pattern: `REST(ful)?(\s+APIs?)?`, CaseSensitive: true},
		{Name: "gRPC"},
		{Name: "TensorFlow"},
		{Name: "PyTorch"},
		{Name: "Pandas", Pattern: `pandas`},
		{Name: "NumPy"},
		{Name: "scikit-learn"},
		{Name: "Spark", Pattern: `Spark|(?i:apache\s+spark)`, CaseSensitive: true},
		{Name: "Hadoop"},
		{Name: "Kafka"},
		{Name: "RabbitMQ"},
		// infrastructure and tools
		{Name: "Docker"},
		{Name: "Kubernetes", Pattern: `kubernetes|k8s`},
		{Name: "Helm", CaseSensitive: true},
		{Name: "Terraform"},
		{Name: "Ansible"},
		{Name: "Jenkins"},
		{Name: "GitHub Actions"},
		{Name: "GitLab"},
		{Name: "Git", CaseSensitive: true},
		{Name: "AWS", Pattern: `AWS|(?i:amazon\s+web\s+services)`, CaseSensitive: true},
		{Name: "Azure"},
		{Name: "GCP", Pattern: `GCP|(?i:google\s+cloud(\s+platform)?)`, CaseSensitive: true},
		{Name: "Linux"},
		{Name: "Unix"},
		{Name: "Nginx"},
		{Name: "Jira"},
		{Name: "Confluence"},
		{Name: "Figma"},
		{Name: "Photoshop"},
		{Name: "Illustrator", CaseSensitive: true},
		{Name: "Salesforce"},
		{Name: "SAP", CaseSensitive: true},
		{Name: "Tableau"},
		{Name: "Power BI"},
		{Name: "Looker"},
		{Name: "Excel", CaseSensitive: true},
		// databases
		{Name: "PostgreSQL", Pattern: `postgres(ql)?`},
		{Name: "MySQL"},
		{Name: "MongoDB", Pattern: `mongo(db)?`},
		{Name: "Redis"},
		{Name: "Elasticsearch"},
		{Name: "Cassandra"},
		{Name: "DynamoDB"},
		{Name: "Oracle", CaseSensitive: true},
		{Name: "SQL Server"},
		{Name: "Snowflake", CaseSensitive: true},
		{Name: "BigQuery"},
		// methodologies and domains
		{Name: "Agile"},
		{Name: "Scrum"},
		{Name: "Kanban"},
		{Name: "DevOps"},
		{Name: "CI/CD"},
		{Name: "TDD", CaseSensitive: true},
		{Name: "Microservices"},
		{Name: "Machine Learning"},
		{Name: "Deep Learning"},
		{Name: "NLP", Pattern: `NLP|(?i:natural\s+language\s+processing)`, CaseSensitive: true},
		{Name: "Computer Vision"},
		{Name: "Data Analysis"},
		{Name: "Data Science"},
		{Name: "ETL", CaseSensitive: true},
		// soft skills
		{Name: "Communication", Pattern: `communications?`},
		{Name: "Leadership"},
		{Name: "Teamwork"},
		{Name: "Problem Solving", Pattern: `problem[\s-]solving`},
		{Name: "Critical Thinking"},
		{Name: "Time Management"},
		{Name: "Project Management"},
		{Name: "Collaboration"},
		{Name: "Adaptability"},
		{Name: "Attention to Detail"},
		{Name: "Customer Service"},
		{Name: "Negotiation"},
	}
}

func defaultLanguages() []Term {
	names := []string{
		"English", "Spanish", "French", "German", "Mandarin", "Chinese", "Cantonese",
		"Japanese", "Korean", "Portuguese", "Italian", "Russian", "Arabic", "Hindi",
		"Dutch", "Swedish", "Norwegian", "Danish", "Finnish", "Polish", "Turkish",
		"Hebrew", "Greek", "Vietnamese", "Thai", "Indonesian", "Malay", "Tagalog",
		"Bengali", "Urdu", "Swahili", "Czech", "Hungarian", "Romanian", "Ukrainian",
		"Persian", "Punjabi", "Tamil",
	}
	out := make([]Term, 0, len(names))
	for _, n := range names {
		// "polish" is usually the verb
		out = append(out, Term{Name: n, CaseSensitive: n == "Polish"})
	}
	return out
}

func defaultCertifications() []Term {
	return []Term{
		{Name: "PMP", CaseSensitive: true},
		{Name: "CAPM", CaseSensitive: true},
		{Name: "PRINCE2", CaseSensitive: true},
		{Name: "CPA", CaseSensitive: true},
		{Name: "CFA", CaseSensitive: true},
		{Name: "CMA", CaseSensitive: true},
		{Name: "ACCA", CaseSensitive: true},
		{Name: "CISSP", CaseSensitive: true},
		{Name: "CISM", CaseSensitive: true},
		{Name: "CISA", CaseSensitive: true},
		{Name: "CEH", CaseSensitive: true},
		{Name: "OSCP", CaseSensitive: true},
		{Name: "CCNA", CaseSensitive: true},
		{Name: "CCNP", CaseSensitive: true},
		{Name: "CKA", CaseSensitive: true},
		{Name: "CKAD", CaseSensitive: true},
		{Name: "CompTIA", Pattern: `CompTIA(\s+(A|Network|Security|Cloud)\+)?`, CaseSensitive: true},
		{Name: "Security+", CaseSensitive: true},
		{Name: "AWS Certified", Pattern: `AWS\s+Certified(\s+[A-Z][a-z]+){0,4}`, CaseSensitive: true},
		{Name: "ITIL", CaseSensitive: true},
		{Name: "Six Sigma", Pattern: `(Lean\s+)?Six\s+Sigma(\s+(Green|Black|Yellow)\s+Belt)?`, CaseSensitive: true},
		{Name: "CSM", CaseSensitive: true},
		{Name: "PSM", CaseSensitive: true},
		{Name: "PHR", CaseSensitive: true},
		{Name: "SPHR", CaseSensitive: true},
		{Name: "SHRM-CP", CaseSensitive: true},
		{Name: "SHRM-SCP", CaseSensitive: true},
		{Name: "CPR", CaseSensitive: true},
		{Name: "BLS", CaseSensitive: true},
		{Name: "ACLS", CaseSensitive: true},
		{Name: "RN", CaseSensitive: true},
		{Name: "LPN", CaseSensitive: true},
		{Name: "CDL", CaseSensitive: true},
	}
}

// AddSkills appends skills not already present (case-insensitive on name).
func (v *Vocabulary) AddSkills(names ...string) {
	v.Skills = appendTerms(v.Skills, names, false)
}

// AddLanguages appends human languages, matched case-insensitively.
func (v *Vocabulary) AddLanguages(names ...string) {
	v.Languages = appendTerms(v.Languages, names, false)
}

func (v *Vocabulary) AddCertifications(names ...string) {
	v.Certifications = appendTerms(v.Certifications, names, false)
}

func (v *Vocabulary) AddKeywords(words ...string) {
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if slices.ContainsFunc(v.GenericKeywords, func(k string) bool { return strings.EqualFold(k, w) }) {
			continue
		}
		v.GenericKeywords = append(v.GenericKeywords, w)
	}
}

func appendTerms(terms []Term, names []string, caseSensitive bool) []Term {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if slices.ContainsFunc(terms, func(t Term) bool { return strings.EqualFold(t.Name, n) }) {
			continue
		}
		terms = append(terms, Term{Name: n, CaseSensitive: caseSensitive})
	}
	return terms
}
