package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jdparse-engine/internal/domain"
)

func TestExperience(t *testing.T) {
	p := newTestParser(t)
	tests := []struct {
		name string
		text string
		want []domain.ExperienceRequirement
	}{
		{
			name: "lead-in variants",
			text: "Minimum of 3 years experience with Python. At least 2 years in management. 3-5 years of Java experience.",
			want: []domain.ExperienceRequirement{
				{Years: 3, Field: "Python", Required: true},
				{Years: 2, Field: "", Required: true},
				{Years: 3, Field: "Java", Required: true},
			},
		},
		{
			name: "plain years need experience nearby",
			text: "We have been around for 12 years. 4 years of professional experience in data engineering.",
			want: []domain.ExperienceRequirement{
				{Years: 4, Field: "data engineering", Required: true},
			},
		},
		{
			name: "none",
			text: "Curiosity and kindness.",
			want: []domain.ExperienceRequirement{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, p.experience(p.document(tc.text))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestEducationFlagIsCoarse(t *testing.T) {
	p := newTestParser(t)
	got := p.education(p.document("Master's degree in Data Science required. MBA preferred."))
	want := []domain.EducationRequirement{
		{Level: "master's degree", Field: "Data Science", Required: false},
		{Level: "MBA", Field: "", Required: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func newClauseParser(t *testing.T) *Parser {
	t.Helper()
	v := DefaultVocabulary()
	v.ClauseWindows = true
	p, err := NewParser(Options{Vocabulary: v})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func TestSkillLevels(t *testing.T) {
	p := newTestParser(t)
	got := p.skills(p.document("Expert knowledge of Python. Our team ships small changes often and reviews all work with care. " +
		"Basic understanding of Docker. We deploy several times each day to many regions. Familiar with Kafka (nice to have)."))
	want := []domain.SkillRequirement{
		{Name: "Python", Level: domain.SkillExpert, Required: true},
		{Name: "Docker", Level: domain.SkillBeginner, Required: true},
		{Name: "Kafka", Level: domain.SkillIntermediate, Required: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestQualifierWindow(t *testing.T) {
	text := "Requirements:\n- Python\n- Docker preferred"

	// "preferred" is within 50 bytes of both skills
	p := newTestParser(t)
	want := []domain.SkillRequirement{
		{Name: "Python", Required: false},
		{Name: "Docker", Required: false},
	}
	if diff := cmp.Diff(want, p.Parse(text).Requirements.Skills); diff != "" {
		t.Errorf("byte window (-want +got):\n%s", diff)
	}

	p = newClauseParser(t)
	want[0].Required = true
	if diff := cmp.Diff(want, p.Parse(text).Requirements.Skills); diff != "" {
		t.Errorf("clause window (-want +got):\n%s", diff)
	}
}

func TestSkillLevelsClauseWindows(t *testing.T) {
	p := newClauseParser(t)
	got := p.skills(p.document("Expert knowledge of Python. Basic understanding of Docker. Familiar with Kafka (nice to have)."))
	want := []domain.SkillRequirement{
		{Name: "Python", Level: domain.SkillExpert, Required: true},
		{Name: "Docker", Level: domain.SkillBeginner, Required: true},
		{Name: "Kafka", Level: domain.SkillIntermediate, Required: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	// the same text with byte windows lets neighbouring sentences bleed in
	q := newTestParser(t)
	got = q.skills(q.document("Expert knowledge of Python. Basic understanding of Docker. Familiar with Kafka (nice to have)."))
	if got[0].Level != domain.SkillBeginner {
		t.Errorf("Python level = %v, want beginner from the next sentence", got[0].Level)
	}
}

func TestLanguages(t *testing.T) {
	p := newTestParser(t)
	got := p.languages(p.document("Languages: Native Spanish. We write all product docs in a shared wiki and review them weekly. " +
		"Basic French. Our support team covers every region around the clock. German is a plus."))
	want := []domain.LanguageRequirement{
		{Name: "Spanish", Proficiency: domain.LanguageFluent, Required: true},
		{Name: "French", Proficiency: domain.LanguageBasic, Required: true},
		{Name: "German", Proficiency: domain.LanguageConversational, Required: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLanguagesClauseWindows(t *testing.T) {
	p := newClauseParser(t)
	got := p.languages(p.document("Languages: Native Spanish, basic French. German is a plus."))
	want := []domain.LanguageRequirement{
		{Name: "Spanish", Proficiency: domain.LanguageFluent, Required: true},
		{Name: "French", Proficiency: domain.LanguageBasic, Required: true},
		{Name: "German", Proficiency: domain.LanguageConversational, Required: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLanguagesIgnoreCase(t *testing.T) {
	p := newTestParser(t)
	got := p.languages(p.document("Must be fluent in spanish. You will polish our release notes."))
	want := []domain.LanguageRequirement{
		{Name: "Spanish", Proficiency: domain.LanguageFluent, Required: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCertifications(t *testing.T) {
	p := newClauseParser(t)
	text := "Requirements:\n" +
		"- Valid driver's license\n" +
		"- PMP certification preferred\n" +
		"- Certification in Project Management\n" +
		"- CompTIA Security+ required\n" +
		"- Certifications welcome"
	got := p.certifications(p.document(text))
	want := []domain.CertificationRequirement{
		{Name: "Valid driver's license", Required: true},
		{Name: "PMP", Required: false},
		{Name: "Project Management", Required: true},
		{Name: "CompTIA Security+", Required: true},
		{Name: "Certifications", Required: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCertificationBareKeyword(t *testing.T) {
	p := newTestParser(t)
	got := p.certifications(p.document("Relevant certification required."))
	want := []domain.CertificationRequirement{{Name: "certification", Required: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRequirementScopeFallsBackToText(t *testing.T) {
	p := newTestParser(t)
	d := p.document("Python and SQL work daily")
	if got := d.requirementScope(SectionSkills); got != d.text {
		t.Errorf("scope = %q", got)
	}
	d = p.document("Intro line\n\nRequirements:\n- Rust\n\nSkills:\n- Redis")
	if got := d.requirementScope(SectionSkills); got != "- Rust\n- Redis" {
		t.Errorf("scope = %q", got)
	}
}
