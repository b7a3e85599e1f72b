package parser

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestStructureSectionedResume(t *testing.T) {
	text := "Summary\nSenior Engineer with 5 years.\n\nSkills\nPython, SQL, Docker"

	got := Structure(text)

	if !reflect.DeepEqual(got.Skills, []string{"Python", "SQL", "Docker"}) {
		t.Fatalf("skills = %v", got.Skills)
	}
	if got.Confidence["skills"] != 0.85 {
		t.Fatalf("skills confidence = %v", got.Confidence["skills"])
	}
	if got.Summary == nil || *got.Summary != "Senior Engineer with 5 years." {
		t.Fatalf("summary = %v", got.Summary)
	}
	if got.Confidence["summary"] != 0.85 {
		t.Fatalf("summary confidence = %v", got.Confidence["summary"])
	}
	if len(got.Titles) != 1 || got.Titles[0] != "Senior Engineer with 5 years." {
		t.Fatalf("titles = %v", got.Titles)
	}
	if got.Confidence["titles"] != 0.4 {
		t.Fatalf("titles confidence = %v", got.Confidence["titles"])
	}
	if got.ParseConfidence != 0.5286 {
		t.Fatalf("parse confidence = %v", got.ParseConfidence)
	}
}

func TestStructureDeterministic(t *testing.T) {
	text := "Jane Doe\njane@example.com\nSoftware Developer at Acme | Remote\n\n" +
		"Work Experience\nBackend Developer at Initech\nBuilt payments infrastructure for a bank\n\n" +
		"Education\nBSc Computer Science, State University"

	first := Structure(text)
	second := Structure(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("outputs differ:\n%+v\n%+v", first, second)
	}
}

func TestStructureHeadlineSkipsContactLines(t *testing.T) {
	text := "jane@example.com\n+1 555-123-4567\nStaff Engineer\n\nSkills\nGo"

	got := Structure(text)
	if got.Headline == nil || *got.Headline != "Staff Engineer" {
		t.Fatalf("headline = %v", got.Headline)
	}
	if got.Confidence["headline"] != 0.7 {
		t.Fatalf("headline confidence = %v", got.Confidence["headline"])
	}
}

func TestStructureKnownSkillsFallback(t *testing.T) {
	text := "Worked with Python and Docker on Kubernetes clusters."

	got := Structure(text)
	if !reflect.DeepEqual(got.Skills, []string{"Python", "Docker", "Kubernetes"}) {
		t.Fatalf("skills = %v", got.Skills)
	}
	if got.Confidence["skills"] != 0.55 {
		t.Fatalf("skills confidence = %v", got.Confidence["skills"])
	}
}

func TestStructureIndustryInferenceOrdered(t *testing.T) {
	text := "Delivered healthcare integrations and banking platforms for utilities providers."

	got := Structure(text)
	if !reflect.DeepEqual(got.Industries, []string{"FinTech", "Healthcare", "Energy"}) {
		t.Fatalf("industries = %v", got.Industries)
	}
	if got.Confidence["industries"] != 0.5 {
		t.Fatalf("industries confidence = %v", got.Confidence["industries"])
	}
}

func TestStructureTitleSeparator(t *testing.T) {
	text := "Experience\nPlatform Engineer at BigCo\nTech Lead | Payments Team"

	got := Structure(text)
	if !reflect.DeepEqual(got.Titles, []string{"Platform Engineer", "Tech Lead"}) {
		t.Fatalf("titles = %v", got.Titles)
	}
	if got.Confidence["titles"] != 0.75 {
		t.Fatalf("titles confidence = %v", got.Confidence["titles"])
	}
}

func TestStructureKeywordCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Skills\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Skill%d, ", i)
	}
	sb.WriteString("\nExperience\n")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&sb, "Engineer Number %d at Corp%d\n", i, i)
	}

	got := Structure(sb.String())
	if len(got.Skills) != 40 {
		t.Fatalf("skills len = %d", len(got.Skills))
	}
	if len(got.Titles) != 15 {
		t.Fatalf("titles len = %d", len(got.Titles))
	}
	if len(got.Keywords) != 50 {
		t.Fatalf("keywords len = %d", len(got.Keywords))
	}
}

func TestHeadingName(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"Professional Summary:", "summary"},
		{"TECHNICAL SKILLS", "skills"},
		{"Employment History -", "experience"},
		{"Academic Background", "education"},
		{"Industry Exposure", "industries"},
		{"What I did at my last five jobs", ""},
		{"Senior Engineer with 5 years.", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := headingName(tc.line); got != tc.want {
			t.Errorf("headingName(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestSectionToItemsFilters(t *testing.T) {
	long := strings.Repeat("x", 121)
	wordy := strings.Repeat("word ", 14)
	items := sectionToItems("Go; Python\n- Docker, docker\n"+long+"\n"+wordy, 10)
	want := []string{"Go", "Python", "Docker"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
}

func TestStructureEmptyText(t *testing.T) {
	got := Structure("")
	if got.Headline != nil || got.Summary != nil {
		t.Fatalf("expected empty headline and summary, got %v %v", got.Headline, got.Summary)
	}
	if len(got.Skills) != 0 || len(got.Keywords) != 0 {
		t.Fatalf("expected no skills or keywords, got %v %v", got.Skills, got.Keywords)
	}
	if got.ParseConfidence != 0.2786 {
		t.Fatalf("parse confidence = %v", got.ParseConfidence)
	}
}

func TestStructureMultibyteLineBounds(t *testing.T) {
	headline := strings.Repeat("é", 100)           // 100 runes, 200 bytes
	title := "Engineer " + strings.Repeat("ü", 70) // 79 runes, 149 bytes

	got := Structure(headline + "\n" + title + "\n")

	if got.Headline == nil || *got.Headline != headline {
		t.Fatalf("headline = %v", got.Headline)
	}
	if len(got.Titles) != 1 || got.Titles[0] != title {
		t.Fatalf("titles = %v", got.Titles)
	}
}
