// Package parser turns raw resume text into a structured profile with
// per-field confidence scores. It is a deterministic heuristic extractor:
// the same input text always produces the same output, and confidence
// reflects how specific the source was (explicit section > full-text
// inference > fallback).
package parser

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// StructuredResume is the output of Structure.
type StructuredResume struct {
	Headline        *string
	Summary         *string
	Skills          []string
	Titles          []string
	Industries      []string
	Education       map[string]any
	Experience      map[string]any
	Keywords        []string
	Confidence      map[string]float64
	ParseConfidence float64
}

// Section heading aliases, matched case- and punctuation-insensitively.
var headingAliases = map[string][]string{
	"summary":    {"summary", "professional summary", "profile", "about"},
	"skills":     {"skills", "technical skills", "core skills", "competencies", "tech stack"},
	"experience": {"experience", "work experience", "professional experience", "employment history"},
	"education":  {"education", "academic background", "qualifications"},
	"industries": {"industries", "industry", "industry exposure"},
}

var titleKeywords = []string{
	"engineer", "developer", "manager", "analyst", "designer", "consultant",
	"director", "lead", "architect", "scientist", "specialist", "coordinator",
	"administrator", "product", "owner",
}

var knownSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "SQL", "PostgreSQL", "MySQL",
	"AWS", "Azure", "Docker", "Kubernetes", "React", "Node.js", "FastAPI",
	"Django", "Flask", "Git", "Linux", "Pandas", "NumPy", "Machine Learning",
	"Data Analysis", "REST APIs", "GraphQL", "Microservices", "Agile", "Scrum",
	"Project Management",
}

// Ordered so inference output is deterministic.
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"FinTech", []string{"fintech", "bank", "banking", "payments", "insurance"}},
	{"Healthcare", []string{"healthcare", "hospital", "clinical", "medical", "ehr"}},
	{"Education", []string{"education", "edtech", "university", "school", "learning"}},
	{"E-commerce", []string{"e-commerce", "ecommerce", "retail", "marketplace"}},
	{"SaaS", []string{"saas", "subscription software", "b2b software"}},
	{"Government", []string{"government", "public sector", "ministry"}},
	{"Telecom", []string{"telecom", "telecommunications", "network operations"}},
	{"Energy", []string{"energy", "oil", "gas", "renewable", "utilities"}},
}

var (
	splitRe           = regexp.MustCompile(`[,\n;|]+`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
	headingPunctRe    = regexp.MustCompile(`[:\- ]+$`)
	nonHeadingCharsRe = regexp.MustCompile(`[^a-z ]`)
	phoneRe           = regexp.MustCompile(`\+?\d[\d\- ()]{6,}`)
	titleSeparatorRe  = regexp.MustCompile(`\s+at\s+|\s+\|\s+|\s+-\s+`)
)

// Structure runs the full extraction pipeline over raw resume text.
func Structure(text string) *StructuredResume {
	sections := splitSections(text)
	skills, skillsConf := extractSkills(sections, text)
	titles, titlesConf := extractTitles(sections, text)
	industries, industriesConf := extractIndustries(sections, text)
	summary, summaryConf := extractSummary(sections, titles, text)
	headline, headlineConf := extractHeadline(sections, titles, summary)

	educationItems := sectionToItems(sections["education"], 25)
	experienceItems := sectionToItems(sections["experience"], 40)

	educationConf := 0.35
	if len(educationItems) > 0 {
		educationConf = 0.75
	}
	experienceConf := 0.35
	if len(experienceItems) > 0 {
		experienceConf = 0.8
	}

	confidence := map[string]float64{
		"headline":        headlineConf,
		"summary":         summaryConf,
		"skills":          skillsConf,
		"titles":          titlesConf,
		"industries":      industriesConf,
		"education_json":  educationConf,
		"experience_json": experienceConf,
	}
	var sum float64
	for _, v := range confidence {
		sum += v
	}
	parseConfidence := math.Round(sum/float64(len(confidence))*10000) / 10000

	combined := append(append(append([]string{}, skills...), titles...), industries...)
	keywords := dedupeKeepOrder(combined)
	if len(keywords) > 50 {
		keywords = keywords[:50]
	}

	return &StructuredResume{
		Headline:        headline,
		Summary:         summary,
		Skills:          skills,
		Titles:          titles,
		Industries:      industries,
		Education:       itemsBlob(educationItems),
		Experience:      itemsBlob(experienceItems),
		Keywords:        keywords,
		Confidence:      confidence,
		ParseConfidence: parseConfidence,
	}
}

func itemsBlob(items []string) map[string]any {
	wrapped := make([]map[string]string, 0, len(items))
	for _, item := range items {
		wrapped = append(wrapped, map[string]string{"raw": item})
	}
	return map[string]any{"items": wrapped}
}

func normalizeLine(value string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(value), " ")
}

func dedupeKeepOrder(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, item)
		seen[key] = struct{}{}
	}
	return out
}

// headingName reports which section a line opens, or "" when the line is
// not a recognized heading. Headings are at most four words once
// punctuation is stripped.
func headingName(line string) string {
	candidate := strings.ToLower(strings.TrimSpace(line))
	if candidate == "" {
		return ""
	}
	candidate = headingPunctRe.ReplaceAllString(candidate, "")
	candidate = nonHeadingCharsRe.ReplaceAllString(candidate, " ")
	candidate = normalizeLine(candidate)
	if candidate == "" || len(strings.Fields(candidate)) > 4 {
		return ""
	}
	for section, aliases := range headingAliases {
		for _, alias := range aliases {
			if candidate == alias {
				return section
			}
		}
	}
	return ""
}

// splitSections accumulates lines under the most recent heading; text
// before the first heading lands in "preamble".
func splitSections(text string) map[string]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	order := []string{"preamble"}
	sections := map[string][]string{"preamble": nil}
	current := "preamble"
	for _, rawLine := range lines {
		stripped := strings.TrimSpace(rawLine)
		if stripped != "" {
			if heading := headingName(stripped); heading != "" {
				current = heading
				if _, ok := sections[current]; !ok {
					sections[current] = nil
					order = append(order, current)
				}
				continue
			}
		}
		sections[current] = append(sections[current], rawLine)
	}

	compact := make(map[string]string, len(order))
	for _, key := range order {
		var kept []string
		for _, line := range sections[key] {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, normalizeLine(line))
			}
		}
		compact[key] = strings.TrimSpace(strings.Join(kept, "\n"))
	}
	return compact
}

func sectionToItems(sectionText string, maxItems int) []string {
	if sectionText == "" {
		return nil
	}
	var items []string
	for _, token := range splitRe.Split(sectionText, -1) {
		item := normalizeLine(token)
		if item == "" || len(item) > 120 || strings.Count(item, " ") > 12 {
			continue
		}
		items = append(items, strings.Trim(item, " -•"))
	}
	items = dedupeKeepOrder(items)
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func extractSkills(sections map[string]string, fullText string) ([]string, float64) {
	fromSection := sectionToItems(sections["skills"], 40)
	if len(fromSection) > 0 {
		return fromSection, 0.85
	}

	lowerText := strings.ToLower(fullText)
	var inferred []string
	for _, skill := range knownSkills {
		if strings.Contains(lowerText, strings.ToLower(skill)) {
			inferred = append(inferred, skill)
		}
	}
	inferred = dedupeKeepOrder(inferred)
	if len(inferred) > 0 {
		if len(inferred) > 40 {
			inferred = inferred[:40]
		}
		return inferred, 0.55
	}
	return nil, 0.3
}

func looksLikeContactLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(line, "@") ||
		strings.Contains(lower, "linkedin.com") ||
		strings.Contains(lower, "github.com") ||
		phoneRe.MatchString(line)
}

func containsTitleKeyword(lower string) bool {
	for _, keyword := range titleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func extractTitles(sections map[string]string, fullText string) ([]string, float64) {
	source := sections["experience"]
	if source == "" {
		source = sections["preamble"]
	}

	var titles []string
	for _, line := range strings.Split(source, "\n") {
		normalized := normalizeLine(line)
		if normalized == "" || looksLikeContactLine(normalized) {
			continue
		}
		if !containsTitleKeyword(strings.ToLower(normalized)) {
			continue
		}
		candidate := normalized
		if loc := titleSeparatorRe.FindStringIndex(normalized); loc != nil {
			candidate = strings.TrimSpace(normalized[:loc[0]])
		}
		if n := utf8.RuneCountInString(candidate); n >= 2 && n <= 90 {
			titles = append(titles, candidate)
		}
	}

	titles = dedupeKeepOrder(titles)
	if len(titles) > 15 {
		titles = titles[:15]
	}
	if len(titles) > 0 {
		if sections["experience"] != "" {
			return titles, 0.75
		}
		return titles, 0.55
	}

	// Last resort: look for a title keyword near the top of the document.
	head := strings.Split(fullText, "\n")
	if len(head) > 8 {
		head = head[:8]
	}
	for _, line := range head {
		if strings.TrimSpace(line) == "" {
			continue
		}
		normalized := normalizeLine(line)
		if containsTitleKeyword(strings.ToLower(normalized)) {
			return []string{normalized}, 0.4
		}
	}
	return nil, 0.25
}

func extractIndustries(sections map[string]string, fullText string) ([]string, float64) {
	fromSection := sectionToItems(sections["industries"], 15)
	if len(fromSection) > 0 {
		return fromSection, 0.8
	}

	lowerText := strings.ToLower(fullText)
	var inferred []string
	for _, entry := range industryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowerText, keyword) {
				inferred = append(inferred, entry.industry)
				break
			}
		}
	}
	inferred = dedupeKeepOrder(inferred)
	if len(inferred) > 0 {
		return inferred, 0.5
	}
	return nil, 0.3
}

func extractSummary(sections map[string]string, titles []string, fullText string) (*string, float64) {
	if summary := sections["summary"]; summary != "" {
		s := truncateRunes(summary, 1200)
		return &s, 0.85
	}

	var lines []string
	for _, line := range strings.Split(fullText, "\n") {
		if strings.TrimSpace(line) == "" || looksLikeContactLine(line) {
			continue
		}
		lines = append(lines, normalizeLine(line))
	}
	if len(lines) > 0 {
		if len(lines) > 4 {
			lines = lines[:4]
		}
		if candidate := strings.TrimSpace(strings.Join(lines, " ")); candidate != "" {
			s := truncateRunes(candidate, 1200)
			return &s, 0.55
		}
	}

	if len(titles) > 0 {
		s := titles[0]
		return &s, 0.35
	}
	return nil, 0.2
}

func extractHeadline(sections map[string]string, titles []string, summary *string) (*string, float64) {
	for _, line := range strings.Split(sections["preamble"], "\n") {
		candidate := normalizeLine(line)
		if candidate == "" || looksLikeContactLine(candidate) {
			continue
		}
		if n := utf8.RuneCountInString(candidate); n >= 2 && n <= 120 {
			return &candidate, 0.7
		}
	}

	if len(titles) > 0 {
		s := titles[0]
		return &s, 0.6
	}
	if summary != nil {
		s := truncateRunes(*summary, 120)
		return &s, 0.35
	}
	return nil, 0.2
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
