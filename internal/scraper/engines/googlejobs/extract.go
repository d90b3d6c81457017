package googlejobs

import "strings"

// DefaultJobKeywords is the curated list of role nouns and seniority
// modifiers a line must contain to be considered a job title.
var DefaultJobKeywords = []string{
	"Engineer", "Developer", "Manager", "Designer", "Analyst",
	"Architect", "Lead", "Senior", "Junior", "Staff", "Principal",
	"Full Stack", "Frontend", "Backend", "DevOps", "SRE", "QA",
	"Programmer", "Consultant", "Specialist", "Director", "Scientist",
	"Administrator", "Coordinator", "Technician", "Associate",
	"Intern", "Co-op", "Coop",
}

// DefaultSkipPatterns lists navigation and boilerplate substrings that
// disqualify a line from being a title. Includes multi-language "skip to
// content" variants since the results page localizes its chrome.
var DefaultSkipPatterns = []string{
	"http", "www.", ".com", ".ca", "...", "Search", "Filter",
	"Sign in", "Menu", "Indeed", "LinkedIn", "Glassdoor",
	"jobs in", "Jobs in", "salary", "Salary", "course",
	"meaning", "roadmap", "Best", "Find the", "Apply to",
	"Passer", "contenu", "principal", "Skip to", "How much",
	"jobs found", "Discover the", "Entry level", "jobs Remote",
	"People also", "Related searches", "More results",
	"Ir al contenido", "Ayuda sobre", "accessibilité", "accessibility",
	"Aller au contenu", "Zum Inhalt", "Vai al contenuto",
	"main content", "Skip to main", "Jump to", "Navegación",
}

// companyRejects are substrings that mark a would-be company line as
// navigation or URL junk. Matched case-sensitively.
var companyRejects = []string{"http", ".com", ".ca", "...", "Skip", "Passer"}

const (
	titleMinLen       = 10
	titleMaxLen       = 150
	companyMinLen     = 2
	companyMaxLen     = 100
	defaultCandidates = 100
)

// Candidate is a title/company/location triple parsed from visible text,
// before URL matching.
type Candidate struct {
	Title    string
	Company  string
	Location string
}

// RecordExtractor parses rendered visible text into job candidates using
// a keyword-window scan over lines. The keyword and skip lists are data,
// not code, so they can be tuned per target language and layout.
type RecordExtractor struct {
	keywords      []string
	skipPatterns  []string
	maxCandidates int
}

// NewRecordExtractor creates an extractor with the given lists. Nil lists
// fall back to the defaults; a zero cap falls back to 100.
func NewRecordExtractor(keywords, skipPatterns []string, maxCandidates int) *RecordExtractor {
	if keywords == nil {
		keywords = DefaultJobKeywords
	}
	if skipPatterns == nil {
		skipPatterns = DefaultSkipPatterns
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultCandidates
	}
	return &RecordExtractor{
		keywords:      keywords,
		skipPatterns:  skipPatterns,
		maxCandidates: maxCandidates,
	}
}

// Extract scans visible page text for title/company/location triples.
// A line is accepted as a title iff its length is between 10 and 150,
// it contains a job keyword, and it matches no skip pattern. On a title
// match the scan consumes three lines; otherwise it advances by one.
func (e *RecordExtractor) Extract(text, defaultLocation string) []Candidate {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	var candidates []Candidate
	i := 0
	for i < len(lines)-2 && len(candidates) < e.maxCandidates {
		line := lines[i]

		if !e.isTitle(line) {
			i++
			continue
		}

		company := "Unknown"
		if i+1 < len(lines) {
			company = lines[i+1]
		}
		location := defaultLocation
		if i+2 < len(lines) {
			location = lines[i+2]
		}

		if c, ok := cleanCompany(company); ok {
			candidates = append(candidates, Candidate{
				Title:    line,
				Company:  c,
				Location: strings.TrimSpace(strings.ReplaceAll(location, "•", "")),
			})
		}

		// The triple is consumed even when the company line is junk,
		// otherwise the company line gets re-scanned as a title.
		i += 3
	}

	return candidates
}

func (e *RecordExtractor) isTitle(line string) bool {
	if len(line) <= titleMinLen || len(line) >= titleMaxLen {
		return false
	}

	lowered := strings.ToLower(line)

	hasKeyword := false
	for _, kw := range e.keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}

	for _, p := range e.skipPatterns {
		if strings.Contains(lowered, strings.ToLower(p)) {
			return false
		}
	}

	return true
}

// cleanCompany validates and normalizes a company line. Bullet separators
// are stripped and a leading "via " aggregator prefix is removed.
func cleanCompany(company string) (string, bool) {
	for _, p := range companyRejects {
		if strings.Contains(company, p) {
			return "", false
		}
	}

	company = strings.TrimSpace(strings.ReplaceAll(company, "•", ""))
	company = strings.TrimPrefix(company, "via ")

	if len(company) <= companyMinLen || len(company) >= companyMaxLen {
		return "", false
	}

	return company, true
}
