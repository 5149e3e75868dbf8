package services

import (
	"strings"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

// roleSkills maps target roles to the skill sets expected for them
var roleSkills = map[string][]string{
	"Frontend Developer": {"javascript", "react", "css", "html", "testing", "typescript"},
	"Backend Developer":  {"node", "express", "mongodb", "sql", "api design", "testing"},
	"Data Scientist":     {"python", "statistics", "pandas", "numpy", "ml", "sql"},
}

// resourceLibrary maps individual skills to curated learning material
var resourceLibrary = map[string][]string{
	"javascript": {"Eloquent JavaScript", "You Don't Know JS"},
	"react":      {"React Docs", "Epic React Course"},
	"css":        {"CSS Tricks", "Tailwind Docs"},
	"html":       {"MDN HTML Guide"},
	"testing":    {"Testing Library Docs", "Jest Handbook"},
	"typescript": {"TypeScript Handbook"},
	"node":       {"Node.js Docs"},
	"express":    {"Express Guide"},
	"mongodb":    {"MongoDB University Course"},
	"sql":        {"SQLBolt"},
	"api design": {"RESTful API Design Guidelines"},
	"python":     {"Automate the Boring Stuff"},
	"statistics": {"Khan Academy Statistics"},
	"pandas":     {"Pandas Documentation"},
	"numpy":      {"NumPy Quickstart"},
	"ml":         {"Hands-On Machine Learning Book"},
}

// AnalyzerService computes skill gaps against static role requirements. It is
// a pure lookup with no storage behind it.
type AnalyzerService struct{}

func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{}
}

// Analyze compares the provided skills against the target role's skill set.
// Unknown roles yield an empty target set rather than an error.
func (s *AnalyzerService) Analyze(req *models.AnalyzeRequest) *models.AnalysisResult {
	target := roleSkills[req.Role]

	provided := normalizeSkills(req.Skills, 50)
	providedSet := make(map[string]struct{}, len(provided))
	for _, skill := range provided {
		providedSet[skill] = struct{}{}
	}

	matched := make([]string, 0, len(target))
	missing := make([]string, 0, len(target))
	for _, skill := range target {
		if _, ok := providedSet[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	recommended := make([]models.SuggestedResource, 0, len(missing))
	for _, skill := range missing {
		resources := resourceLibrary[skill]
		if resources == nil {
			resources = []string{}
		}
		recommended = append(recommended, models.SuggestedResource{
			Skill:     skill,
			Resources: resources,
		})
	}

	matchPercent := 100
	if len(target) > 0 {
		matchPercent = len(matched) * 100 / len(target)
	}

	metrics.SkillAnalyses.WithLabelValues(req.Role).Inc()

	return &models.AnalysisResult{
		Role:           req.Role,
		ProvidedSkills: provided,
		TargetSkills:   append([]string{}, target...),
		MatchedSkills:  matched,
		MissingSkills:  missing,
		MatchPercent:   matchPercent,
		Recommended:    recommended,
	}
}

// KnownRoles lists the roles the analyzer has skill data for
func (s *AnalyzerService) KnownRoles() []string {
	roles := make([]string, 0, len(roleSkills))
	for role := range roleSkills {
		roles = append(roles, role)
	}
	return roles
}

// ParseSkillsText splits free-form skill input on commas and newlines
func ParseSkillsText(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	return normalizeSkills(fields, 50)
}
