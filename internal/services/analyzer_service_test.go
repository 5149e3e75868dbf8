package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
)

func TestAnalyzerService_Analyze(t *testing.T) {
	svc := services.NewAnalyzerService()

	result := svc.Analyze(&models.AnalyzeRequest{
		Role:   "Frontend Developer",
		Skills: []string{"JavaScript", " react ", "vim"},
	})

	assert.Equal(t, "Frontend Developer", result.Role)
	assert.Equal(t, []string{"javascript", "react", "vim"}, result.ProvidedSkills)
	assert.Equal(t, []string{"javascript", "react"}, result.MatchedSkills)
	assert.Equal(t, []string{"css", "html", "testing", "typescript"}, result.MissingSkills)
	// 2 of 6 target skills
	assert.Equal(t, 33, result.MatchPercent)

	require.Len(t, result.Recommended, 4)
	assert.Equal(t, "css", result.Recommended[0].Skill)
	assert.Contains(t, result.Recommended[0].Resources, "CSS Tricks")
}

func TestAnalyzerService_Analyze_FullMatch(t *testing.T) {
	svc := services.NewAnalyzerService()

	result := svc.Analyze(&models.AnalyzeRequest{
		Role:   "Data Scientist",
		Skills: []string{"python", "statistics", "pandas", "numpy", "ml", "sql"},
	})

	assert.Equal(t, 100, result.MatchPercent)
	assert.Empty(t, result.MissingSkills)
	assert.Empty(t, result.Recommended)
}

func TestAnalyzerService_Analyze_UnknownRole(t *testing.T) {
	svc := services.NewAnalyzerService()

	result := svc.Analyze(&models.AnalyzeRequest{
		Role:   "Space Pirate",
		Skills: []string{"navigation"},
	})

	// Unknown roles yield an empty target set, never an error
	assert.Empty(t, result.TargetSkills)
	assert.Empty(t, result.MissingSkills)
	assert.Equal(t, 100, result.MatchPercent)
}

func TestAnalyzerService_Analyze_DeduplicatesSkills(t *testing.T) {
	svc := services.NewAnalyzerService()

	result := svc.Analyze(&models.AnalyzeRequest{
		Role:   "Backend Developer",
		Skills: []string{"SQL", "sql", " Sql "},
	})

	assert.Equal(t, []string{"sql"}, result.ProvidedSkills)
	assert.Equal(t, []string{"sql"}, result.MatchedSkills)
}

func TestAnalyzerService_KnownRoles(t *testing.T) {
	roles := services.NewAnalyzerService().KnownRoles()

	assert.Len(t, roles, 3)
	assert.Contains(t, roles, "Frontend Developer")
	assert.Contains(t, roles, "Backend Developer")
	assert.Contains(t, roles, "Data Scientist")
}

func TestParseSkillsText(t *testing.T) {
	skills := services.ParseSkillsText("Go, SQL\n docker ,go,,\n")
	assert.Equal(t, []string{"go", "sql", "docker"}, skills)
}

func TestRoadmapService_Generate(t *testing.T) {
	svc := services.NewRoadmapService()

	roadmap := svc.Generate(&models.RoadmapRequest{
		Role:          "Frontend Developer",
		MissingSkills: []string{"css", "testing"},
	})

	assert.Equal(t, "Frontend Developer", roadmap.Role)
	require.Len(t, roadmap.Tasks, 2)

	first := roadmap.Tasks[0]
	assert.Equal(t, 1, first.Week)
	assert.Equal(t, "Learn css", first.Title)
	assert.Equal(t, "Complete tutorials and a mini project covering css.", first.Description)
	assert.Equal(t, "css", first.Skill)
	// 5 + len("css")%5
	assert.Equal(t, 8, first.EstimatedHours)

	second := roadmap.Tasks[1]
	assert.Equal(t, 2, second.Week)
	assert.Equal(t, 5+len("testing")%5, second.EstimatedHours)
}
