package services

import (
	"fmt"

	"github.com/skillsync/skillsync-api/internal/models"
)

// RoadmapService turns a missing-skill list into a week-by-week learning plan
type RoadmapService struct{}

func NewRoadmapService() *RoadmapService {
	return &RoadmapService{}
}

// Generate assigns one skill per week with a fixed task template. The hour
// estimate is deterministic so regenerated plans stay stable.
func (s *RoadmapService) Generate(req *models.RoadmapRequest) *models.Roadmap {
	skills := normalizeSkills(req.MissingSkills, 50)

	tasks := make([]models.RoadmapTask, 0, len(skills))
	for i, skill := range skills {
		tasks = append(tasks, models.RoadmapTask{
			Week:           i + 1,
			Title:          fmt.Sprintf("Learn %s", skill),
			Description:    fmt.Sprintf("Complete tutorials and a mini project covering %s.", skill),
			Skill:          skill,
			EstimatedHours: 5 + len(skill)%5,
		})
	}

	return &models.Roadmap{
		Role:  req.Role,
		Tasks: tasks,
	}
}
