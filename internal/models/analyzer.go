package models

// AnalyzeRequest asks for a skill-gap analysis against a target role
type AnalyzeRequest struct {
	Role   string   `json:"role" binding:"required,max=100"`
	Skills []string `json:"skills" binding:"omitempty,max=50,dive,max=50"`
}

// SuggestedResource is a curated pointer for closing one skill gap
type SuggestedResource struct {
	Skill     string   `json:"skill"`
	Resources []string `json:"resources"`
}

// AnalysisResult is the outcome of a skill-gap analysis
type AnalysisResult struct {
	Role           string              `json:"role"`
	ProvidedSkills []string            `json:"providedSkills"`
	TargetSkills   []string            `json:"targetSkills"`
	MatchedSkills  []string            `json:"matchedSkills"`
	MissingSkills  []string            `json:"missingSkills"`
	MatchPercent   int                 `json:"matchPercent"`
	Recommended    []SuggestedResource `json:"recommendedResources"`
}

// RoadmapRequest asks for a learning roadmap over missing skills
type RoadmapRequest struct {
	Role          string   `json:"role" binding:"required,max=100"`
	MissingSkills []string `json:"missingSkills" binding:"required,min=1,max=50,dive,max=50"`
}

// RoadmapTask is one week of the generated learning plan
type RoadmapTask struct {
	Week           int    `json:"week"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Skill          string `json:"skill"`
	EstimatedHours int    `json:"estimatedHours"`
}

// Roadmap is a week-by-week learning plan toward a target role
type Roadmap struct {
	Role  string        `json:"role"`
	Tasks []RoadmapTask `json:"tasks"`
}
