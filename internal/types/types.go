package types

// RequirementProfile is the structured result of analyzing one job description.
// It is produced deterministically from the input text and treated as immutable
// afterwards, so it can be cached and replayed verbatim for identical input.
type RequirementProfile struct {
	OriginalText string              `json:"originalText"`
	Skills       map[string][]string `json:"skills"`
	Experience   string              `json:"experience"`
	Education    string              `json:"education"`
	Sections     map[string]string   `json:"sections"`
	Keywords     []string            `json:"keywords"`
}

// PortfolioItem is a single candidate-owned repository eligible for
// relevance ranking. Fields may be empty; the ranker treats missing
// values as empty string or zero.
type PortfolioItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	URL         string   `json:"url"`
}

// RankedItem is a PortfolioItem annotated with its relevance score and
// 1-based rank position
type RankedItem struct {
	PortfolioItem
	RelevanceScore int `json:"relevanceScore"`
	Rank           int `json:"rank"`
}

// LanguageCount pairs a primary language with the number of repositories using it
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// DeveloperProfile holds the data fetched for a candidate from GitHub
type DeveloperProfile struct {
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	Bio          string          `json:"bio"`
	Location     string          `json:"location"`
	Email        string          `json:"email"`
	Blog         string          `json:"blog"`
	Company      string          `json:"company"`
	PublicRepos  int             `json:"publicRepos"`
	Followers    int             `json:"followers"`
	Repositories []PortfolioItem `json:"repositories"`
	Languages    []LanguageCount `json:"languages"`
	TopProjects  []PortfolioItem `json:"topProjects"`
}

// MatchOutput represents the result of matching a developer's repositories
// against a job's requirement profile
type MatchOutput struct {
	Username     string             `json:"username"`
	Requirements RequirementProfile `json:"requirements"`
	Items        []RankedItem       `json:"items"`
}

// GenerateResumeInput represents the input for generating tailored resume content
type GenerateResumeInput struct {
	Profile      DeveloperProfile   `json:"profile"`
	Requirements RequirementProfile `json:"requirements"`
}

// ResumeBasics holds the header section of generated resume content
type ResumeBasics struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// ResumeProject is a single highlighted project on the generated resume
type ResumeProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Keywords    []string `json:"keywords"`
	URL         string   `json:"url"`
}

// SkillGroup is a named group of skills on the generated resume
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// GenerateResumeOutput represents structured, tailored resume content
type GenerateResumeOutput struct {
	Basics   ResumeBasics    `json:"basics"`
	Summary  string          `json:"summary"`
	Skills   []SkillGroup    `json:"skills"`
	Projects []ResumeProject `json:"projects"`
}

// GenerateInterviewInput represents the input for interview preparation
type GenerateInterviewInput struct {
	Requirements RequirementProfile `json:"requirements"`
}

// InterviewQuestion is a single prepared question with guidance on what
// the interviewer is probing for
type InterviewQuestion struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// GenerateInterviewOutput represents structured interview preparation content
type GenerateInterviewOutput struct {
	Tips                 []string            `json:"tips"`
	TechnicalQuestions   []InterviewQuestion `json:"technicalQuestions"`
	BehavioralQuestions  []InterviewQuestion `json:"behavioralQuestions"`
	SituationalQuestions []InterviewQuestion `json:"situationalQuestions"`
	WinningStrategy      string              `json:"winningStrategy"`
}
