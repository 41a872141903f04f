package ai

import (
	"fmt"
	"strings"

	"llmployable/internal/types"
)

// maxBasicSkills caps the skill list on the deterministic resume
const maxBasicSkills = 15

// BasicGenerator produces resume and interview content without an AI
// provider. It is the degradation path when no provider is configured or
// the provider fails: output is deterministic and derived only from the
// profile and requirement data.
type BasicGenerator struct{}

// GenerateResume builds basic resume content from the fetched profile,
// putting skills that match the job requirements first
func (BasicGenerator) GenerateResume(input types.GenerateResumeInput) types.GenerateResumeOutput {
	profile := input.Profile

	jobSkills := make(map[string]bool)
	for _, skills := range input.Requirements.Skills {
		for _, skill := range skills {
			jobSkills[strings.ToLower(skill)] = true
		}
	}

	var matched, remaining []string
	for _, lang := range profile.Languages {
		if jobSkills[strings.ToLower(lang.Language)] {
			matched = append(matched, lang.Language)
		} else {
			remaining = append(remaining, lang.Language)
		}
	}
	finalSkills := append(matched, remaining...)
	if len(finalSkills) > maxBasicSkills {
		finalSkills = finalSkills[:maxBasicSkills]
	}

	output := types.GenerateResumeOutput{
		Basics: types.ResumeBasics{
			Name:     profile.Name,
			Label:    "Software Engineer",
			Email:    profile.Email,
			Location: profile.Location,
			Website:  profile.Blog,
		},
		Summary: basicSummary(profile, matched),
	}
	if output.Basics.Website == "" && profile.Username != "" {
		output.Basics.Website = "github.com/" + profile.Username
	}

	if len(finalSkills) > 0 {
		output.Skills = []types.SkillGroup{{Category: "Technical Skills", Items: finalSkills}}
	}

	for _, project := range profile.TopProjects {
		var keywords []string
		if project.Language != "" {
			keywords = append(keywords, project.Language)
		}
		keywords = append(keywords, project.Topics...)

		output.Projects = append(output.Projects, types.ResumeProject{
			Name:        project.Name,
			Description: project.Description,
			Keywords:    keywords,
			URL:         project.URL,
		})
	}

	return output
}

// basicSummary writes a short positioning summary from profile facts
func basicSummary(profile types.DeveloperProfile, matched []string) string {
	name := profile.Name
	if name == "" {
		name = profile.Username
	}

	summary := fmt.Sprintf("%s is a software developer with %d public repositories", name, profile.PublicRepos)
	if len(profile.Languages) > 0 {
		summary += fmt.Sprintf(", working primarily in %s", profile.Languages[0].Language)
	}
	if len(matched) > 0 {
		summary += fmt.Sprintf(". Demonstrated experience with %s required by this role", strings.Join(matched, ", "))
	}
	return summary + "."
}

// GenerateInterviewPrep builds generic but solid interview preparation
// content, mentioning the role's required skills where available
func (BasicGenerator) GenerateInterviewPrep(input types.GenerateInterviewInput) types.GenerateInterviewOutput {
	var allSkills []string
	for _, skills := range input.Requirements.Skills {
		allSkills = append(allSkills, skills...)
	}

	tips := []string{
		"Research the company's recent projects and values.",
		"Review the core technologies mentioned in the job description.",
		"Prepare examples using the STAR method (Situation, Task, Action, Result).",
		"Practice explaining your technical decisions and trade-offs.",
		"Have 2-3 thoughtful questions ready for the interviewer.",
	}
	if len(allSkills) > 0 {
		tips = append(tips, fmt.Sprintf("Be ready to discuss hands-on work with %s.", strings.Join(allSkills, ", ")))
	}

	return types.GenerateInterviewOutput{
		Tips: tips,
		TechnicalQuestions: []types.InterviewQuestion{
			{
				Question: "Can you walk us through a challenging technical problem you solved recently?",
				Context:  "Focus on your problem-solving process and final outcome.",
			},
			{
				Question: "What is your experience with the core tech stack mentioned in this role?",
				Context:  "Be specific about libraries and frameworks you've used.",
			},
		},
		BehavioralQuestions: []types.InterviewQuestion{
			{
				Question: "Tell me about a time you had a conflict with a teammate. How did you handle it?",
				Context:  "Focus on collaboration and professionalism.",
			},
			{
				Question: "Where do you see your technical skills evolving in the next 2 years?",
				Context:  "Show growth mindset and alignment with company goals.",
			},
		},
		SituationalQuestions: []types.InterviewQuestion{
			{
				Question: "If you are given a task with a tight deadline and unclear requirements, what would you do?",
				Context:  "Focus on communication and prioritization.",
			},
		},
		WinningStrategy: "Be authentic, demonstrate how your unique skills solve the company's specific problems, and show enthusiasm for the role.",
	}
}
