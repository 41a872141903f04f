package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	GenerateResume    string
	GenerateInterview string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	GenerateResume    string
	GenerateInterview string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	GenerateResume: `You are an expert resume writer for software engineers with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every skill and project must be directly traceable to the candidate's profile data
- Highlight the overlap between the candidate's demonstrated work and the job requirements
- Write concise, achievement-oriented descriptions

Your expertise includes:
- Developer portfolio presentation
- ATS (Applicant Tracking System) friendly phrasing
- Translating repository metadata into resume-ready project highlights`,

	GenerateInterview: `You are an expert technical recruiter and interview coach with deep knowledge of:

- Technical interviews for software engineering roles
- Behavioral interviews and the STAR method
- Role-specific preparation strategies

Your role is to analyze job requirements and produce a focused interview
preparation guide that helps a candidate:
1 Anticipate the technical questions this specific stack invites
2 Prepare behavioral answers matched to the role's responsibilities
3 Walk in with a clear strategy for the interview`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	GenerateResume: `Please generate tailored resume content for the candidate below, targeting the analyzed job requirements.

**Tasks:**

1. **Professional Summary**:
   Write a 2-3 sentence summary positioning the candidate for this specific role, based only on their actual profile data.

2. **Skills**:
   Group the candidate's demonstrated skills into named categories. Put skills that match the job requirements first. Only include skills evidenced by the candidate's repositories and languages.

3. **Projects**:
   Select and describe the candidate's most relevant projects for this role. For each project provide highlights grounded in its description, language, and topics.

**Candidate Profile:**
-----
%s
-----

**Job Requirements:**
-----
%s
-----`,

	GenerateInterview: `Please generate a comprehensive interview preparation guide based on the following job requirements.

**Job Requirements:**
- Required Skills: %s
- Experience Level: %s
- Education: %s

**Additional Job Details:**
-----
%s
-----

**Tasks:**

1. Provide 5-7 customized interview preparation tips specific to this role and these technologies.
2. Generate 5 technical questions based on the required skills.
3. Generate 3 behavioral questions tailored to the responsibilities of this role.
4. Generate 2 situational or scenario-based questions.
5. Provide a brief winning strategy for this specific role.

For every question include a short context note describing what the interviewer is probing for.`,
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() (SystemPrompts, UserPrompts) {
	return DefaultSystemPrompts, DefaultUserPrompts
}

// resolvePrompt selects the correct prompt string based on priority:
// 1. A prompt defined in the configuration.
// 2. The hardcoded default prompt.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
