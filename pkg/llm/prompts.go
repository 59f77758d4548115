package llm

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func lowerTemplate(template string) (lower string) {
	lower = cases.Lower(language.English).String(template)
	return lower
}

// BuildCoverLetterPrompt creates the cover letter prompt.
func BuildCoverLetterPrompt(jobTitle, jobDescription, resumeText, template string) (prompt string) {
	prompt = fmt.Sprintf(`
You are a professional career assistant. Generate a %s-style personalized cover letter tailored to the following job and resume details:

Job Title: %s
Job Description: %s

Resume:
%s

The cover letter should:
- Be professional and concise
- Highlight relevant skills from the resume
- Be addressed generically (no company name required)
- Be suitable for copy-pasting into a job portal
`, lowerTemplate(template), jobTitle, jobDescription, resumeText)

	return prompt
}

// BuildBulletsPrompt creates the resume bullet points prompt.
func BuildBulletsPrompt(jobTitle, jobDescription, resumeText, template string) (prompt string) {
	prompt = fmt.Sprintf(`
You are an expert resume editor. Based on the resume and the following job, suggest 5 %s-style bullet points to include in the resume that best match the role.

Job Title: %s
Job Description: %s

Resume:
%s

Return only 5 strong bullet points in plain text format.
`, lowerTemplate(template), jobTitle, jobDescription, resumeText)

	return prompt
}

// BuildFullResumePrompt creates the full resume prompt. Note the argument order puts
// the resume text first.
func BuildFullResumePrompt(resumeText, jobTitle, jobDescription, template string) (prompt string) {
	prompt = fmt.Sprintf(`
You're a professional resume creator. Generate a full resume in %s style using the following resume content and tailored to this job:

Job Title: %s
Job Description: %s

Resume Content:
%s

Ensure the format includes:
- A professional summary
- Skills
- Experience
- Education

Return as clean plain text.
`, lowerTemplate(template), jobTitle, jobDescription, resumeText)

	return prompt
}
