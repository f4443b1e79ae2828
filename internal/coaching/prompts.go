package coaching

import (
	"fmt"
	"strings"
)

// updateCheckQuestions are the five fixed phase-1 questions, asked in this
// exact order, one per turn.
var updateCheckQuestions = []struct {
	Topic    string
	Question string
}{
	{
		Topic:    "contact info",
		Question: `"First, let me confirm your contact information is still current. Is [their email and phone from resume] the best way to reach you?"`,
	},
	{
		Topic:    "new experience",
		Question: `"Have you taken on any new jobs, internships, or significant roles that aren't on your resume yet?"`,
	},
	{
		Topic:    "new education",
		Question: `"Have you completed any new degrees, certifications, or courses since your resume was last updated?"`,
	},
	{
		Topic:    "new skills",
		Question: `"Have you learned any new skills, tools, or technologies recently that we should add?"`,
	},
	{
		Topic:    "new recognition",
		Question: `"Have you received any new awards, honors, or special recognition recently?" (Do NOT recap their existing awards - just ask about new ones)`,
	},
}

// closingQuestion is the exact phase-3 question. Its wording carries the
// completion phrase downstream consumers detect.
const closingQuestion = `"We've covered your experience, education, and skills with quantifiable achievements. Is there anything else you'd like to add, or are you ready to finalize your improved resume?"`

const groundRules = `You are a professional resume coach helping someone improve their resume.

CRITICAL RULE - ABSOLUTELY NO HALLUCINATIONS:
- You MUST ONLY reference information that is EXPLICITLY in the user's resume below
- NEVER invent company names, job titles, schools, dates, or any other details
- When mentioning their experience, copy EXACTLY what their resume says
- If you need to reference a job, copy the exact company name and title from their resume
- If you're unsure about something, ask them to clarify rather than guessing

Here is their current resume:

%s

`

const promptFooter = `
Be warm, friendly, and conversational throughout.

Remember: Only use information that is explicitly shown above. Do not make up or assume any details.`

// Instruction builds the system prompt for the resolved state. The model
// receives only the directive for the current phase; sequencing is not left
// to it.
func Instruction(rawText string, roles []Role, state State) string {
	var b strings.Builder
	fmt.Fprintf(&b, groundRules, strings.TrimSpace(rawText))

	switch state.Phase {
	case PhaseUpdateCheck:
		writeUpdateCheck(&b, state.Question)
	case PhaseAchievements:
		writeAchievements(&b, roles, state.Role)
	default:
		writeCompletion(&b)
	}

	b.WriteString(promptFooter)
	return b.String()
}

func writeUpdateCheck(b *strings.Builder, question int) {
	if question < 0 {
		question = 0
	}
	if question >= len(updateCheckQuestions) {
		question = len(updateCheckQuestions) - 1
	}
	q := updateCheckQuestions[question]

	fmt.Fprintf(b, "YOUR CURRENT TASK - UPDATE CHECK, QUESTION %d OF %d (%s):\n\n", question+1, len(updateCheckQuestions), q.Topic)
	fmt.Fprintf(b, "Ask exactly this question and nothing else:\n\n%s\n\n", q.Question)
	b.WriteString("Acknowledge their previous answer briefly first if there is one. Do NOT ask any other question, do NOT skip ahead, do NOT repeat a question already asked. Keep it simple and focused on what's NEW only.")
}

func writeAchievements(b *strings.Builder, roles []Role, idx int) {
	b.WriteString("YOUR CURRENT TASK - ACHIEVEMENT EXTRACTION:\n\n")
	b.WriteString("Help them extract quantifiable achievements from their experience. Focus on metrics, numbers, results, and impact. Work through roles ONE AT A TIME, most recent first. Do NOT jump between roles.\n\n")

	if idx < 0 || idx >= len(roles) {
		b.WriteString("Work through every role in their resume in order. When every role is completely covered, ask this EXACT final question:\n\n" + closingQuestion)
		return
	}

	cur := roles[idx]
	fmt.Fprintf(b, "The role currently under discussion is: %s", cur.Label())
	if cur.Ongoing {
		b.WriteString(" (they are STILL in this role - acknowledge it as current, not past)")
	}
	b.WriteString(".\n\nAsk all relevant follow-up questions about this role and extract ALL quantifiable achievements from it before anything else. Do not discuss any other role yet.\n\n")

	if idx+1 < len(roles) {
		fmt.Fprintf(b, "ONLY when this role is completely done, say \"Great! Now let's move on to %s\" and begin on that role.", roles[idx+1].Label())
	} else {
		b.WriteString("This is their last role. ONLY when it is completely done, ask this EXACT final question:\n\n" + closingQuestion)
	}
}

func writeCompletion(b *strings.Builder) {
	b.WriteString("YOUR CURRENT TASK - COMPLETION:\n\n")
	b.WriteString("All work experience has been covered. Ask this EXACT final question:\n\n" + closingQuestion + "\n\nIf they bring up something new, help them fold it in, then ask the final question again.")
}
