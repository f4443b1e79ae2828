// Package builder implements the manual resume path: a fixed four-step form
// whose values are rendered once into raw resume text and into the
// structured document, with no model involved.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"resume-coach/internal/domain/resume"
)

const (
	StepContact = iota + 1
	StepExperience
	StepEducation
	StepSkills
	stepCount = StepSkills
)

var (
	ErrStepIncomplete = errors.New("required fields for this step are missing")
	ErrInvalidEntry   = errors.New("entry is missing required fields")
	ErrDuplicateSkill = errors.New("skill already added")
)

type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	Degree         string `json:"degree"`
	School         string `json:"school"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa,omitempty"`
	Activities     string `json:"activities,omitempty"`
	Honors         string `json:"honors,omitempty"`
}

// Form holds the builder's collected state. The zero value is an empty form
// at step 1.
type Form struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`

	Experience []Job       `json:"experience"`
	Education  []Education `json:"education"`
	Skills     []string    `json:"skills"`
}

// AddExperience appends a job entry. Title, company, start date and
// description are required; end date is required unless the job is current.
func (f *Form) AddExperience(j Job) error {
	if anyEmpty(j.Title, j.Company, j.StartDate, j.Description) {
		return ErrInvalidEntry
	}
	if !j.Current && strings.TrimSpace(j.EndDate) == "" {
		return ErrInvalidEntry
	}
	f.Experience = append(f.Experience, j)
	return nil
}

func (f *Form) RemoveExperience(i int) {
	if i < 0 || i >= len(f.Experience) {
		return
	}
	f.Experience = append(f.Experience[:i], f.Experience[i+1:]...)
}

func (f *Form) AddEducation(e Education) error {
	if anyEmpty(e.Degree, e.School, e.GraduationDate) {
		return ErrInvalidEntry
	}
	f.Education = append(f.Education, e)
	return nil
}

func (f *Form) RemoveEducation(i int) {
	if i < 0 || i >= len(f.Education) {
		return
	}
	f.Education = append(f.Education[:i], f.Education[i+1:]...)
}

// AddSkill adds a skill with set semantics: duplicates by exact string match
// are rejected, insertion order is kept.
func (f *Form) AddSkill(skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return ErrInvalidEntry
	}
	for _, s := range f.Skills {
		if s == skill {
			return ErrDuplicateSkill
		}
	}
	f.Skills = append(f.Skills, skill)
	return nil
}

func (f *Form) RemoveSkill(skill string) {
	for i, s := range f.Skills {
		if s == skill {
			f.Skills = append(f.Skills[:i], f.Skills[i+1:]...)
			return
		}
	}
}

// StepComplete reports whether the given step's required fields are filled.
func (f *Form) StepComplete(step int) bool {
	switch step {
	case StepContact:
		return !anyEmpty(f.FullName, f.Email, f.Phone)
	case StepExperience:
		return len(f.Experience) > 0
	case StepEducation:
		return len(f.Education) > 0
	case StepSkills:
		return len(f.Skills) > 0
	}
	return false
}

// CanAdvance reports whether the step after the given one is reachable.
func (f *Form) CanAdvance(step int) bool {
	return step >= StepContact && step < stepCount && f.StepComplete(step)
}

// Complete validates every step in order and returns the step number that
// blocks completion, or 0 with no error when the form is finished. Skills
// are normalized first: payloads bound directly into the form bypass
// AddSkill, so duplicates are collapsed here before anything renders them.
func (f *Form) Complete() (int, error) {
	f.dedupeSkills()
	for step := StepContact; step <= stepCount; step++ {
		if !f.StepComplete(step) {
			return step, fmt.Errorf("step %d: %w", step, ErrStepIncomplete)
		}
	}
	return 0, nil
}

// Synthesize renders the one-time plain-text resume fed to coaching. The
// layout is fixed: header, work experience, education, skills. Every entered
// value appears verbatim.
func (f *Form) Synthesize() string {
	var b strings.Builder

	b.WriteString(f.FullName + "\n")
	b.WriteString(f.Email + " | " + f.Phone + "\n")
	if f.LinkedIn != "" {
		b.WriteString("LinkedIn: " + f.LinkedIn + "\n")
	}

	b.WriteString("\nWORK EXPERIENCE\n")
	for _, j := range f.Experience {
		end := j.EndDate
		if j.Current {
			end = "Present"
		}
		fmt.Fprintf(&b, "\n%s at %s\n%s - %s\n%s\n", j.Title, j.Company, j.StartDate, end, j.Description)
	}

	b.WriteString("\nEDUCATION\n")
	for _, e := range f.Education {
		fmt.Fprintf(&b, "\n%s\n%s, %s\n", e.Degree, e.School, e.GraduationDate)
		if e.GPA != "" {
			fmt.Fprintf(&b, "GPA: %s\n", e.GPA)
		}
		if e.Activities != "" {
			fmt.Fprintf(&b, "Activities: %s\n", e.Activities)
		}
		if e.Honors != "" {
			fmt.Fprintf(&b, "Honors: %s\n", e.Honors)
		}
	}

	b.WriteString("\nSKILLS\n")
	b.WriteString(strings.Join(f.Skills, ", ") + "\n")

	return strings.TrimSpace(b.String())
}

// Document builds the initial structured document from the same field
// values. Description lines become the entry's starting achievements.
func (f *Form) Document() resume.Document {
	doc := resume.Document{
		Contact: resume.Contact{
			FullName: f.FullName,
			Email:    f.Email,
			Phone:    f.Phone,
		},
	}

	for _, j := range f.Experience {
		end := j.EndDate
		if j.Current {
			end = "Present"
		}
		doc.Experience = append(doc.Experience, resume.Experience{
			Title:        j.Title,
			Company:      j.Company,
			StartDate:    j.StartDate,
			EndDate:      end,
			Achievements: splitLines(j.Description),
		})
	}

	for _, e := range f.Education {
		doc.Education = append(doc.Education, resume.Education{
			Degree:         e.Degree,
			School:         e.School,
			GraduationDate: e.GraduationDate,
			GPA:            e.GPA,
			Activities:     e.Activities,
			Honors:         e.Honors,
		})
	}

	for _, s := range f.Skills {
		doc.AddSkill(s)
	}

	return doc
}

// dedupeSkills collapses duplicate skill entries in place, keeping the
// first occurrence of each and dropping blanks.
func (f *Form) dedupeSkills() {
	seen := make(map[string]struct{}, len(f.Skills))
	out := f.Skills[:0]
	for _, s := range f.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	f.Skills = out
}

func anyEmpty(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
