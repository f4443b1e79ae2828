package resume

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Turn is one message of the coaching dialogue. Content is stored verbatim,
// exactly as the human or the model produced it.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

func (t Turn) Valid() bool {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return false
	}
	return strings.TrimSpace(t.Content) != ""
}

type CreationMethod string

const (
	MethodUpload  CreationMethod = "upload"
	MethodBuilder CreationMethod = "builder"
)

type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Achievements []string `json:"achievements"`
}

// Ongoing reports whether the entry describes a role the person still holds.
func (e Experience) Ongoing() bool {
	end := strings.ToLower(strings.TrimSpace(e.EndDate))
	return end == "present" || end == "current"
}

type Education struct {
	Degree         string `json:"degree"`
	School         string `json:"school"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa,omitempty"`
	Activities     string `json:"activities,omitempty"`
	Honors         string `json:"honors,omitempty"`
}

// Document is the normalized resume representation produced either by the
// builder form or by achievement extraction.
type Document struct {
	Contact    Contact      `json:"contact"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

// AddSkill appends a skill unless an identical entry already exists.
// Comparison is by exact string match; insertion order is preserved.
func (d *Document) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range d.Skills {
		if s == skill {
			return false
		}
	}
	d.Skills = append(d.Skills, skill)
	return true
}

// DedupSkills collapses duplicate skill entries in place, keeping the first
// occurrence of each.
func (d *Document) DedupSkills() {
	seen := make(map[string]struct{}, len(d.Skills))
	out := d.Skills[:0]
	for _, s := range d.Skills {
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
	d.Skills = out
}

// Record is a user's resume state. Each user has at most one active record;
// re-creating a resume replaces the previous one.
type Record struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RawText          string
	Structured       *Document
	CreationMethod   CreationMethod
	Conversation     []Turn
	CoachingComplete bool
	CreatedAt        time.Time
}
