package coaching

import (
	"regexp"
	"strings"
)

// Role is one work-history entry recognized in the raw resume text. Entries
// keep document order, which resumes list most-recent first.
type Role struct {
	Title   string
	Company string
	Start   string
	End     string
	Ongoing bool
}

func (r Role) Label() string {
	if r.Company == "" {
		return r.Title
	}
	return r.Title + " at " + r.Company
}

var (
	// "Barista at Cafe X" optionally followed by ", 2020-01 to present."
	titleAtRe = regexp.MustCompile(`(?i)^(.{1,80}?)\s+at\s+([^,]{1,80}?)(?:,\s*(.+))?$`)

	// "2020-01 to present", "Jan 2020 - Mar 2022", "2019 – current"
	dateRangeRe = regexp.MustCompile(`(?i)((?:[A-Za-z]{3,9}\s+)?\d{4}(?:[-/]\d{1,2})?)\s*(?:-|–|—|\bto\b)\s*(present|current|(?:[A-Za-z]{3,9}\s+)?\d{4}(?:[-/]\d{1,2})?)`)

	ongoingRe = regexp.MustCompile(`(?i)^(present|current)$`)

	sectionEndRe = regexp.MustCompile(`(?i)^(education|skills|projects|certifications|awards)\b`)
)

// ParseRoles extracts the ordered work history from raw resume text. It
// understands the builder template (title line, dates on the next line) as
// well as inline prose like "Barista at Cafe X, 2020-01 to present". An
// entry is only kept once a date range is seen for it, which keeps contact
// lines and prose containing "at" out of the list.
func ParseRoles(rawText string) []Role {
	var roles []Role
	var pending *Role

	commit := func(r Role, rest string) {
		if m := dateRangeRe.FindStringSubmatch(rest); m != nil {
			r.Start = strings.TrimSpace(m[1])
			r.End = strings.TrimRight(strings.TrimSpace(m[2]), ".")
			r.Ongoing = ongoingRe.MatchString(r.End)
			roles = append(roles, r)
		}
	}

	for _, line := range segments(rawText) {
		if sectionEndRe.MatchString(line) {
			pending = nil
			continue
		}

		if pending != nil {
			if dateRangeRe.MatchString(line) {
				commit(*pending, line)
				pending = nil
				continue
			}
			pending = nil
		}

		m := titleAtRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		r := Role{
			Title:   strings.TrimSpace(m[1]),
			Company: strings.TrimSpace(m[2]),
		}
		if rest := strings.TrimSpace(m[3]); rest != "" {
			commit(r, rest)
			continue
		}
		pending = &r
	}

	return roles
}

// segments splits resume text into candidate lines: one per physical line,
// with sentence splits applied so inline resumes written as prose still
// yield one segment per statement.
func segments(rawText string) []string {
	var out []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, seg := range strings.Split(line, ". ") {
			seg = strings.TrimSpace(seg)
			if seg != "" {
				out = append(out, seg)
			}
		}
	}
	return out
}
