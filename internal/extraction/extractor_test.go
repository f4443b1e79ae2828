package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-coach/internal/domain/resume"
)

type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, _ string, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.reply, s.err
}

const coachedReply = `{
  "contact": {"fullName": "Jane Doe", "email": "jane@x.com", "phone": "555-1234"},
  "experience": [
    {
      "title": "Barista",
      "company": "Cafe X",
      "startDate": "2020-01",
      "endDate": "Present",
      "achievements": [
        "Served 50 customers per hour during peak times",
        "Increased repeat business by 10% through a loyalty program"
      ]
    }
  ],
  "education": [],
  "skills": ["Customer service", "Espresso"]
}`

func TestExtract_CoachedBaristaResume(t *testing.T) {
	gen := &stubGenerator{reply: coachedReply}
	x := NewExtractor(gen)

	raw := "Jane Doe, jane@x.com, 555-1234. Barista at Cafe X, 2020-01 to present."
	conv := []resume.Turn{
		{Role: resume.RoleUser, Content: "hi"},
		{Role: resume.RoleAssistant, Content: "How many customers did you serve?"},
		{Role: resume.RoleUser, Content: "About 50 an hour, and I grew repeat business 10%."},
	}

	doc, err := x.Extract(context.Background(), raw, conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Experience) != 1 {
		t.Fatalf("experience entries = %d, want 1", len(doc.Experience))
	}
	e := doc.Experience[0]
	if e.Company != "Cafe X" {
		t.Errorf("company = %q, want Cafe X", e.Company)
	}
	if e.EndDate != "Present" {
		t.Errorf("endDate = %q, want Present", e.EndDate)
	}
	joined := strings.Join(e.Achievements, " ")
	if !strings.Contains(joined, "50") || !strings.Contains(joined, "10%") {
		t.Errorf("achievements missing metrics: %v", e.Achievements)
	}

	if !strings.Contains(gen.lastPrompt, raw) {
		t.Error("prompt missing the original resume text")
	}
	if !strings.Contains(gen.lastPrompt, "user: About 50 an hour") {
		t.Error("prompt missing the role-prefixed transcript")
	}
}

func TestExtract_StripsMarkdownFences(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n" + coachedReply + "\n```"}
	x := NewExtractor(gen)

	doc, err := x.Extract(context.Background(), "resume", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Contact.FullName != "Jane Doe" {
		t.Errorf("fullName = %q", doc.Contact.FullName)
	}
}

func TestExtract_NormalizesLowercasePresent(t *testing.T) {
	reply := strings.Replace(coachedReply, `"Present"`, `"current"`, 1)
	x := NewExtractor(&stubGenerator{reply: reply})

	doc, err := x.Extract(context.Background(), "resume", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Experience[0].EndDate != "Present" {
		t.Errorf("endDate = %q, want Present", doc.Experience[0].EndDate)
	}
}

func TestExtract_DedupesSkills(t *testing.T) {
	reply := strings.Replace(coachedReply,
		`["Customer service", "Espresso"]`,
		`["Espresso", "Customer service", "Espresso"]`, 1)
	x := NewExtractor(&stubGenerator{reply: reply})

	doc, err := x.Extract(context.Background(), "resume", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Skills) != 2 {
		t.Errorf("skills = %v, want 2 unique entries", doc.Skills)
	}
}

func TestExtract_MalformedCases(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"not json", "Sure! Here is the resume you asked for."},
		{"trailing prose", coachedReply + "\n\nHope this helps! Let me know if you need anything else."},
		{"two documents", coachedReply + "\n" + coachedReply},
		{"unknown field", strings.Replace(coachedReply, `"contact"`, `"summary": "x", "contact"`, 1)},
		{"missing full name", strings.Replace(coachedReply, `"Jane Doe"`, `""`, 1)},
		{"missing email", strings.Replace(coachedReply, `"jane@x.com"`, `" "`, 1)},
		{"empty company", strings.Replace(coachedReply, `"Cafe X"`, `""`, 1)},
		{"bad start date", strings.Replace(coachedReply, `"2020-01"`, `"January 2020"`, 1)},
		{"bad end date", strings.Replace(coachedReply, `"Present"`, `"soon"`, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := NewExtractor(&stubGenerator{reply: tc.reply})
			_, err := x.Extract(context.Background(), "resume", nil)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestExtract_GeneratorFailureIsNotMalformed(t *testing.T) {
	x := NewExtractor(&stubGenerator{err: errors.New("timeout")})

	_, err := x.Extract(context.Background(), "resume", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformed) {
		t.Fatal("transport failure must not be reported as malformed data")
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := cleanJSON(tc.in); got != tc.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
