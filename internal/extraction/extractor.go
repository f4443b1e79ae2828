package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"resume-coach/internal/domain/resume"
)

// ErrMalformed means the model's reply could not be parsed into a valid
// structured document. Finalization must not proceed when it is returned.
var ErrMalformed = errors.New("malformed extraction response")

// Generator issues a single system+prompt completion.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Extractor turns a finished coaching conversation plus the original resume
// text into one structured document. One model call per invocation; no
// partial result is ever returned.
type Extractor struct {
	model Generator
}

func NewExtractor(model Generator) *Extractor {
	return &Extractor{model: model}
}

const extractionSystem = "You are a precise resume data extraction assistant. Extract only information explicitly discussed in the resume and conversation."

const extractionPromptTemplate = `Based on this resume coaching conversation, extract all the achievements and improvements discussed.

Original Resume:
%s

Coaching Conversation:
%s

Extract and structure the following in JSON format:
{
  "contact": {
    "fullName": "Name",
    "email": "email",
    "phone": "phone"
  },
  "experience": [
    {
      "title": "Job Title",
      "company": "Company Name",
      "startDate": "YYYY-MM",
      "endDate": "YYYY-MM or Present",
      "achievements": [
        "Quantifiable achievement with metrics",
        "Another achievement with numbers"
      ]
    }
  ],
  "education": [
    {
      "degree": "Degree Name",
      "school": "School Name",
      "graduationDate": "YYYY-MM",
      "gpa": "3.94",
      "activities": "Activities text",
      "honors": "Honors text"
    }
  ],
  "skills": ["skill1", "skill2"]
}

CRITICAL: Return ONLY the JSON object, no markdown, no explanation, no backticks. Just valid JSON.`

// Extract performs the at-most-once extraction call for a finalization
// attempt. The conversation is rendered as role-prefixed lines, exactly as
// stored.
func (x *Extractor) Extract(ctx context.Context, rawText string, conversation []resume.Turn) (resume.Document, error) {
	logger := slog.With("component", "extraction")
	logger.Info("starting achievement extraction",
		"resume_length", len(rawText),
		"turns", len(conversation))

	prompt := fmt.Sprintf(extractionPromptTemplate, strings.TrimSpace(rawText), renderTranscript(conversation))

	start := time.Now()
	content, err := x.model.Generate(ctx, extractionSystem, prompt)
	if err != nil {
		logger.Error("extraction call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return resume.Document{}, fmt.Errorf("achievement extraction failed: %w", err)
	}
	logger.Info("received extraction response",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(content))

	doc, err := parseDocument(content)
	if err != nil {
		logger.Error("extraction response rejected", "error", err)
		return resume.Document{}, err
	}

	logger.Info("achievement extraction completed",
		"experience", len(doc.Experience),
		"education", len(doc.Education),
		"skills", len(doc.Skills))
	return doc, nil
}

func renderTranscript(conversation []resume.Turn) string {
	lines := make([]string, 0, len(conversation))
	for _, t := range conversation {
		if !t.Valid() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Content))
	}
	return strings.Join(lines, "\n\n")
}

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// parseDocument decodes the model reply strictly: unknown fields and shape
// violations are rejected outright rather than coerced.
func parseDocument(raw string) (resume.Document, error) {
	var doc resume.Document

	dec := json.NewDecoder(strings.NewReader(cleanJSON(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return resume.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// One JSON value and nothing else; trailing prose after the document is
	// rejected, not ignored.
	if _, err := dec.Token(); err != io.EOF {
		return resume.Document{}, fmt.Errorf("%w: trailing content after document", ErrMalformed)
	}

	if err := validateDocument(&doc); err != nil {
		return resume.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

func validateDocument(doc *resume.Document) error {
	if strings.TrimSpace(doc.Contact.FullName) == "" {
		return errors.New("contact.fullName is empty")
	}
	if strings.TrimSpace(doc.Contact.Email) == "" {
		return errors.New("contact.email is empty")
	}

	for i := range doc.Experience {
		e := &doc.Experience[i]
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("experience[%d].title is empty", i)
		}
		if strings.TrimSpace(e.Company) == "" {
			return fmt.Errorf("experience[%d].company is empty", i)
		}
		if e.StartDate != "" && !monthRe.MatchString(e.StartDate) {
			return fmt.Errorf("experience[%d].startDate %q is not YYYY-MM", i, e.StartDate)
		}
		if err := normalizeEndDate(e); err != nil {
			return fmt.Errorf("experience[%d]: %v", i, err)
		}
	}

	for i, ed := range doc.Education {
		if strings.TrimSpace(ed.Degree) == "" {
			return fmt.Errorf("education[%d].degree is empty", i)
		}
		if strings.TrimSpace(ed.School) == "" {
			return fmt.Errorf("education[%d].school is empty", i)
		}
	}

	doc.DedupSkills()
	return nil
}

func normalizeEndDate(e *resume.Experience) error {
	end := strings.TrimSpace(e.EndDate)
	switch {
	case end == "":
		return nil
	case monthRe.MatchString(end):
		e.EndDate = end
		return nil
	case strings.EqualFold(end, "present"), strings.EqualFold(end, "current"):
		e.EndDate = "Present"
		return nil
	}
	return fmt.Errorf("endDate %q is not YYYY-MM or Present", e.EndDate)
}
