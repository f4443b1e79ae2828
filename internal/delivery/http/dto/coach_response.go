package dto

import "resume-coach/internal/domain/resume"

// CoachTurnResponse carries the new assistant turn's content.
type CoachTurnResponse struct {
	Response string `json:"response"`
}

// FinalizeResponse carries the extracted structured document.
type FinalizeResponse struct {
	Achievements resume.Document `json:"achievements"`
}
