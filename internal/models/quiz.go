package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuizActive   = "active"
	QuizInactive = "inactive"
)

// Quiz with a nil CourseID is public: any authenticated user may attempt it
// and no enrollment gating applies.
type Quiz struct {
	ID              uuid.UUID  `json:"id"`
	CourseID        *uuid.UUID `json:"course_id,omitempty"`
	Title           string     `json:"title"`
	Questions       []Question `json:"questions"`
	PassMarks       int        `json:"pass_marks"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Question struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correct_index"`
	Marks        int       `json:"marks"`
	Position     int       `json:"position"`
}

// Weight is the question's mark value, defaulting to 1 when marks is unset
// or non-positive.
func (q *Question) Weight() int {
	if q.Marks <= 0 {
		return 1
	}
	return q.Marks
}

// TotalMarks is recomputed from the current question set rather than read
// from a stored denormalized field, so edits to questions stay consistent.
func (qz *Quiz) TotalMarks() int {
	total := 0
	for i := range qz.Questions {
		total += qz.Questions[i].Weight()
	}
	return total
}

func (qz *Quiz) IsActive() bool {
	return qz.Status == QuizActive
}

// Answer is one submitted entry of a quiz attempt.
type Answer struct {
	QuestionID  uuid.UUID `json:"question_id"`
	AnswerIndex int       `json:"answer_index"`
}

// AttemptResult is what a quiz attempt returns to the caller.
type AttemptResult struct {
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	Passed      bool         `json:"passed"`
	Certificate *Certificate `json:"certificate"`
}
