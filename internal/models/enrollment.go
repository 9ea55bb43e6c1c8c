package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is the record of one user's relationship to one course.
// The (user, course) pair is unique.
type Enrollment struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	CourseID         uuid.UUID   `json:"course_id"`
	CompletedLessons []LessonRef `json:"completed_lessons"`
	ReadyForQuiz     bool        `json:"ready_for_quiz"`
	IsCompleted      bool        `json:"is_completed"`
	EnrolledAt       time.Time   `json:"enrolled_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// CompletedSet builds a lookup over the completed lesson pairs. Duplicates
// collapse, matching the set semantics of lesson completion.
func (e *Enrollment) CompletedSet() map[LessonRef]bool {
	set := make(map[LessonRef]bool, len(e.CompletedLessons))
	for _, ref := range e.CompletedLessons {
		set[ref] = true
	}
	return set
}

func (e *Enrollment) HasCompleted(ref LessonRef) bool {
	for _, cl := range e.CompletedLessons {
		if cl == ref {
			return true
		}
	}
	return false
}
