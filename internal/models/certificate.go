package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate references a completed (user, course) pair. At most one is
// awarded per (user, course, quiz); re-passing returns the existing one.
type Certificate struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	Score     int       `json:"score"`
	OutOf     int       `json:"out_of"`
	ObjectKey string    `json:"-"`
	AwardedAt time.Time `json:"awarded_at"`
}
