package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseDeleted   = "deleted"
)

const (
	LevelEasy         = "Easy"
	LevelIntermediate = "Intermediate"
	LevelHard         = "Hard"
)

type Course struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	CategoryID       uuid.UUID `json:"category_id"`
	Level            string    `json:"level"`
	Language         string    `json:"language"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	ImageObjectKey   string    `json:"-"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Chapters         []Chapter `json:"chapters"`
}

// CourseFilter narrows course listings. Zero values mean "no filter";
// deleted courses are hidden unless IncludeInactive is set.
type CourseFilter struct {
	Status          string
	CategoryID      *uuid.UUID
	Level           string
	Language        string
	IncludeInactive bool
	Limit           int
	Offset          int
}

type Chapter struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Lessons   []Lesson  `json:"lessons"`
	CreatedAt time.Time `json:"created_at"`
}

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	VideoObjectKey  string    `json:"-"`
	ThumbObjectKey  string    `json:"-"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
}

// LessonRef addresses a lesson within its chapter's scope.
type LessonRef struct {
	ChapterID uuid.UUID `json:"chapter_id"`
	LessonID  uuid.UUID `json:"lesson_id"`
}

func (c *Course) IsAvailable() bool {
	return c.Status == CoursePublished
}

// TotalLessons is always evaluated against the live tree, never cached
// on an enrollment.
func (c *Course) TotalLessons() int {
	total := 0
	for _, ch := range c.Chapters {
		total += len(ch.Lessons)
	}
	return total
}

// LessonRefs returns every lesson of the course in chapter-then-lesson
// document order.
func (c *Course) LessonRefs() []LessonRef {
	refs := make([]LessonRef, 0, c.TotalLessons())
	for _, ch := range c.Chapters {
		for _, ls := range ch.Lessons {
			refs = append(refs, LessonRef{ChapterID: ch.ID, LessonID: ls.ID})
		}
	}
	return refs
}

// HasLesson reports whether the (chapter, lesson) pair exists in the tree.
func (c *Course) HasLesson(ref LessonRef) bool {
	for _, ch := range c.Chapters {
		if ch.ID != ref.ChapterID {
			continue
		}
		for _, ls := range ch.Lessons {
			if ls.ID == ref.LessonID {
				return true
			}
		}
	}
	return false
}

// NextLesson returns the first lesson in document order that is not in the
// completed set, or nil when every lesson is done.
func (c *Course) NextLesson(completed map[LessonRef]bool) *Lesson {
	for _, ch := range c.Chapters {
		for i := range ch.Lessons {
			ref := LessonRef{ChapterID: ch.ID, LessonID: ch.Lessons[i].ID}
			if !completed[ref] {
				return &ch.Lessons[i]
			}
		}
	}
	return nil
}

// NextLessonRef is like NextLesson but returns the full reference.
func (c *Course) NextLessonRef(completed map[LessonRef]bool) *LessonRef {
	for _, ch := range c.Chapters {
		for _, ls := range ch.Lessons {
			ref := LessonRef{ChapterID: ch.ID, LessonID: ls.ID}
			if !completed[ref] {
				return &ref
			}
		}
	}
	return nil
}
