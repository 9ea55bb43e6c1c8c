package course

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type courseRepo interface {
	Create(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateCourseImage(ctx context.Context, id uuid.UUID, objectKey string) error
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID, filter models.CourseFilter) ([]models.Course, error)
	Count(ctx context.Context, filter models.CourseFilter) (int, error)
	AddChapter(ctx context.Context, courseID uuid.UUID, title string) (*models.Chapter, error)
	AddLesson(ctx context.Context, chapterID uuid.UUID, lesson models.Lesson) (*models.Lesson, error)
}

type categoryRepo interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type enrollmentRepo interface {
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Count(ctx context.Context, query string) (int, error)
}

type mediaStorage interface {
	UploadVideo(ctx context.Context, courseID, lessonID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadThumbnail(ctx context.Context, courseID, lessonID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadCourseImage(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetMediaURL(ctx context.Context, objectKey string) (string, error)
}

type CourseService struct {
	log            logger.Log
	courseRepo     courseRepo
	categoryRepo   categoryRepo
	enrollmentRepo enrollmentRepo
	search         searchRepo
	media          mediaStorage
}

func NewCourseService(l logger.Log, c courseRepo, cat categoryRepo, e enrollmentRepo, s searchRepo, m mediaStorage) *CourseService {
	return &CourseService{
		log:            l,
		courseRepo:     c,
		categoryRepo:   cat,
		enrollmentRepo: e,
		search:         s,
		media:          m,
	}
}

// Create stores a new course in draft state. The category must exist.
func (s *CourseService) Create(ctx context.Context, course models.Course) (uuid.UUID, error) {
	if _, err := s.categoryRepo.ByID(ctx, course.CategoryID); err != nil {
		return uuid.Nil, err
	}
	course.Status = models.CourseDraft
	return s.courseRepo.Create(ctx, &course)
}

func (s *CourseService) Update(ctx context.Context, course models.Course) error {
	existing, err := s.courseRepo.CourseByID(ctx, course.ID)
	if err != nil {
		return err
	}
	if _, err := s.categoryRepo.ByID(ctx, course.CategoryID); err != nil {
		return err
	}
	course.Status = existing.Status
	if err := s.courseRepo.Update(ctx, &course); err != nil {
		return err
	}
	if existing.IsAvailable() {
		if err := s.search.Index(ctx, course); err != nil {
			s.log.ErrorErr("failed to reindex course", err, "course_id", course.ID)
		}
	}
	return nil
}

// Publish makes a draft visible to employees and pushes it into the search
// index. Publishing an already published course is a no-op.
func (s *CourseService) Publish(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return err
	}
	if course.Status == models.CourseDeleted {
		return app_errors.ErrCourseNotFound
	}
	if course.IsAvailable() {
		return nil
	}
	if err := s.courseRepo.ChangeStatus(ctx, id, models.CoursePublished); err != nil {
		return err
	}
	course.Status = models.CoursePublished
	if err := s.search.Index(ctx, *course); err != nil {
		s.log.ErrorErr("failed to index published course", err, "course_id", id)
	}
	return nil
}

// Delete soft-deletes the course and drops it from the search index.
// Enrollments and certificates that reference it are kept.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.courseRepo.ChangeStatus(ctx, id, models.CourseDeleted); err != nil {
		return err
	}
	if err := s.search.Delete(ctx, id); err != nil {
		s.log.ErrorErr("failed to remove course from index", err, "course_id", id)
	}
	return nil
}

// ListParams carries the catalogue query. Query is a free-text search over
// title and short description.
type ListParams struct {
	Query      string
	CategoryID *uuid.UUID
	Level      string
	Language   string
	Page       int
	Limit      int
}

// CourseItem is a catalogue row with its presigned image link.
type CourseItem struct {
	models.Course
	ImageURL string `json:"image_url,omitempty"`
}

// List returns the course catalogue page. Non-admin callers only see
// published courses; free-text queries go through the search index first
// and are hydrated from the primary store.
func (s *CourseService) List(ctx context.Context, params ListParams, isAdmin bool) ([]CourseItem, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}

	filter := models.CourseFilter{
		CategoryID:      params.CategoryID,
		Level:           params.Level,
		Language:        params.Language,
		IncludeInactive: isAdmin,
		Limit:           params.Limit,
		Offset:          (params.Page - 1) * params.Limit,
	}
	if !isAdmin {
		filter.Status = models.CoursePublished
	}

	var (
		courses []models.Course
		total   int
		err     error
	)
	if params.Query != "" {
		ids, serr := s.search.Search(ctx, params.Query, filter.Offset+filter.Limit)
		if serr != nil {
			return nil, 0, serr
		}
		hydrated, herr := s.courseRepo.ListByIDs(ctx, ids, models.CourseFilter{
			CategoryID:      filter.CategoryID,
			Level:           filter.Level,
			Language:        filter.Language,
			Status:          filter.Status,
			IncludeInactive: filter.IncludeInactive,
		})
		if herr != nil {
			return nil, 0, herr
		}
		// The index holds published courses only, so its match count is
		// the full total unless store-side filters narrow the hits; then
		// the hydrated length is the closest figure available.
		total = len(hydrated)
		if filter.CategoryID == nil && filter.Level == "" && filter.Language == "" {
			total, err = s.search.Count(ctx, params.Query)
			if err != nil {
				return nil, 0, err
			}
		}
		if filter.Offset < len(hydrated) {
			end := filter.Offset + filter.Limit
			if end > len(hydrated) {
				end = len(hydrated)
			}
			courses = hydrated[filter.Offset:end]
		}
	} else {
		courses, err = s.courseRepo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		total, err = s.courseRepo.Count(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
	}

	items := make([]CourseItem, 0, len(courses))
	for _, c := range courses {
		item := CourseItem{Course: c}
		if c.ImageObjectKey != "" {
			if url, uerr := s.media.GetMediaURL(ctx, c.ImageObjectKey); uerr == nil {
				item.ImageURL = url
			}
		}
		items = append(items, item)
	}
	return items, total, nil
}

// LessonView is a lesson enriched with media links and, when the caller is
// enrolled, its completion flag.
type LessonView struct {
	models.Lesson
	VideoURL  string `json:"video_url,omitempty"`
	ThumbURL  string `json:"thumb_url,omitempty"`
	Completed bool   `json:"completed"`
}

type ChapterView struct {
	models.Chapter
	Lessons []LessonView `json:"lessons"`
}

type CourseDetail struct {
	models.Course
	ImageURL     string        `json:"image_url,omitempty"`
	Chapters     []ChapterView `json:"chapters"`
	Enrolled     bool          `json:"enrolled"`
	ReadyForQuiz bool          `json:"ready_for_quiz"`
}

// Detail returns the full course tree. Draft and deleted courses read as
// absent unless the caller is an admin. When userID names an enrolled
// employee, each lesson carries its completion flag.
func (s *CourseService) Detail(ctx context.Context, id uuid.UUID, userID *uuid.UUID, isAdmin bool) (*CourseDetail, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsAvailable() && !isAdmin {
		return nil, app_errors.ErrCourseNotFound
	}

	detail := &CourseDetail{Course: *course}
	if course.ImageObjectKey != "" {
		if url, uerr := s.media.GetMediaURL(ctx, course.ImageObjectKey); uerr == nil {
			detail.ImageURL = url
		}
	}

	completed := map[models.LessonRef]bool{}
	if userID != nil {
		enrollment, eerr := s.enrollmentRepo.ByUserAndCourse(ctx, *userID, id)
		switch {
		case eerr == nil:
			detail.Enrolled = true
			detail.ReadyForQuiz = enrollment.ReadyForQuiz
			completed = enrollment.CompletedSet()
		case !errors.Is(eerr, app_errors.ErrNotEnrolled):
			return nil, eerr
		}
	}

	detail.Chapters = make([]ChapterView, 0, len(course.Chapters))
	for _, ch := range course.Chapters {
		cv := ChapterView{Chapter: ch, Lessons: make([]LessonView, 0, len(ch.Lessons))}
		cv.Chapter.Lessons = nil
		for _, ls := range ch.Lessons {
			lv := LessonView{
				Lesson:    ls,
				Completed: completed[models.LessonRef{ChapterID: ch.ID, LessonID: ls.ID}],
			}
			if detail.Enrolled || isAdmin {
				if ls.VideoObjectKey != "" {
					if url, uerr := s.media.GetMediaURL(ctx, ls.VideoObjectKey); uerr == nil {
						lv.VideoURL = url
					}
				}
				if ls.ThumbObjectKey != "" {
					if url, uerr := s.media.GetMediaURL(ctx, ls.ThumbObjectKey); uerr == nil {
						lv.ThumbURL = url
					}
				}
			}
			cv.Lessons = append(cv.Lessons, lv)
		}
		detail.Chapters = append(detail.Chapters, cv)
	}
	return detail, nil
}

func (s *CourseService) AddChapter(ctx context.Context, courseID uuid.UUID, title string) (*models.Chapter, error) {
	return s.courseRepo.AddChapter(ctx, courseID, title)
}

// MediaUpload describes one file arriving with a lesson or course image.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AddLesson appends a lesson to a chapter, uploading the video and optional
// thumbnail first so the stored row always points at existing objects.
func (s *CourseService) AddLesson(ctx context.Context, courseID, chapterID uuid.UUID, lesson models.Lesson, video, thumb *MediaUpload) (*models.Lesson, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, ch := range course.Chapters {
		if ch.ID == chapterID {
			found = true
			break
		}
	}
	if !found {
		return nil, app_errors.ErrChapterNotFound
	}

	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	if video != nil {
		key, uerr := s.media.UploadVideo(ctx, courseID, lesson.ID, video.Filename, video.Reader, video.Size, video.ContentType)
		if uerr != nil {
			return nil, uerr
		}
		lesson.VideoObjectKey = key
	}
	if thumb != nil {
		key, uerr := s.media.UploadThumbnail(ctx, courseID, lesson.ID, thumb.Filename, thumb.Reader, thumb.Size, thumb.ContentType)
		if uerr != nil {
			return nil, uerr
		}
		lesson.ThumbObjectKey = key
	}
	return s.courseRepo.AddLesson(ctx, chapterID, lesson)
}

func (s *CourseService) UploadImage(ctx context.Context, courseID uuid.UUID, upload MediaUpload) error {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return err
	}
	key, err := s.media.UploadCourseImage(ctx, courseID, upload.Filename, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return err
	}
	return s.courseRepo.UpdateCourseImage(ctx, courseID, key)
}
