package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return course, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[uuid.UUID]*models.Enrollment
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return nil, app_errors.ErrAlreadyEnrolled
		}
	}
	e := &models.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	f.enrollments[e.ID] = e
	return e, nil
}

func (f *fakeEnrollmentRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			cp.CompletedLessons = append([]models.LessonRef(nil), e.CompletedLessons...)
			return &cp, nil
		}
	}
	return nil, app_errors.ErrNotEnrolled
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID uuid.UUID, completed *bool) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.UserID != userID {
			continue
		}
		if completed != nil && e.IsCompleted != *completed {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) AddCompletedLesson(_ context.Context, enrollmentID uuid.UUID, ref models.LessonRef) error {
	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return app_errors.ErrNotEnrolled
	}
	if !e.HasCompleted(ref) {
		e.CompletedLessons = append(e.CompletedLessons, ref)
	}
	return nil
}

func (f *fakeEnrollmentRepo) SetReadyForQuiz(_ context.Context, enrollmentID uuid.UUID, ready bool) error {
	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return app_errors.ErrNotEnrolled
	}
	e.ReadyForQuiz = ready
	return nil
}

type fakeCertRepo struct {
	certs map[uuid.UUID]*models.Certificate
}

func (f *fakeCertRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	for _, c := range f.certs {
		if c.UserID == userID && c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, app_errors.ErrCertificateNotFound
}

type fixture struct {
	service     *EnrollmentService
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	certs       *fakeCertRepo
}

func newFixture() *fixture {
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{}}
	enrollments := &fakeEnrollmentRepo{enrollments: map[uuid.UUID]*models.Enrollment{}}
	certs := &fakeCertRepo{certs: map[uuid.UUID]*models.Certificate{}}
	return &fixture{
		service:     NewEnrollmentService(logger.New("local"), courses, enrollments, certs),
		courses:     courses,
		enrollments: enrollments,
		certs:       certs,
	}
}

// twoChapterCourse has three lessons total: two in the first chapter, one
// in the second.
func (f *fixture) twoChapterCourse() *models.Course {
	course := &models.Course{
		ID:     uuid.New(),
		Title:  "Intro to Go",
		Status: models.CoursePublished,
		Chapters: []models.Chapter{
			{
				ID:       uuid.New(),
				Position: 1,
				Lessons: []models.Lesson{
					{ID: uuid.New(), Name: "l1", Position: 1},
					{ID: uuid.New(), Name: "l2", Position: 2},
				},
			},
			{
				ID:       uuid.New(),
				Position: 2,
				Lessons: []models.Lesson{
					{ID: uuid.New(), Name: "l3", Position: 1},
				},
			},
		},
	}
	f.courses.courses[course.ID] = course
	return course
}

func lessonRef(course *models.Course, chapter, lesson int) (uuid.UUID, uuid.UUID) {
	return course.Chapters[chapter].ID, course.Chapters[chapter].Lessons[lesson].ID
}

func TestEnrollPublishedCourse(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()

	en, err := f.service.Enroll(context.Background(), userID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, en.CourseID)
	assert.False(t, en.ReadyForQuiz)
}

func TestEnrollDraftCourseHidden(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	course.Status = models.CourseDraft

	_, err := f.service.Enroll(context.Background(), uuid.New(), course.ID)
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)
	_, err = f.service.Enroll(ctx, userID, course.ID)
	assert.ErrorIs(t, err, app_errors.ErrAlreadyEnrolled)
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	chID, lsID := lessonRef(course, 0, 0)
	en, err := f.service.MarkLessonComplete(ctx, userID, course.ID, chID, lsID)
	require.NoError(t, err)
	assert.Len(t, en.CompletedLessons, 1)

	en, err = f.service.MarkLessonComplete(ctx, userID, course.ID, chID, lsID)
	require.NoError(t, err)
	assert.Len(t, en.CompletedLessons, 1, "repeat completion is a no-op")
}

func TestMarkLessonCompleteUnknownRefRejected(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	_, err = f.service.MarkLessonComplete(ctx, userID, course.ID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)

	// A real lesson under the wrong chapter is also rejected.
	_, realLesson := lessonRef(course, 0, 0)
	wrongChapter := course.Chapters[1].ID
	_, err = f.service.MarkLessonComplete(ctx, userID, course.ID, wrongChapter, realLesson)
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)
}

func TestMarkLessonCompleteRequiresEnrollment(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	chID, lsID := lessonRef(course, 0, 0)

	_, err := f.service.MarkLessonComplete(context.Background(), uuid.New(), course.ID, chID, lsID)
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}

func TestReadyForQuizAtFullCompletion(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	refs := course.LessonRefs()
	for i, ref := range refs {
		en, err := f.service.MarkLessonComplete(ctx, userID, course.ID, ref.ChapterID, ref.LessonID)
		require.NoError(t, err)
		if i < len(refs)-1 {
			assert.False(t, en.ReadyForQuiz, "not ready before the last lesson")
		} else {
			assert.True(t, en.ReadyForQuiz, "ready exactly at full completion")
		}
	}
}

func TestReadinessSurvivesContentGrowth(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	for _, ref := range course.LessonRefs() {
		_, err := f.service.MarkLessonComplete(ctx, userID, course.ID, ref.ChapterID, ref.LessonID)
		require.NoError(t, err)
	}

	// New content after readiness: the flag is never downgraded, and the
	// next completion event re-evaluates against the live total.
	newLesson := models.Lesson{ID: uuid.New(), Name: "l4", Position: 2}
	course.Chapters[1].Lessons = append(course.Chapters[1].Lessons, newLesson)

	en, err := f.service.Progress(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.True(t, en.ReadyForQuiz)

	en, err = f.service.MarkLessonComplete(ctx, userID, course.ID, course.Chapters[1].ID, newLesson.ID)
	require.NoError(t, err)
	assert.True(t, en.ReadyForQuiz)
	assert.Len(t, en.CompletedLessons, 4)
}

func TestNextLessonDocumentOrder(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	ref, lesson, err := f.service.NextLesson(ctx, userID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "l1", lesson.Name)

	// Completing out of order: next is still the first incomplete lesson.
	chID, lsID := lessonRef(course, 1, 0)
	_, err = f.service.MarkLessonComplete(ctx, userID, course.ID, chID, lsID)
	require.NoError(t, err)

	ref, lesson, err = f.service.NextLesson(ctx, userID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "l1", lesson.Name)

	for _, r := range course.LessonRefs() {
		_, err := f.service.MarkLessonComplete(ctx, userID, course.ID, r.ChapterID, r.LessonID)
		require.NoError(t, err)
	}
	ref, _, err = f.service.NextLesson(ctx, userID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, ref, "everything done")
}

func TestDashboardProgress(t *testing.T) {
	f := newFixture()
	course := f.twoChapterCourse()
	userID := uuid.New()
	ctx := context.Background()
	_, err := f.service.Enroll(ctx, userID, course.ID)
	require.NoError(t, err)

	chID, lsID := lessonRef(course, 0, 0)
	_, err = f.service.MarkLessonComplete(ctx, userID, course.ID, chID, lsID)
	require.NoError(t, err)

	items, err := f.service.Dashboard(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].TotalLessons)
	assert.Equal(t, 1, items[0].CompletedLessons)
	assert.Equal(t, 33, items[0].Progress)
	require.NotNil(t, items[0].NextLesson)
}
