package app_errors

import "errors"

var ErrUserExists = errors.New("user with this email already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("invalid credentials")
var ErrAccountDeactivated = errors.New("account deactivated")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")

var ErrCategoryNotFound = errors.New("category not found")
var ErrCategoryExists = errors.New("category already exists")
var ErrCategoryInUse = errors.New("cannot delete category in use by a course")

var ErrCourseNotFound = errors.New("course not found")
var ErrChapterNotFound = errors.New("chapter not found")
var ErrLessonNotFound = errors.New("lesson not found in course")

var ErrAlreadyEnrolled = errors.New("already enrolled")
var ErrNotEnrolled = errors.New("not enrolled for this course")

var ErrQuizNotFound = errors.New("quiz not found")
var ErrQuizInactive = errors.New("quiz already deactivated")
var ErrQuizNotReady = errors.New("complete lessons before taking the quiz")
var ErrQuizNoQuestions = errors.New("quiz must contain at least one question")
var ErrBadCorrectIndex = errors.New("correct index out of options range")
var ErrPassMarksExceedTotal = errors.New("pass marks exceed total marks")

var ErrCertificateNotFound = errors.New("certificate not found")
var ErrCertificateExists = errors.New("certificate already awarded")
var ErrCertificateIssue = errors.New("certificate issuance failed")

var ErrEmployeeDeactivated = errors.New("employee already deactivated")
var ErrNotEmployee = errors.New("user is not an employee")
