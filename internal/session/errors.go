package session

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCourseID   = errors.New("course id is required")
	ErrLoadFailure       = errors.New("failed to load quiz data")
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrUnauthenticated   = errors.New("user is not authenticated")
	ErrIncompleteAnswers = errors.New("not all questions are answered")
	ErrSubmitFailure     = errors.New("failed to submit quiz")

	ErrNotReady          = errors.New("no quiz is ready for answering")
	ErrUnknownQuiz       = errors.New("quiz is not part of the course catalog")
	ErrUnknownQuestion   = errors.New("question is not part of the active quiz")
	ErrInvalidOption     = errors.New("option is not one of the question's options")
	ErrAnswersLocked     = errors.New("answers can no longer be changed")
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrClosed            = errors.New("session is closed")

	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

// LoadError is a retrieval fault while loading the catalog or questions.
type LoadError struct {
	Op  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailure, e.Err}
}

// SubmitError is a persistence fault other than a duplicate submission.
type SubmitError struct {
	QuizID uint
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit quiz %d: %v", e.QuizID, e.Err)
}

func (e *SubmitError) Unwrap() []error {
	return []error{ErrSubmitFailure, e.Err}
}

func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrLoadFailure)
}

func IsSubmitFailure(err error) bool {
	return errors.Is(err, ErrSubmitFailure)
}

// IsUserError reports errors caused by the caller's input rather than a backend fault.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingCourseID) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrIncompleteAnswers) ||
		errors.Is(err, ErrUnknownQuiz) ||
		errors.Is(err, ErrUnknownQuestion) ||
		errors.Is(err, ErrInvalidOption)
}

// IsConflict reports operations rejected because of the current session state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotReady) ||
		errors.Is(err, ErrAnswersLocked) ||
		errors.Is(err, ErrClosed) ||
		errors.Is(err, ErrInvalidTransition)
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the last user-facing message produced by the controller.
type Notice struct {
	Kind    string      `json:"kind"`
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

const (
	NoticeNoQuizzes        = "no_quizzes"
	NoticeCatalogFailed    = "catalog_failed"
	NoticeQuestionsFailed  = "questions_failed"
	NoticeNoQuestions      = "no_questions"
	NoticeAlreadySubmitted = "already_submitted"
	NoticeUnauthenticated  = "unauthenticated"
	NoticeIncomplete       = "incomplete_answers"
	NoticeTimeUp           = "time_up"
	NoticeSubmitted        = "submitted"
	NoticeSubmitFailed     = "submit_failed"
)
