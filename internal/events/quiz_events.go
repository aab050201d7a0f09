package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of quiz events published by the service
type EventType string

const (
	EventQuizCreated     EventType = "quiz.created"
	EventQuizSubmitted   EventType = "quiz.submitted"
	EventQuizTimeExpired EventType = "quiz.time_expired"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// Event is the envelope for every quiz event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuizCreatedEvent struct {
	QuizID        uint   `json:"quiz_id"`
	CourseID      string `json:"course_id"`
	Title         string `json:"title"`
	Duration      *int   `json:"duration,omitempty"` // minutes
	QuestionCount int    `json:"question_count"`
	CreatedBy     string `json:"created_by"`
}

type QuizSubmittedEvent struct {
	SubmissionID  uint      `json:"submission_id"`
	QuizID        uint      `json:"quiz_id"`
	CourseID      string    `json:"course_id"`
	StudentID     string    `json:"student_id"`
	Score         int       `json:"score"`
	Total         int       `json:"total"`
	AutoSubmitted bool      `json:"auto_submitted"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type QuizTimeExpiredEvent struct {
	QuizID    uint      `json:"quiz_id"`
	CourseID  string    `json:"course_id"`
	StudentID string    `json:"student_id"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
	ExpiredAt time.Time `json:"expired_at"`
}

// Event factory functions

func NewQuizCreatedEvent(data QuizCreatedEvent) *Event {
	return newEvent(EventQuizCreated, data)
}

func NewQuizSubmittedEvent(data QuizSubmittedEvent) *Event {
	return newEvent(EventQuizSubmitted, data)
}

func NewQuizTimeExpiredEvent(data QuizTimeExpiredEvent) *Event {
	return newEvent(EventQuizTimeExpired, data)
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
