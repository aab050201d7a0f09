package session

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

type QuizSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
}

// QuestionView hides the correct answer until the quiz is submitted.
type QuestionView struct {
	ID            uint     `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"answer,omitempty"`
}

type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type TimerView struct {
	State     TimerState `json:"state"`
	Remaining *int       `json:"remaining,omitempty"`
	Display   string     `json:"display,omitempty"`
	Urgency   Urgency    `json:"urgency,omitempty"`
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	CourseID   string             `json:"course_id"`
	State      State              `json:"state"`
	Quizzes    []QuizSummary      `json:"quizzes"`
	ActiveQuiz *QuizSummary       `json:"active_quiz,omitempty"`
	Questions  []QuestionView     `json:"questions"`
	Answers    map[uint]string    `json:"answers"`
	Progress   Progress           `json:"progress"`
	Expired    bool               `json:"expired"`
	Timer      TimerView          `json:"timer"`
	Submission *models.Submission `json:"submission,omitempty"`
	Review     *Review            `json:"review,omitempty"`
	Notice     *Notice            `json:"notice,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		CourseID:  c.courseID,
		State:     c.state,
		Quizzes:   make([]QuizSummary, 0, len(c.quizzes)),
		Questions: make([]QuestionView, 0, len(c.questions)),
		Answers:   make(map[uint]string, len(c.answers)),
		Progress:  Progress{Answered: answeredCount(c.questions, c.answers), Total: len(c.questions)},
		Expired:   c.expired,
		Timer:     c.timerViewLocked(),
	}

	for _, q := range c.quizzes {
		snap.Quizzes = append(snap.Quizzes, summarize(q))
	}
	if c.active != nil {
		active := summarize(c.active)
		snap.ActiveQuiz = &active
	}

	revealed := c.state == StateSubmitted
	for _, q := range c.questions {
		view := QuestionView{
			ID:       q.ID,
			Question: q.Text,
			Options:  append([]string(nil), q.Options...),
		}
		if revealed {
			view.CorrectAnswer = q.CorrectAnswer
		}
		snap.Questions = append(snap.Questions, view)
	}
	for k, v := range c.answers {
		snap.Answers[k] = v
	}

	if c.submission != nil {
		sub := *c.submission
		snap.Submission = &sub
		snap.Progress.Answered = len(sub.Answers)
		snap.Review = BuildReview(c.questions, c.submission)
	}
	if c.notice != nil {
		notice := *c.notice
		snap.Notice = &notice
	}
	return snap
}

func (c *Controller) timerViewLocked() TimerView {
	view := TimerView{State: c.timer.State()}
	if remaining, ok := c.timer.Remaining(); ok {
		view.Remaining = &remaining
		view.Display = FormatClock(remaining)
		view.Urgency = UrgencyFor(remaining)
	}
	return view
}

func summarize(q *models.Quiz) QuizSummary {
	return QuizSummary{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Duration:    q.Duration,
	}
}
