package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSubmitTimeout = 30 * time.Second
	submitKey            = "submit"
	autoSubmitKey        = "auto-submit"
)

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithPublisher(publisher events.EventPublisher) Option {
	return func(c *Controller) { c.publisher = publisher }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithTimerOptions(opts ...TimerOption) Option {
	return func(c *Controller) { c.timerOpts = append(c.timerOpts, opts...) }
}

// WithSubmitTimeout bounds the auto-submit fired on expiry.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) { c.submitTimeout = d }
}

// SubmitResult is the outcome of a successful Submit. AlreadySubmitted is set when the
// stored record predates this call, either found by the pre-insert check or after the
// unique index rejected the insert.
type SubmitResult struct {
	Submission       *models.Submission `json:"submission"`
	Score            int                `json:"score"`
	Total            int                `json:"total"`
	AlreadySubmitted bool               `json:"already_submitted"`
}

// Controller runs one user's quiz-taking session for one course: catalog, active quiz,
// answer set, countdown and submission. All methods are safe for concurrent use.
type Controller struct {
	store     Store
	identity  Identity
	logger    *slog.Logger
	publisher events.EventPublisher
	now       func() time.Time

	timerOpts     []TimerOption
	submitTimeout time.Duration
	timer         *Timer
	submits       singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	courseID   string
	quizzes    []*models.Quiz
	active     *models.Quiz
	questions  []*models.Question
	answers    map[uint]string
	expired    bool
	submission *models.Submission
	notice     *Notice
	catalogSeq uint64
	loadSeq    uint64
	closed     bool
}

func NewController(store Store, identity Identity, opts ...Option) *Controller {
	c := &Controller{
		store:         store,
		identity:      identity,
		logger:        slog.Default(),
		now:           time.Now,
		submitTimeout: defaultSubmitTimeout,
		state:         StateNotStarted,
		answers:       make(map[uint]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("user_id", identity.UserID)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.timer = NewTimer(c.handleExpiry, c.timerOpts...)
	return c
}

func (c *Controller) Identity() Identity {
	return c.identity
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ===== CATALOG =====

// LoadCatalog replaces the catalog with the quizzes of courseID and clears any active
// quiz. A course with exactly one quiz selects it.
func (c *Controller) LoadCatalog(ctx context.Context, courseID string) error {
	courseID = strings.TrimSpace(courseID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.clearSelectionLocked()
	c.courseID = courseID
	c.quizzes = nil
	c.notice = nil
	c.catalogSeq++
	seq := c.catalogSeq
	c.mu.Unlock()

	if courseID == "" {
		return ErrMissingCourseID
	}

	quizzes, err := c.store.ListQuizzes(ctx, courseID)

	c.mu.Lock()
	if seq != c.catalogSeq || c.closed {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.setNoticeLocked(NoticeCatalogFailed, NoticeError, "Error loading quizzes: "+err.Error())
		c.mu.Unlock()
		c.logger.Error("Failed to load quizzes", "course_id", courseID, "error", err)
		return &LoadError{Op: "list quizzes", Err: err}
	}
	c.quizzes = quizzes
	if len(quizzes) == 0 {
		c.setNoticeLocked(NoticeNoQuizzes, NoticeInfo, "No quizzes available for this course yet.")
		c.mu.Unlock()
		return nil
	}
	var only uint
	if len(quizzes) == 1 {
		only = quizzes[0].ID
	}
	c.mu.Unlock()

	c.logger.Info("Loaded quiz catalog", "course_id", courseID, "count", len(quizzes))
	if only != 0 {
		return c.SelectQuiz(ctx, only)
	}
	return nil
}

// ===== QUESTION LOADING =====

// SelectQuiz makes quizID active and loads its questions together with the user's
// prior submission. A zero id is ignored.
func (c *Controller) SelectQuiz(ctx context.Context, quizID uint) error {
	if quizID == 0 {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	quiz := c.findQuizLocked(quizID)
	if quiz == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownQuiz, quizID)
	}
	c.clearSelectionLocked()
	c.notice = nil
	c.active = quiz
	_ = c.transitionLocked(StateLoading)
	seq := c.loadSeq
	c.mu.Unlock()

	var (
		questions []*models.Question
		prior     *models.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := c.store.ListQuestions(gctx, quizID)
		if err != nil {
			return err
		}
		questions = qs
		return nil
	})
	if c.identity.Authenticated() {
		g.Go(func() error {
			sub, err := c.store.FindSubmission(gctx, quizID, c.identity.UserID)
			if err != nil {
				// Submit re-checks before inserting.
				c.logger.Warn("Failed to check prior submission", "quiz_id", quizID, "error", err)
				return nil
			}
			prior = sub
			return nil
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq || c.closed {
		c.logger.Debug("Discarding stale question load", "quiz_id", quizID)
		return nil
	}

	if err != nil {
		_ = c.transitionLocked(StateUnavailable)
		c.setNoticeLocked(NoticeQuestionsFailed, NoticeError, "Error loading questions: "+err.Error())
		c.logger.Error("Failed to load questions", "quiz_id", quizID, "error", err)
		return &LoadError{Op: "list questions", Err: err}
	}
	if len(questions) == 0 {
		_ = c.transitionLocked(StateUnavailable)
		c.setNoticeLocked(NoticeNoQuestions, NoticeInfo, "No questions found for this quiz.")
		return ErrNoQuestions
	}

	for _, q := range questions {
		if !q.CorrectAnswerMatches() {
			c.logger.Warn("Correct answer does not match exactly one option",
				"quiz_id", quizID,
				"question_id", q.ID)
		}
	}
	c.questions = questions

	if prior != nil {
		c.submission = prior
		_ = c.transitionLocked(StateSubmitted)
		c.setNoticeLocked(NoticeAlreadySubmitted, NoticeInfo, "You have already submitted this quiz.")
		return nil
	}

	_ = c.transitionLocked(StateReady)
	if quiz.IsTimed() {
		c.timer.Start(quiz.TimeLimitSeconds())
	}
	c.logger.Info("Quiz ready",
		"quiz_id", quizID,
		"questions", len(questions),
		"time_limit_seconds", quiz.TimeLimitSeconds())
	return nil
}

// ClearSelection returns to the catalog, discarding the answer set and stopping the timer.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSelectionLocked()
	c.notice = nil
}

// ===== ANSWERS =====

func (c *Controller) SelectAnswer(questionID uint, option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.AcceptsAnswers() {
		switch c.state {
		case StateExpired, StateSubmitting, StateSubmitted:
			return ErrAnswersLocked
		default:
			return ErrNotReady
		}
	}

	question := c.findQuestionLocked(questionID)
	if question == nil {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if !question.HasOption(option) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}

	c.answers[questionID] = option
	return c.transitionLocked(StateAnswering)
}

// ===== SUBMISSION =====

// Submit scores and persists the answer set. Concurrent calls share one execution and
// a call after success reports the stored record with AlreadySubmitted set.
func (c *Controller) Submit(ctx context.Context) (*SubmitResult, error) {
	v, err, _ := c.submits.Do(submitKey, func() (interface{}, error) {
		return c.submit(ctx, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SubmitResult), nil
}

func (c *Controller) submit(ctx context.Context, auto bool) (*SubmitResult, error) {
	c.mu.Lock()
	if c.state == StateSubmitted && c.submission != nil {
		result := &SubmitResult{
			Submission:       c.submission,
			Score:            c.submission.Score,
			Total:            len(c.questions),
			AlreadySubmitted: true,
		}
		c.setNoticeLocked(NoticeAlreadySubmitted, NoticeInfo, "You have already submitted this quiz!")
		c.mu.Unlock()
		return result, nil
	}
	if !c.identity.Authenticated() {
		c.setNoticeLocked(NoticeUnauthenticated, NoticeError, "You must be logged in to submit the quiz!")
		c.mu.Unlock()
		return nil, ErrUnauthenticated
	}
	if !c.state.CanSubmit() {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if !c.expired && !AllAnswered(c.questions, c.answers) {
		c.setNoticeLocked(NoticeIncomplete, NoticeWarning, "Please answer all questions before submitting!")
		c.mu.Unlock()
		return nil, ErrIncompleteAnswers
	}

	prev := c.state
	if err := c.transitionLocked(StateSubmitting); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	seq := c.loadSeq
	quiz := c.active
	courseID := c.courseID
	questions := c.questions
	answers := make(map[uint]string, len(c.answers))
	for k, v := range c.answers {
		answers[k] = v
	}
	userID := c.identity.UserID
	c.mu.Unlock()

	existing, err := c.store.FindSubmission(ctx, quiz.ID, userID)
	if err != nil {
		c.logger.Warn("Pre-submit check failed, relying on unique constraint",
			"quiz_id", quiz.ID,
			"error", err)
		existing = nil
	}
	if existing != nil {
		c.logger.Info("Submission already exists", "quiz_id", quiz.ID, "submission_id", existing.ID)
		return c.finishSubmitted(seq, existing, len(questions), true), nil
	}

	submission := &models.Submission{
		QuizID:      quiz.ID,
		StudentID:   userID,
		Answers:     flattenAnswers(questions, answers),
		Score:       Score(questions, answers),
		SubmittedAt: c.now(),
	}

	if err := c.store.InsertSubmission(ctx, submission); err != nil {
		if repositories.IsUniqueViolation(err) {
			c.logger.Info("Lost submission race, loading stored record", "quiz_id", quiz.ID)
			stored, ferr := c.store.FindSubmission(ctx, quiz.ID, userID)
			if ferr == nil && stored != nil {
				return c.finishSubmitted(seq, stored, len(questions), true), nil
			}
			if ferr == nil {
				ferr = errors.New("stored submission not found after duplicate key")
			}
			err = fmt.Errorf("%w: %w", err, ferr)
		}
		c.failSubmit(seq, prev, err)
		c.logger.Error("Failed to submit quiz", "quiz_id", quiz.ID, "error", err)
		return nil, &SubmitError{QuizID: quiz.ID, Err: err}
	}

	result := c.finishSubmitted(seq, submission, len(questions), false)
	c.logger.Info("Quiz submitted",
		"quiz_id", quiz.ID,
		"submission_id", submission.ID,
		"score", submission.Score,
		"total", len(questions),
		"auto", auto)
	c.publish(ctx, events.NewQuizSubmittedEvent(events.QuizSubmittedEvent{
		SubmissionID:  submission.ID,
		QuizID:        quiz.ID,
		CourseID:      courseID,
		StudentID:     userID,
		Score:         submission.Score,
		Total:         len(questions),
		AutoSubmitted: auto,
		SubmittedAt:   submission.SubmittedAt,
	}))
	return result, nil
}

// finishSubmitted records the authoritative submission unless the user moved to
// another quiz while the insert was in flight.
func (c *Controller) finishSubmitted(seq uint64, submission *models.Submission, total int, already bool) *SubmitResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq == c.loadSeq && !c.closed {
		c.submission = submission
		// the stored record replaces the answer set
		c.answers = make(map[uint]string)
		_ = c.transitionLocked(StateSubmitted)
		c.timer.Stop()
		if already {
			c.setNoticeLocked(NoticeAlreadySubmitted, NoticeInfo, "You have already submitted this quiz!")
		} else {
			c.setNoticeLocked(NoticeSubmitted, NoticeSuccess,
				fmt.Sprintf("Quiz submitted! Score: %d/%d", submission.Score, total))
		}
	}

	return &SubmitResult{
		Submission:       submission,
		Score:            submission.Score,
		Total:            total,
		AlreadySubmitted: already,
	}
}

// failSubmit puts the session back where it was so the user can retry. Answers are kept.
func (c *Controller) failSubmit(seq uint64, prev State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.loadSeq || c.closed || c.state != StateSubmitting {
		return
	}
	restore := prev
	if c.expired {
		restore = StateExpired
	}
	_ = c.transitionLocked(restore)
	c.setNoticeLocked(NoticeSubmitFailed, NoticeError, "Failed to submit quiz: "+err.Error())
}

// ===== EXPIRY =====

// handleExpiry is the timer callback. The controller-level expired flag makes it a
// one-shot per selection even if a stale callback arrives after a reset.
func (c *Controller) handleExpiry() {
	c.mu.Lock()
	if c.closed || c.expired || c.timer.State() != TimerExpired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	if !c.state.AcceptsAnswers() {
		c.mu.Unlock()
		return
	}
	_ = c.transitionLocked(StateExpired)
	c.setNoticeLocked(NoticeTimeUp, NoticeWarning, "Time's up! Submitting your answers...")
	quiz := c.active
	expiredEvent := events.QuizTimeExpiredEvent{
		QuizID:    quiz.ID,
		CourseID:  c.courseID,
		StudentID: c.identity.UserID,
		Answered:  answeredCount(c.questions, c.answers),
		Total:     len(c.questions),
		ExpiredAt: c.now(),
	}
	ctx, cancel := context.WithTimeout(c.ctx, c.submitTimeout)
	c.mu.Unlock()
	defer cancel()

	c.logger.Info("Quiz time expired, auto-submitting", "quiz_id", quiz.ID)
	c.publish(ctx, events.NewQuizTimeExpiredEvent(expiredEvent))

	// a separate key so a manual call rejected before expiry is never joined
	if _, err, _ := c.submits.Do(autoSubmitKey, func() (interface{}, error) {
		return c.submit(ctx, true)
	}); err != nil {
		c.logger.Warn("Auto-submit failed", "quiz_id", quiz.ID, "error", err)
	}
}

// ===== LIFECYCLE =====

// Close releases the timer and cancels in-flight auto-submits. Safe to call twice.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.timer.Reset()
	c.cancel()
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// ===== HELPERS =====

func (c *Controller) clearSelectionLocked() {
	c.timer.Reset()
	c.active = nil
	c.questions = nil
	c.answers = make(map[uint]string)
	c.expired = false
	c.submission = nil
	c.loadSeq++
	_ = c.transitionLocked(StateNotStarted)
}

func (c *Controller) transitionLocked(next State) error {
	if !c.state.CanTransitionTo(next) {
		err := transitionError(c.state, next)
		c.logger.Error("Rejected session state change", "error", err)
		return err
	}
	if c.state != next {
		c.logger.Debug("Session state changed", "from", c.state, "to", next)
	}
	c.state = next
	return nil
}

func (c *Controller) setNoticeLocked(kind string, level NoticeLevel, message string) {
	c.notice = &Notice{Kind: kind, Level: level, Message: message}
}

func (c *Controller) findQuizLocked(id uint) *models.Quiz {
	for _, q := range c.quizzes {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (c *Controller) findQuestionLocked(id uint) *models.Question {
	for _, q := range c.questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (c *Controller) publish(ctx context.Context, event *events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish quiz event", "event_type", event.Type, "error", err)
	}
}
