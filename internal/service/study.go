package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/repository"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionActive        = errors.New("a session is already active")
	ErrInvalidWordCount     = errors.New("invalid word count")
	ErrNoModes              = errors.New("no study modes selected")
)

// MaxWordCount caps the words of one session.
const MaxWordCount = 200

// StudyDefaults fill in a policy the user has not configured.
type StudyDefaults struct {
	WordCount      int
	Modes          []entities.Mode
	RandomizeModes bool
	RandomRelation bool
}

// StudyService runs study sessions for users: it loads their library,
// keeps the active session and persists statistics when a session ends.
// Session changes are serialized, so the sweeper can expire sessions while
// the bot is answering.
type StudyService struct {
	mu sync.Mutex

	library   LibraryRepository
	policies  PolicyRepository
	stats     StatisticsRepository
	sessions  SessionStorage
	generator *SessionGenerator
	defaults  StudyDefaults
	now       func() time.Time
	logger    *zap.Logger
}

// NewStudyService creates a new StudyService. A nil logger discards output.
func NewStudyService(
	library LibraryRepository,
	policies PolicyRepository,
	stats StatisticsRepository,
	sessions SessionStorage,
	generator *SessionGenerator,
	defaults StudyDefaults,
	logger *zap.Logger,
) *StudyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyService{
		library:   library,
		policies:  policies,
		stats:     stats,
		sessions:  sessions,
		generator: generator,
		defaults:  defaults,
		now:       time.Now,
		logger:    logger,
	}
}

// Policy returns the user's selection policy, falling back to the defaults.
// An empty table list means every table of the user.
func (s *StudyService) Policy(ctx context.Context, userID int64) (*entities.SelectionPolicy, error) {
	policy, err := s.policies.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrPolicyNotFound) {
		return nil, fmt.Errorf("get policy: %w", err)
	}

	if policy == nil {
		policy = entities.NewSelectionPolicy(nil, s.defaults.Modes, s.defaults.WordCount)
		policy.RandomRelation = s.defaults.RandomRelation
		policy.RandomizeModes = s.defaults.RandomizeModes
	}
	if len(policy.Modes) == 0 {
		policy.Modes = s.defaults.Modes
	}
	if policy.WordCount <= 0 {
		policy.WordCount = s.defaults.WordCount
	}

	return policy, nil
}

// Active returns the user's running session.
func (s *StudyService) Active(userID int64) (*Session, bool) {
	return s.sessions.Get(userID)
}

// Start generates a new session for the user.
func (s *StudyService) Start(ctx context.Context, userID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions.Get(userID); ok {
		return nil, ErrSessionActive
	}

	policy, err := s.Policy(ctx, userID)
	if err != nil {
		return nil, err
	}

	tables, err := s.library.GetTables(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}
	relations, err := s.library.GetRelations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get relations: %w", err)
	}

	if len(policy.TableIDs) == 0 {
		all := *policy
		all.TableIDs = make([]int64, 0, len(tables))
		for _, t := range tables {
			all.TableIDs = append(all.TableIDs, t.ID)
		}
		policy = &all
	}

	deck := s.generator.NewDeck(tables, relations, policy)
	questions := deck.Generate()
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	opts := SessionOptions{Now: s.now}
	if policy.Regenerates() {
		opts.Regenerator = deck
	}
	session := NewSession(questions, opts)
	s.sessions.Store(userID, session)

	s.logger.Info("session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID()),
		zap.Int("words", session.Total()),
	)

	return session, nil
}

// Answer submits an answer to the question at index of the user's session.
// When the answer completes the session, its result is persisted and returned.
func (s *StudyService) Answer(
	ctx context.Context,
	userID int64,
	index int,
	answer string,
) (AnswerOutcome, *entities.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(userID)
	if !ok {
		return AnswerOutcome{}, nil, ErrNoActiveSession
	}

	outcome, err := session.SubmitAnswer(index, answer)
	if err != nil {
		return AnswerOutcome{}, nil, err
	}
	if !outcome.Complete {
		return outcome, nil, nil
	}

	result, err := s.finish(ctx, userID, session)
	if err != nil {
		return outcome, nil, err
	}
	return outcome, &result, nil
}

// Quit abandons the user's session and persists what was practiced.
func (s *StudyService) Quit(ctx context.Context, userID int64) (entities.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.quit(ctx, userID)
}

func (s *StudyService) quit(ctx context.Context, userID int64) (entities.SessionResult, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return entities.SessionResult{}, ErrNoActiveSession
	}

	if _, err := session.Quit(); err != nil && !errors.Is(err, ErrSessionQuit) && !errors.Is(err, ErrSessionComplete) {
		return entities.SessionResult{}, err
	}

	return s.finish(ctx, userID, session)
}

func (s *StudyService) finish(ctx context.Context, userID int64, session *Session) (entities.SessionResult, error) {
	result, err := session.Finish()
	if err != nil {
		return entities.SessionResult{}, err
	}

	updates := StatisticsUpdates(session.Words(), result, s.now())
	if err := s.stats.SaveStatistics(ctx, updates); err != nil {
		return entities.SessionResult{}, fmt.Errorf("save statistics: %w", err)
	}
	s.sessions.Delete(userID)

	s.logger.Info("session finished",
		zap.Int64("user_id", userID),
		zap.String("session_id", result.SessionID),
		zap.Bool("quit", session.WasQuit()),
		zap.Int("xp", result.XP),
		zap.Int("elapsed_seconds", result.ElapsedSeconds),
	)

	return result, nil
}

// ExpireIdle quits every session without an answer for longer than maxIdle
// and returns their results by user ID. A session that fails to persist stays
// active and is retried on the next call.
func (s *StudyService) ExpireIdle(ctx context.Context, maxIdle time.Duration) (map[int64]entities.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-maxIdle)
	expired := make(map[int64]entities.SessionResult)
	var errs []error

	for _, userID := range s.sessions.UserIDs() {
		session, ok := s.sessions.Get(userID)
		if !ok || !session.LastActive().Before(deadline) {
			continue
		}

		result, err := s.quit(ctx, userID)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", userID, err))
			continue
		}
		expired[userID] = result
	}

	return expired, errors.Join(errs...)
}

// SetWordCount changes the number of words of future sessions.
func (s *StudyService) SetWordCount(ctx context.Context, userID int64, n int) error {
	if n < 1 || n > MaxWordCount {
		return fmt.Errorf("%d not in 1..%d: %w", n, MaxWordCount, ErrInvalidWordCount)
	}

	policy, err := s.Policy(ctx, userID)
	if err != nil {
		return err
	}
	policy.WordCount = n

	if err := s.policies.Upsert(ctx, userID, policy); err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}

// SetModes changes the study modes of future sessions.
func (s *StudyService) SetModes(ctx context.Context, userID int64, modes []entities.Mode, randomize bool) error {
	var valid []entities.Mode
	for _, m := range uniqueKeepOrder(modes) {
		if m.IsValid() {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return ErrNoModes
	}

	policy, err := s.Policy(ctx, userID)
	if err != nil {
		return err
	}
	policy.Modes = valid
	policy.RandomizeModes = randomize

	if err := s.policies.Upsert(ctx, userID, policy); err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}

// StatisticsUpdates folds a session result into the statistics of its words.
// Words neither answered nor abandoned are left out.
func StatisticsUpdates(words []*entities.Word, result entities.SessionResult, now time.Time) []entities.StatisticsUpdate {
	abandoned := make(map[int64]struct{}, len(result.Abandoned))
	for _, id := range result.Abandoned {
		abandoned[id] = struct{}{}
	}

	var out []entities.StatisticsUpdate
	for _, w := range words {
		tally, seen := result.Items[w.ID]
		_, quit := abandoned[w.ID]
		if !seen && !quit {
			continue
		}
		out = append(out, entities.StatisticsUpdate{
			WordID: w.ID,
			Stats:  w.Stats.Apply(tally, quit, now),
		})
	}
	return out
}
