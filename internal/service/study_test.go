package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/repository"
)

type fakeLibrary struct {
	tables    []*entities.Table
	relations []*entities.Relation
	err       error
}

func (f *fakeLibrary) GetTables(context.Context, int64) ([]*entities.Table, error) {
	return f.tables, f.err
}

func (f *fakeLibrary) GetRelations(context.Context, int64) ([]*entities.Relation, error) {
	return f.relations, f.err
}

type fakePolicies struct {
	stored map[int64]*entities.SelectionPolicy
}

func (f *fakePolicies) GetByUserID(_ context.Context, userID int64) (*entities.SelectionPolicy, error) {
	p, ok := f.stored[userID]
	if !ok {
		return nil, repository.ErrPolicyNotFound
	}
	return p, nil
}

func (f *fakePolicies) Upsert(_ context.Context, userID int64, p *entities.SelectionPolicy) error {
	if f.stored == nil {
		f.stored = make(map[int64]*entities.SelectionPolicy)
	}
	f.stored[userID] = p
	return nil
}

type fakeStats struct {
	saved [][]entities.StatisticsUpdate
	err   error
}

func (f *fakeStats) SaveStatistics(_ context.Context, updates []entities.StatisticsUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, updates)
	return nil
}

type mapSessions map[int64]*Session

func (m mapSessions) Store(userID int64, s *Session) { m[userID] = s }

func (m mapSessions) Get(userID int64) (*Session, bool) {
	s, ok := m[userID]
	return s, ok
}

func (m mapSessions) Delete(userID int64) { delete(m, userID) }

func (m mapSessions) UserIDs() []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

type studyFixture struct {
	svc      *StudyService
	library  *fakeLibrary
	policies *fakePolicies
	stats    *fakeStats
	sessions mapSessions
}

func newStudyFixture(words int) *studyFixture {
	f := &studyFixture{
		library: &fakeLibrary{
			tables:    []*entities.Table{vocabTable(1, words)},
			relations: []*entities.Relation{wordToMeaning(1, 1, entities.ModeTyping)},
		},
		policies: &fakePolicies{},
		stats:    &fakeStats{},
		sessions: mapSessions{},
	}
	f.svc = NewStudyService(
		f.library,
		f.policies,
		f.stats,
		f.sessions,
		newGenerator(&scriptedRand{}),
		StudyDefaults{WordCount: 10, Modes: []entities.Mode{entities.ModeTyping}, RandomRelation: true},
		nil,
	)
	f.svc.now = clockAt(fixedNow)
	return f
}

func TestStudyService_StartAndComplete(t *testing.T) {
	f := newStudyFixture(2)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Total())

	active, ok := f.svc.Active(42)
	require.True(t, ok)
	assert.Same(t, session, active)

	_, err = f.svc.Start(ctx, 42)
	assert.ErrorIs(t, err, ErrSessionActive)

	var result *entities.SessionResult
	for result == nil {
		q := session.Current()
		require.NotNil(t, q)
		_, result, err = f.svc.Answer(ctx, 42, 0, q.Answer)
		require.NoError(t, err)
	}

	assert.Equal(t, 8, result.XP)
	_, ok = f.svc.Active(42)
	assert.False(t, ok)

	require.Len(t, f.stats.saved, 1)
	updates := f.stats.saved[0]
	require.Len(t, updates, 2)
	for _, u := range updates {
		assert.Equal(t, 2, u.Stats.PassedOnce)
		assert.Equal(t, 1, u.Stats.PassedTwice)
		assert.Equal(t, 2, u.Stats.TotalAttempts)
		assert.Equal(t, 1, u.Stats.InQueueCount)
		assert.False(t, u.Stats.QuitQueue)
		require.NotNil(t, u.Stats.LastPracticedAt)
		assert.True(t, u.Stats.LastPracticedAt.Equal(fixedNow))
	}
}

func TestStudyService_Quit(t *testing.T) {
	f := newStudyFixture(3)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)

	first := session.Current()
	_, _, err = f.svc.Answer(ctx, 1, 0, "wrong")
	require.NoError(t, err)

	result, err := f.svc.Quit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, result.Abandoned, 3)
	assert.Equal(t, map[int64]entities.ItemTally{first.WordID(): {Failed: 1}}, result.Items)

	require.Len(t, f.stats.saved, 1)
	updates := f.stats.saved[0]
	require.Len(t, updates, 3)
	for _, u := range updates {
		assert.True(t, u.Stats.QuitQueue)
		if u.WordID == first.WordID() {
			assert.Equal(t, 1, u.Stats.Failed)
			assert.Equal(t, 1, u.Stats.InQueueCount)
		} else {
			assert.Zero(t, u.Stats.InQueueCount)
			assert.Nil(t, u.Stats.LastPracticedAt)
		}
	}

	_, err = f.svc.Quit(ctx, 1)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStudyService_SaveFailureKeepsSession(t *testing.T) {
	f := newStudyFixture(1)
	f.stats.err = errors.New("db down")
	ctx := context.Background()

	_, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.Quit(ctx, 1)
	require.Error(t, err)
	_, ok := f.svc.Active(1)
	assert.True(t, ok)

	f.stats.err = nil
	_, err = f.svc.Quit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, f.stats.saved, 1)
}

func TestStudyService_NoQuestions(t *testing.T) {
	f := newStudyFixture(0)

	_, err := f.svc.Start(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	_, ok := f.svc.Active(1)
	assert.False(t, ok)
}

func TestStudyService_LibraryError(t *testing.T) {
	f := newStudyFixture(3)
	f.library.err = errors.New("boom")

	_, err := f.svc.Start(context.Background(), 1)
	assert.Error(t, err)
}

func TestStudyService_AnswerWithoutSession(t *testing.T) {
	f := newStudyFixture(3)

	_, _, err := f.svc.Answer(context.Background(), 1, 0, "x")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStudyService_Policy(t *testing.T) {
	f := newStudyFixture(3)
	ctx := context.Background()

	p, err := f.svc.Policy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, p.WordCount)
	assert.Equal(t, []entities.Mode{entities.ModeTyping}, p.Modes)
	assert.True(t, p.RandomRelation)

	require.NoError(t, f.svc.SetWordCount(ctx, 1, 2))
	require.NoError(t, f.svc.SetModes(ctx, 1, []entities.Mode{entities.ModeTyping, entities.ModeTyping, 0}, true))

	stored := f.policies.stored[1]
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.WordCount)
	assert.Equal(t, []entities.Mode{entities.ModeTyping}, stored.Modes)
	assert.True(t, stored.RandomizeModes)

	session, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Total())
}

func TestStudyService_SetWordCountValidation(t *testing.T) {
	f := newStudyFixture(3)

	for _, n := range []int{0, -1, MaxWordCount + 1} {
		assert.ErrorIs(t, f.svc.SetWordCount(context.Background(), 1, n), ErrInvalidWordCount)
	}
	assert.ErrorIs(t, f.svc.SetModes(context.Background(), 1, nil, false), ErrNoModes)
}

func TestStatisticsUpdates(t *testing.T) {
	a, b, c := newWord(1, 1, "a", "a"), newWord(2, 1, "b", "b"), newWord(3, 1, "c", "c")
	a.Stats.QuitQueue = true
	earlier := fixedNow.Add(-48 * time.Hour)
	c.Stats.LastPracticedAt = &earlier

	result := entities.SessionResult{
		Items: map[int64]entities.ItemTally{
			1: {Passed1: 2, Passed2: 1},
			2: {Failed: 2, Passed1: 1},
		},
	}

	updates := StatisticsUpdates([]*entities.Word{a, b, c}, result, fixedNow)
	require.Len(t, updates, 2)

	assert.Equal(t, int64(1), updates[0].WordID)
	assert.False(t, updates[0].Stats.QuitQueue)
	assert.Equal(t, 2, updates[0].Stats.TotalAttempts)

	assert.Equal(t, int64(2), updates[1].WordID)
	assert.Equal(t, 3, updates[1].Stats.TotalAttempts)
	assert.Equal(t, 2, updates[1].Stats.Failed)

	// Source words are not modified.
	assert.True(t, a.Stats.QuitQueue)
	assert.Zero(t, b.Stats.TotalAttempts)
}

func TestStudyService_ExpireIdle(t *testing.T) {
	f := newStudyFixture(2)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)

	f.svc.now = clockAt(fixedNow.Add(2 * time.Hour))
	_, err = f.svc.Start(ctx, 2)
	require.NoError(t, err)

	expired, err := f.svc.ExpireIdle(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.ElementsMatch(t, []int64{101, 102}, expired[1].Abandoned)

	_, ok := f.svc.Active(1)
	assert.False(t, ok)
	_, ok = f.svc.Active(2)
	assert.True(t, ok)
	assert.Len(t, f.stats.saved, 1)
}

func TestStudyService_ExpireIdleKeepsUnsaved(t *testing.T) {
	f := newStudyFixture(1)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)

	f.stats.err = errors.New("db down")
	f.svc.now = clockAt(fixedNow.Add(48 * time.Hour))

	expired, err := f.svc.ExpireIdle(ctx, time.Hour)
	assert.Error(t, err)
	assert.Empty(t, expired)
	_, ok := f.svc.Active(1)
	assert.True(t, ok)

	f.stats.err = nil
	expired, err = f.svc.ExpireIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Len(t, expired, 1)
}
