package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAuthStore struct {
	byLibraryID map[string]*model.Student
	created     []*model.Student
	createErr   error
}

func (s *fakeAuthStore) FindByLibraryID(libraryID string) (*model.Student, error) {
	if student, ok := s.byLibraryID[libraryID]; ok {
		return student, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeAuthStore) Create(student *model.Student) error {
	if s.createErr != nil {
		return s.createErr
	}
	student.ID = uint(len(s.created) + 1)
	s.created = append(s.created, student)
	return nil
}

func newTestAuthService(store AuthStore, fetcher StatsFetcher) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(store, nil, fetcher, cfg)
}

func registerInput() RegisterInput {
	return RegisterInput{
		LibraryID:        "LIB-001",
		Password:         "secret123",
		Name:             "Alice",
		Section:          "A",
		Year:             2,
		LeetCodeUsername: "alice",
	}
}

func TestRegisterStudentRejectsUnverifiableUsername(t *testing.T) {
	fetcher := &fakeFetcher{bundles: map[string]FetchBundle{
		"alice": {Stats: StatsResult{Err: util.ErrLeetCodeUserNotFound}},
	}}
	store := &fakeAuthStore{}
	svc := newTestAuthService(store, fetcher)

	_, _, err := svc.RegisterStudent(context.Background(), registerInput())
	assert.ErrorIs(t, err, util.ErrInvalidLeetCodeUsername)
	assert.Empty(t, store.created)
}

func TestRegisterStudentRejectsMissingAggregateStats(t *testing.T) {
	// 子抓取没有报错但聚合统计为空，同样视为用户名不可验证
	fetcher := &fakeFetcher{bundles: map[string]FetchBundle{
		"alice": {Stats: StatsResult{}},
	}}
	store := &fakeAuthStore{}
	svc := newTestAuthService(store, fetcher)

	_, _, err := svc.RegisterStudent(context.Background(), registerInput())
	assert.ErrorIs(t, err, util.ErrInvalidLeetCodeUsername)
	assert.Empty(t, store.created)
}

func TestRegisterStudentRejectsDuplicateLibraryID(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &fakeAuthStore{byLibraryID: map[string]*model.Student{
		"LIB-001": {BaseModel: model.BaseModel{ID: 7}},
	}}
	svc := newTestAuthService(store, fetcher)

	_, _, err := svc.RegisterStudent(context.Background(), registerInput())
	assert.ErrorIs(t, err, util.ErrLibraryIDRegistered)
	assert.Empty(t, fetcher.calls)
	assert.Empty(t, store.created)
}

func TestRegisterStudentRejectsMissingUsername(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &fakeAuthStore{}
	svc := newTestAuthService(store, fetcher)

	input := registerInput()
	input.LeetCodeUsername = ""

	_, _, err := svc.RegisterStudent(context.Background(), input)
	assert.ErrorIs(t, err, util.ErrLeetCodeUsernameMissing)
	assert.Empty(t, fetcher.calls)
	assert.Empty(t, store.created)
}

func TestRegisterStudentCreatesWithInitialSnapshot(t *testing.T) {
	now := time.Now().UTC()
	fetcher := &fakeFetcher{bundles: map[string]FetchBundle{
		"alice": okBundle(420, now),
	}}
	store := &fakeAuthStore{}
	svc := newTestAuthService(store, fetcher)

	student, token, err := svc.RegisterStudent(context.Background(), registerInput())
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	assert.NotEmpty(t, token)
	assert.Equal(t, "LIB-001", student.LibraryID)
	assert.Equal(t, 420, student.Stats.TotalSolved)
	assert.Equal(t, 1, student.Streak.CurrentStreak)
	assert.Len(t, student.RecentSubmissions, 1)
	assert.False(t, student.LastUpdated.IsZero())
	assert.NotEqual(t, "secret123", student.PasswordHash)

	claims, err := util.ParseJWT(token, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.Equal(t, "LIB-001", claims.LibraryID)
}

func TestRegisterStudentSurfacesCreateFailure(t *testing.T) {
	fetcher := &fakeFetcher{bundles: map[string]FetchBundle{
		"alice": okBundle(100, time.Now().UTC()),
	}}
	store := &fakeAuthStore{createErr: errors.New("db down")}
	svc := newTestAuthService(store, fetcher)

	_, _, err := svc.RegisterStudent(context.Background(), registerInput())
	assert.Error(t, err)
	assert.Empty(t, store.created)
}

func TestLoginStudentChecksPassword(t *testing.T) {
	now := time.Now().UTC()
	fetcher := &fakeFetcher{bundles: map[string]FetchBundle{
		"alice": okBundle(100, now),
	}}
	store := &fakeAuthStore{byLibraryID: map[string]*model.Student{}}
	svc := newTestAuthService(store, fetcher)

	registered, _, err := svc.RegisterStudent(context.Background(), registerInput())
	require.NoError(t, err)
	store.byLibraryID["LIB-001"] = registered

	_, token, err := svc.LoginStudent("LIB-001", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginStudent("LIB-001", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = svc.LoginStudent("LIB-999", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
