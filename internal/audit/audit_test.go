package audit_test

import (
	"context"
	"testing"

	"workorder/internal/audit"
	"workorder/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, entry *model.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockStore) Find(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func TestRecorder_Record(t *testing.T) {
	// Arrange
	store := new(mockStore)
	recorder := audit.NewRecorder(store)
	actor, task := uuid.New(), uuid.New()

	store.On("Create", mock.Anything, mock.MatchedBy(func(row *model.ActivityLog) bool {
		return row.ID != uuid.Nil &&
			*row.UserID == actor &&
			*row.TaskID == task &&
			row.Action == model.ActionTaskArchived &&
			!row.CreatedAt.IsZero()
	})).Return(nil)

	// Act
	err := recorder.Record(context.Background(), audit.Entry{
		ActorID: &actor, Action: model.ActionTaskArchived, TaskID: &task, Details: "archived",
	})

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRecorder_Record_SystemActor(t *testing.T) {
	store := new(mockStore)
	recorder := audit.NewRecorder(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(row *model.ActivityLog) bool {
		return row.UserID == nil
	})).Return(nil)

	assert.NoError(t, recorder.Record(context.Background(), audit.Entry{Action: model.ActionTaskCreated}))
	store.AssertExpectations(t)
}

func TestRecorder_Record_StoreError(t *testing.T) {
	store := new(mockStore)
	recorder := audit.NewRecorder(store)
	store.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	err := recorder.Record(context.Background(), audit.Entry{Action: model.ActionCommentAdded})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "COMMENT_ADDED")
}
