package service

import (
	"context"
	"testing"

	"boutique/internal/metrics"
	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newNotificationService(t *testing.T) (NotificationService, *MockNotificationRepository) {
	t.Helper()
	repo := new(MockNotificationRepository)
	return NewNotificationService(repo, metrics.New(), zerolog.Nop()), repo
}

func TestNotificationService_Notify_CreatesOnePerUser(t *testing.T) {
	ctx := context.Background()
	svc, repo := newNotificationService(t)

	userA := uuid.New()
	userB := uuid.New()

	repo.On("CreateBatch", ctx, mock.MatchedBy(func(ns []model.Notification) bool {
		return len(ns) == 2 && ns[0].UserID == userA && ns[1].UserID == userB &&
			ns[0].Title == "Order completed" && !ns[0].Read
	})).Return(nil)

	err := svc.Notify(ctx, []uuid.UUID{userA, userB}, "Order completed", "Your order is here", nil, model.NotificationSuccess)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_Notify_NoTargetsIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, repo := newNotificationService(t)

	require.NoError(t, svc.Notify(ctx, nil, "t", "m", nil, model.NotificationInfo))
	repo.AssertNotCalled(t, "CreateBatch")
}

func TestNotificationService_ListForUser(t *testing.T) {
	ctx := context.Background()
	svc, repo := newNotificationService(t)

	userID := uuid.New()
	items := []model.Notification{{ID: uuid.New(), UserID: userID, Title: "hello"}}
	repo.On("ListByUser", ctx, userID, 1, 20).Return(items, 1, nil)

	list, err := svc.ListForUser(ctx, userID, 0, 0) // defaults applied

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	svc, repo := newNotificationService(t)

	userID := uuid.New()
	id := uuid.New()
	repo.On("MarkRead", ctx, userID, id).Return(model.ErrNotificationNotFound)

	assert.ErrorIs(t, svc.MarkRead(ctx, userID, id), model.ErrNotificationNotFound)
}
