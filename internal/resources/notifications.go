package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

// Ensure implementation satisfies the interface
var _ NotificationsService = (*NotificationsServiceImpl)(nil)

// NotificationsService wraps the notifications endpoints.
type NotificationsService interface {
	List(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

type NotificationsServiceImpl struct {
	client *api.Client
	logger *zap.Logger
}

func NewNotificationsService(client *api.Client, logger *zap.Logger) *NotificationsServiceImpl {
	return &NotificationsServiceImpl{client: client, logger: logger}
}

func (s *NotificationsServiceImpl) List(ctx context.Context) ([]models.Notification, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/notifications/", nil, &raw); err != nil {
		return nil, err
	}
	items, _, err := decodeList[models.Notification](raw)
	return items, err
}

func (s *NotificationsServiceImpl) MarkRead(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/notifications/%d/read/", id), nil, nil)
}

func (s *NotificationsServiceImpl) MarkAllRead(ctx context.Context) error {
	return s.client.Post(ctx, "/notifications/mark-all-read/", nil, nil)
}

func (s *NotificationsServiceImpl) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := s.client.Get(ctx, "/notifications/unread-count/", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
