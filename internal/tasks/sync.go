package tasks

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"

	"menu-bot/internal/grocery"
)

const taskListTitle = "Groceries"

// ItemResult records the outcome of pushing one grocery item.
type ItemResult struct {
	ItemName string
	Err      error
}

// SyncResult summarizes one member's list push.
type SyncResult struct {
	ChatUserID int64
	TaskListID string
	Pushed     int
	Failed     []ItemResult
}

// Syncer pushes approved grocery lists into Google Tasks.
type Syncer struct {
	oauth *OAuthManager
	log   *zap.Logger
}

// NewSyncer creates a grocery list syncer.
func NewSyncer(oauth *OAuthManager, log *zap.Logger) *Syncer {
	return &Syncer{oauth: oauth, log: log}
}

// SyncList pushes every unchecked item of a grocery list to the
// member's Groceries task list, grouped by store in list order. A
// failing item is recorded and does not abort the remaining items.
func (s *Syncer) SyncList(ctx context.Context, chatUserID int64, refreshToken string, list *grocery.List, cfg *grocery.Config) (*SyncResult, error) {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	listID, err := s.ensureTaskList(ctx, svc)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{ChatUserID: chatUserID, TaskListID: listID}
	for _, store := range cfg.Stores {
		for _, item := range list.Items {
			if item.Store != store.ID || item.Checked {
				continue
			}
			task := &tasksapi.Task{
				Title: fmt.Sprintf("%s (%s)", item.Name, grocery.FormatQuantity(item.Quantity, item.Unit)),
				Notes: fmt.Sprintf("%s / %s", store.Name, item.Category),
			}
			if _, err := svc.Tasks.Insert(listID, task).Context(ctx).Do(); err != nil {
				s.log.Warn("failed to push grocery item",
					zap.String("item", item.Name), zap.Error(err))
				result.Failed = append(result.Failed, ItemResult{ItemName: item.Name, Err: err})
				continue
			}
			result.Pushed++
		}
	}
	return result, nil
}

func (s *Syncer) service(ctx context.Context, refreshToken string) (*tasksapi.Service, error) {
	src := s.oauth.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	svc, err := tasksapi.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return svc, nil
}

// ensureTaskList finds the Groceries task list, creating it on first
// sync.
func (s *Syncer) ensureTaskList(ctx context.Context, svc *tasksapi.Service) (string, error) {
	lists, err := svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list task lists: %w", err)
	}
	for _, tl := range lists.Items {
		if tl.Title == taskListTitle {
			return tl.Id, nil
		}
	}
	created, err := svc.Tasklists.Insert(&tasksapi.TaskList{Title: taskListTitle}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create task list: %w", err)
	}
	return created.Id, nil
}
