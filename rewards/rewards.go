package rewards

import (
	"context"
	"fmt"
	"net/http"

	"github.com/greenpulse/pulse-client/internal/config"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
)

// Reward is an item of the rewards catalog, redeemable for points.
type Reward struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Points      int    `json:"points" yaml:"points"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Category    string `json:"category" yaml:"category"`
}

// Statistics is whatever summary the server reports for the catalog.
type Statistics map[string]any

// Requester sends a JSON request and decodes the response into out.
type Requester interface {
	Do(ctx context.Context, method, endpoint string, body, out any) error
}

// Service reads and edits the rewards catalog.
type Service struct {
	api       Requester
	endpoints config.Endpoints
}

func NewService(api Requester, endpoints config.Endpoints) (*Service, error) {
	if api == nil {
		return nil, apperrors.New("[rewards.NewService] api client is required")
	}
	if endpoints.Rewards == "" {
		return nil, apperrors.New("[rewards.NewService] endpoints are required")
	}
	return &Service{api: api, endpoints: endpoints}, nil
}

func (s *Service) List(ctx context.Context) ([]Reward, error) {
	return s.list(ctx, s.endpoints.Rewards, "[Service.List] failed to load rewards")
}

func (s *Service) Active(ctx context.Context) ([]Reward, error) {
	return s.list(ctx, s.endpoints.RewardsActive, "[Service.Active] failed to load active rewards")
}

func (s *Service) Available(ctx context.Context) ([]Reward, error) {
	return s.list(ctx, s.endpoints.RewardsAvailable, "[Service.Available] failed to load available rewards")
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Reward, error) {
	return s.list(ctx, s.endpoints.RewardsByCategory(category), fmt.Sprintf("[Service.ByCategory] failed to load rewards in %q", category))
}

// ByID returns the reward with the given id. A missing reward is
// errors.ErrNotFound.
func (s *Service) ByID(ctx context.Context, id string) (*Reward, error) {
	var reward Reward
	if err := s.api.Do(ctx, http.MethodGet, s.endpoints.Reward(id), nil, &reward); err != nil {
		if apperrors.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("[Service.ByID] reward %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.Wrapf(err, "[Service.ByID] failed to load reward %s", id)
	}
	return &reward, nil
}

func (s *Service) Create(ctx context.Context, reward Reward) (*Reward, error) {
	var created Reward
	if err := s.api.Do(ctx, http.MethodPost, s.endpoints.Rewards, reward, &created); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Create] failed to create reward")
	}
	return &created, nil
}

// Update sends the fields in changes. Zero fields are sent as well; callers
// pass a full record.
func (s *Service) Update(ctx context.Context, id string, changes Reward) (*Reward, error) {
	var updated Reward
	if err := s.api.Do(ctx, http.MethodPut, s.endpoints.Reward(id), changes, &updated); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Update] failed to update reward %s", id)
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, s.endpoints.Reward(id), nil, nil); err != nil {
		return apperrors.Wrapf(err, "[Service.Delete] failed to delete reward %s", id)
	}
	return nil
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	if err := s.api.Do(ctx, http.MethodGet, s.endpoints.RewardsStats, nil, &stats); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Statistics] failed to load statistics")
	}
	return stats, nil
}

func (s *Service) list(ctx context.Context, endpoint, failure string) ([]Reward, error) {
	var list []Reward
	if err := s.api.Do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, apperrors.Wrapf(err, "%s", failure)
	}
	if list == nil {
		list = []Reward{}
	}
	return list, nil
}
