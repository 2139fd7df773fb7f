package trees

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/greenpulse/pulse-client/internal/config"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/greenpulse/pulse-client/internal/validation"
	"github.com/greenpulse/pulse-client/users"
)

// Tree is a tree adopted by a user.
type Tree struct {
	ID        int64    `json:"id" yaml:"id"`
	Species   string   `json:"species" yaml:"species"`
	Latitude  float64  `json:"latitude" yaml:"latitude"`
	Longitude float64  `json:"longitude" yaml:"longitude"`
	OwnerID   users.ID `json:"owner_id" yaml:"owner_id"`
}

// Planting is the body of a create or update: a tree without its id and
// owner, which the server assigns.
type Planting struct {
	Species   string  `json:"species" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (p Planting) Validate() error {
	return validation.Struct(p)
}

// Requester sends a JSON request and decodes the response into out.
type Requester interface {
	Do(ctx context.Context, method, endpoint string, body, out any) error
}

type Service struct {
	api       Requester
	endpoints config.Endpoints
}

func NewService(api Requester, endpoints config.Endpoints) (*Service, error) {
	if api == nil {
		return nil, apperrors.New("[trees.NewService] api client is required")
	}
	if endpoints.Trees == "" {
		return nil, apperrors.New("[trees.NewService] endpoints are required")
	}
	return &Service{api: api, endpoints: endpoints}, nil
}

func (s *Service) List(ctx context.Context) ([]Tree, error) {
	return s.list(ctx, s.endpoints.Trees, "[Service.List] failed to load trees")
}

func (s *Service) ByUser(ctx context.Context, userID users.ID) ([]Tree, error) {
	return s.list(ctx, s.endpoints.TreesByUser(string(userID)), fmt.Sprintf("[Service.ByUser] failed to load trees of user %s", userID))
}

func (s *Service) ByID(ctx context.Context, id int64) (*Tree, error) {
	var tree Tree
	if err := s.api.Do(ctx, http.MethodGet, s.endpoints.Tree(formatID(id)), nil, &tree); err != nil {
		if apperrors.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("[Service.ByID] tree %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.Wrapf(err, "[Service.ByID] failed to load tree %d", id)
	}
	return &tree, nil
}

// Create plants a tree for the logged in user. The planting is validated
// before it is sent.
func (s *Service) Create(ctx context.Context, planting Planting) (*Tree, error) {
	if err := planting.Validate(); err != nil {
		return nil, err
	}
	var tree Tree
	if err := s.api.Do(ctx, http.MethodPost, s.endpoints.Trees, planting, &tree); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Create] failed to create tree")
	}
	return &tree, nil
}

func (s *Service) Update(ctx context.Context, id int64, planting Planting) (*Tree, error) {
	if err := planting.Validate(); err != nil {
		return nil, err
	}
	var tree Tree
	if err := s.api.Do(ctx, http.MethodPut, s.endpoints.Tree(formatID(id)), planting, &tree); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Update] failed to update tree %d", id)
	}
	return &tree, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, s.endpoints.Tree(formatID(id)), nil, nil); err != nil {
		return apperrors.Wrapf(err, "[Service.Delete] failed to delete tree %d", id)
	}
	return nil
}

func (s *Service) list(ctx context.Context, endpoint, failure string) ([]Tree, error) {
	var list []Tree
	if err := s.api.Do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, apperrors.Wrapf(err, "%s", failure)
	}
	if list == nil {
		list = []Tree{}
	}
	return list, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
