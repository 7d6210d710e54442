package query

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// Pagination bounds for public group discovery.
const (
	DefaultGroupPageSize = 20
	MaxGroupPageSize     = 100
)

// ListPublicGroupsQuery pages through publicly discoverable groups,
// newest first.
type ListPublicGroupsQuery struct {
	Limit  int
	Offset int
}

// Validate validates the query.
func (q ListPublicGroupsQuery) Validate() error {
	if q.Offset < 0 {
		return validationError("list_public_groups", "offset cannot be negative")
	}
	return nil
}

// ListMyGroupsQuery lists the groups an account belongs to, ordered
// by when the account joined.
type ListMyGroupsQuery struct {
	AccountID string
}

// Validate validates the query.
func (q ListMyGroupsQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("list_my_groups", "account_id is required")
	}
	return nil
}

// ListGroupsHandler serves both group listing queries.
type ListGroupsHandler struct {
	groups social.GroupRepository
}

// NewListGroupsHandler creates a new handler.
func NewListGroupsHandler(groups social.GroupRepository) *ListGroupsHandler {
	return &ListGroupsHandler{groups: groups}
}

// HandlePublic executes the ListPublicGroupsQuery.
func (h *ListGroupsHandler) HandlePublic(ctx context.Context, q ListPublicGroupsQuery) ([]*social.Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultGroupPageSize
	}
	if limit > MaxGroupPageSize {
		limit = MaxGroupPageSize
	}

	return h.groups.ListPublic(ctx, limit, q.Offset)
}

// HandleMine executes the ListMyGroupsQuery.
func (h *ListGroupsHandler) HandleMine(ctx context.Context, q ListMyGroupsQuery) ([]*social.Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.groups.ListByAccount(ctx, q.AccountID)
}
