package command

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE GROUP COMMAND
// The creator becomes the first member and sole admin; the shareable join
// code is generated here and retried on the rare collision.
// ══════════════════════════════════════════════════════════════════════════════

// codeAlphabet excludes nothing: codes are compared case-insensitively and
// stored uppercase, so the full A-Z 0-9 space is usable.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxCodeAttempts bounds retries on join-code collisions.
const maxCodeAttempts = 5

// CreateGroupCommand contains the data to create a group.
type CreateGroupCommand struct {
	CreatorID   string
	Name        string
	Description string
	IsPublic    bool

	// MaxMembers caps membership; zero means the default cap.
	MaxMembers int
}

// Validate validates the command.
func (c CreateGroupCommand) Validate() error {
	if c.CreatorID == "" {
		return validationError("create_group", "creator_id is required")
	}
	if c.Name == "" || len(c.Name) > 100 {
		return social.ErrInvalidGroupName
	}
	if c.MaxMembers < 0 {
		return validationError("create_group", "max_members cannot be negative")
	}
	return nil
}

// CreateGroupHandler handles the CreateGroupCommand.
type CreateGroupHandler struct {
	groups social.GroupRepository
}

// NewCreateGroupHandler creates a new handler.
func NewCreateGroupHandler(groups social.GroupRepository) *CreateGroupHandler {
	return &CreateGroupHandler{groups: groups}
}

// Handle executes the command and returns the created group.
func (h *CreateGroupHandler) Handle(ctx context.Context, cmd CreateGroupCommand) (*social.Group, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateGroupCode()
		if err != nil {
			return nil, err
		}

		g, err := social.NewGroup(social.NewGroupParams{
			ID:          uuid.New().String(),
			Name:        cmd.Name,
			Description: cmd.Description,
			CreatorID:   cmd.CreatorID,
			IsPublic:    cmd.IsPublic,
			Code:        code,
			MaxMembers:  cmd.MaxMembers,
		})
		if err != nil {
			return nil, err
		}

		err = h.groups.CreateWithAdmin(ctx, g)
		if err == nil {
			return g, nil
		}
		if errors.Is(err, social.ErrGroupCodeTaken) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("create_group: exhausted %d code attempts", maxCodeAttempts)
}

// generateGroupCode produces a random join code from crypto/rand.
func generateGroupCode() (social.GroupCode, error) {
	buf := make([]byte, social.GroupCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("create_group: code generation failed: %w", err)
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return social.GroupCode(buf), nil
}
