package command

import "github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"

// validationError reports a malformed command. It carries
// shared.ErrValidation so transports can classify it with
// shared.IsValidation instead of inspecting the message.
func validationError(op, msg string) error {
	return shared.NewDomainError("command", op, shared.ErrValidation, msg)
}
