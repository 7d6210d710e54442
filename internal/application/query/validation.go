package query

import "github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"

// validationError reports a malformed query. It carries shared.ErrValidation
// so transports can classify it with shared.IsValidation instead of
// inspecting the message.
func validationError(op, msg string) error {
	return shared.NewDomainError("query", op, shared.ErrValidation, msg)
}
