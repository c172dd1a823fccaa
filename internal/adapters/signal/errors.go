package signal

import (
	"errors"

	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/domain"
)

// Wire error codes.
const (
	CodeBadPayload   = "bad_payload"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeNotJoined    = "not_joined"
	CodeNotFound     = "not_found"
	CodeInvalidState = "invalid_state"
	CodeInvalid      = "invalid"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadPayload):
		return CodeBadPayload
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrImpersonation):
		return CodeForbidden
	case errors.Is(err, domain.ErrScrumMasterTaken):
		return CodeConflict
	case errors.Is(err, domain.ErrNotJoined), errors.Is(err, orch.ErrUnknownSession):
		return CodeNotJoined
	case errors.Is(err, domain.ErrUnknownParticipant), errors.Is(err, domain.ErrQueueIndex):
		return CodeNotFound
	case errors.Is(err, domain.ErrNoActiveRound), errors.Is(err, domain.ErrRoundRevealed), errors.Is(err, domain.ErrRoomClosed):
		return CodeInvalidState
	default:
		return CodeInvalid
	}
}
