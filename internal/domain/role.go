// Package domain holds room entities and the role capability table.
package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of participant roles in a room.
type Role string

const (
	RoleDeveloper    Role = "Developer"
	RoleObserver     Role = "Observer"
	RoleProductOwner Role = "Product Owner"
	RoleScrumMaster  Role = "Scrum Master"
)

var ErrUnknownRole = errors.New("unknown role")

type capabilities struct {
	vote    bool
	control bool
}

var roleCaps = map[Role]capabilities{
	RoleDeveloper:    {vote: true},
	RoleObserver:     {},
	RoleProductOwner: {},
	RoleScrumMaster:  {control: true},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleCaps[r]
	return ok
}

// CanVote reports whether votes from this role are accepted and counted.
func (r Role) CanVote() bool { return roleCaps[r].vote }

// CanControlSession reports whether the role may start, reveal and end rounds,
// manage the story queue and remove participants.
func (r Role) CanControlSession() bool { return roleCaps[r].control }
