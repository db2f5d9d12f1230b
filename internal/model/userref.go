package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Role string

const (
	RoleMentor Role = "MENTOR"
	RoleMentee Role = "MENTEE"
)

func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q", raw)
	}
	return role, nil
}

// UserRef identifies an account by role and id. The legacy chat columns
// store it as the string "ROLE_id"; String and ParseUserRef keep that
// wire format.
type UserRef struct {
	Role Role `json:"role"`
	ID   uint `json:"id"`
}

func (r UserRef) String() string {
	return fmt.Sprintf("%s_%d", r.Role, r.ID)
}

func (r UserRef) Valid() bool {
	return r.Role.Valid() && r.ID > 0
}

func ParseUserRef(raw string) (UserRef, error) {
	idx := strings.LastIndex(raw, "_")
	if idx <= 0 || idx == len(raw)-1 {
		return UserRef{}, fmt.Errorf("malformed user ref %q", raw)
	}

	role, err := ParseRole(raw[:idx])
	if err != nil {
		return UserRef{}, fmt.Errorf("malformed user ref %q: %w", raw, err)
	}

	id, err := strconv.ParseUint(raw[idx+1:], 10, 64)
	if err != nil || id == 0 {
		return UserRef{}, fmt.Errorf("malformed user ref %q", raw)
	}

	return UserRef{Role: role, ID: uint(id)}, nil
}
