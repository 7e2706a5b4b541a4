// Package domain holds the typed identifiers shared across TasQuest packages.
//
// Each identifier wraps a UUID so the compiler keeps goal ids out of task
// slots and account ids out of everything else. Parse functions are the
// trust-boundary constructors: they reject empty, malformed and nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "tasquest/pkg/domain-errors"
)

type (
	AccountID uuid.UUID
	SessionID uuid.UUID
	StatusID  uuid.UUID
	GoalID    uuid.UUID
	TaskID    uuid.UUID
	TagID     uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID("account id", s)
	return AccountID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID("session id", s)
	return SessionID(u), err
}

func ParseStatusID(s string) (StatusID, error) {
	u, err := parseUUID("status id", s)
	return StatusID(u), err
}

func ParseGoalID(s string) (GoalID, error) {
	u, err := parseUUID("goal id", s)
	return GoalID(u), err
}

func ParseTaskID(s string) (TaskID, error) {
	u, err := parseUUID("task id", s)
	return TaskID(u), err
}

func ParseTagID(s string) (TagID, error) {
	u, err := parseUUID("tag id", s)
	return TagID(u), err
}

func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewSessionID() SessionID { return SessionID(uuid.New()) }
func NewStatusID() StatusID   { return StatusID(uuid.New()) }
func NewGoalID() GoalID       { return GoalID(uuid.New()) }
func NewTaskID() TaskID       { return TaskID(uuid.New()) }
func NewTagID() TagID         { return TagID(uuid.New()) }

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id StatusID) String() string  { return uuid.UUID(id).String() }
func (id GoalID) String() string    { return uuid.UUID(id).String() }
func (id TaskID) String() string    { return uuid.UUID(id).String() }
func (id TagID) String() string     { return uuid.UUID(id).String() }

func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id StatusID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id GoalID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TaskID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TagID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Text marshalling keeps ids readable in JSON documents and map keys.

func (id AccountID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id StatusID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id GoalID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id TaskID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id TagID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *AccountID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *StatusID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *GoalID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TaskID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TagID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
