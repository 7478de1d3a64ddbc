package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected action. Every kind is user-facing; none is
// fatal to the process.
type ErrorKind int

const (
	KindWrongPhase ErrorKind = iota + 1
	KindNotAuthorized
	KindInvalidTarget
	KindInvalidChoice
	KindPowerLocked
	KindSessionNotFound
	KindPlayerNotFound
	KindInvalidNickname
	KindSessionFull
)

var kindNames = map[ErrorKind]string{
	KindWrongPhase:      "WrongPhase",
	KindNotAuthorized:   "NotAuthorized",
	KindInvalidTarget:   "InvalidTarget",
	KindInvalidChoice:   "InvalidChoice",
	KindPowerLocked:     "PowerLocked",
	KindSessionNotFound: "SessionNotFound",
	KindPlayerNotFound:  "PlayerNotFound",
	KindInvalidNickname: "InvalidNickname",
	KindSessionFull:     "SessionFull",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a rejected action. Message is safe to show to the acting player.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, engine.ErrWrongPhase).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Reject builds a rejection of the given kind.
func Reject(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrWrongPhase      = &Error{Kind: KindWrongPhase, Message: "that action is not allowed right now"}
	ErrNotAuthorized   = &Error{Kind: KindNotAuthorized, Message: "you are not allowed to do that"}
	ErrInvalidTarget   = &Error{Kind: KindInvalidTarget, Message: "invalid target"}
	ErrInvalidChoice   = &Error{Kind: KindInvalidChoice, Message: "invalid choice"}
	ErrPowerLocked     = &Error{Kind: KindPowerLocked, Message: "the veto power is not unlocked yet"}
	ErrSessionNotFound = &Error{Kind: KindSessionNotFound, Message: "the game that you are looking for does not exist"}
	ErrPlayerNotFound  = &Error{Kind: KindPlayerNotFound, Message: "the player you are looking for does not exist"}
	ErrInvalidNickname = &Error{Kind: KindInvalidNickname, Message: "invalid nickname"}
	ErrSessionFull     = &Error{Kind: KindSessionFull, Message: "the game is full"}
)

// KindOf returns the rejection kind of err, or 0 if err is not a rejection.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
