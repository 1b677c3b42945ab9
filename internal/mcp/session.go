package mcp

import (
	"errors"
	"sync"
	"time"
)

// State is the lifecycle state of a session.
type State string

const (
	// StateUninitialized means the session exists but has not completed the
	// initialize handshake. No tool dispatch happens in this state.
	StateUninitialized State = "uninitialized"
	// StateActive means the handshake completed and requests are forwarded
	// to the tool dispatcher.
	StateActive State = "active"
	// StateClosed is terminal. No transition leaves it.
	StateClosed State = "closed"
)

// Session transition errors.
var (
	ErrAlreadyActive = errors.New("session: already initialized")
	ErrNotActive     = errors.New("session: not initialized")
	ErrClosed        = errors.New("session: closed")
)

// Session correlates a sequence of client exchanges under one opaque token.
// It is created and exclusively owned by the Registry; exactly one instance
// exists per live id. State is guarded by its own mutex so that transport
// dispatch never runs under the registry-wide lock.
type Session struct {
	id string

	mu           sync.Mutex
	state        State
	clientInfo   Info
	createdAt    time.Time
	lastActiveAt time.Time
}

func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		id:           id,
		state:        StateUninitialized,
		createdAt:    now,
		lastActiveAt: now,
	}
}

// ID returns the opaque session token.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClientInfo returns the client identity recorded at initialization.
func (s *Session) ClientInfo() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientInfo
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Activate performs the uninitialized -> active transition, recording the
// client identity from the handshake.
func (s *Session) Activate(client Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateActive:
		return ErrAlreadyActive
	}

	s.state = StateActive
	s.clientInfo = client
	s.lastActiveAt = time.Now().UTC()
	return nil
}

// CheckActive reports whether the session may dispatch tool requests.
// An aborted or failed exchange never changes the state; only Activate and
// Close transition.
func (s *Session) CheckActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateUninitialized:
		return ErrNotActive
	}

	s.lastActiveAt = time.Now().UTC()
	return nil
}

// Close performs the terminal transition. Closing an already closed session
// returns ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrClosed
	}
	s.state = StateClosed
	return nil
}
