// Package lobby keeps the roster of a session: who holds which seat, the
// credentials that let them reconnect, and whether they are online.
package lobby

import (
	"crypto/subtle"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"secrethitler/internal/engine"
)

// MaxNameLength is the longest nickname accepted, in runes.
const MaxNameLength = 32

// Member is one seat in the roster.
type Member struct {
	ID        string
	Name      string
	Secret    string
	Connected bool
}

// Lobby is the roster of one session. It is not safe for concurrent use;
// the owning session serializes access.
type Lobby struct {
	members  []*Member
	capacity int
}

// New creates an empty roster holding at most capacity members.
func New(capacity int) *Lobby {
	return &Lobby{capacity: capacity}
}

// Join seats a new member under name and issues their ID and secret. The
// new member starts out connected.
func (l *Lobby) Join(name string) (*Member, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	key := foldName(name)
	for _, m := range l.members {
		if foldName(m.Name) == key {
			return nil, engine.Reject(engine.KindInvalidNickname, "The nickname you are using is already taken!")
		}
	}
	if len(l.members) >= l.capacity {
		return nil, engine.Reject(engine.KindSessionFull, "There can be at most %d players.", l.capacity)
	}

	m := &Member{
		ID:        uuid.NewString(),
		Name:      name,
		Secret:    uuid.NewString(),
		Connected: true,
	}
	l.members = append(l.members, m)
	return m, nil
}

// Rejoin resolves a returning member by ID and secret and marks them
// connected. Nothing else about the member changes.
func (l *Lobby) Rejoin(id, secret string) (*Member, error) {
	m := l.Get(id)
	if m == nil {
		return nil, engine.Reject(engine.KindPlayerNotFound, "The player you are trying to join as does not exist!")
	}
	if secret == "" {
		return nil, engine.Reject(engine.KindNotAuthorized, "No player secret passed to server!")
	}
	if subtle.ConstantTimeCompare([]byte(m.Secret), []byte(secret)) != 1 {
		return nil, engine.Reject(engine.KindNotAuthorized, "Invalid player secret passed to server!")
	}
	m.Connected = true
	return m, nil
}

// Leave removes a member. It reports whether the member was seated.
func (l *Lobby) Leave(id string) bool {
	for i, m := range l.members {
		if m.ID == id {
			l.members = append(l.members[:i], l.members[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the member with the given ID, or nil.
func (l *Lobby) Get(id string) *Member {
	for _, m := range l.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// SetConnected records whether a member has a live connection.
func (l *Lobby) SetConnected(id string, connected bool) {
	if m := l.Get(id); m != nil {
		m.Connected = connected
	}
}

// Connected reports whether the member is online.
func (l *Lobby) Connected(id string) bool {
	m := l.Get(id)
	return m != nil && m.Connected
}

// ConnectedCount returns how many members are online.
func (l *Lobby) ConnectedCount() int {
	n := 0
	for _, m := range l.members {
		if m.Connected {
			n++
		}
	}
	return n
}

// ConnectedIDs returns the IDs of online members in seating order.
func (l *Lobby) ConnectedIDs() []string {
	var ids []string
	for _, m := range l.members {
		if m.Connected {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Len returns the number of seated members.
func (l *Lobby) Len() int {
	return len(l.members)
}

// Members returns a copy of the roster.
func (l *Lobby) Members() []Member {
	out := make([]Member, len(l.members))
	for i, m := range l.members {
		out[i] = *m
	}
	return out
}

// NormalizeName trims a nickname and checks it is usable.
func NormalizeName(name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", engine.Reject(engine.KindInvalidNickname, "Your nickname cannot be empty.")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", engine.Reject(engine.KindInvalidNickname, "Your nickname can be at most %d characters.", MaxNameLength)
	}
	return name, nil
}

// foldName maps a nickname to the key used for uniqueness, so "Alice" and
// "ALICE" collide.
func foldName(name string) string {
	return cases.Fold().String(name)
}
