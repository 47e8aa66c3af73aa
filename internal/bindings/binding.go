// Package bindings defines the roles a party plays on a document and the
// rules deciding which attributes each role may carry.
package bindings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/parties"
)

// Role is the part a party plays on a document.
type Role int

const (
	Sender Role = iota + 1
	Recipient
)

// ParseRole resolves the text form of a role. Matching ignores case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sender":
		return Sender, nil
	case "recipient":
		return Recipient, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case Sender:
		return "sender"
	case Recipient:
		return "recipient"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	return r == Sender || r == Recipient
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Binding associates a party with a document in a given role.
type Binding struct {
	ID                        uuid.UUID  `json:"id"`
	DocumentID                uuid.UUID  `json:"document_id"`
	PartyID                   uuid.UUID  `json:"party_id"`
	PartyName                 string     `json:"party_name"`
	Role                      Role       `json:"role"`
	PositionID                *uuid.UUID `json:"position_id,omitempty"`
	SupervisingOrganizationID *uuid.UUID `json:"supervising_organization_id,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
}

// Candidate is a binding resolved against the registry, ready for validation.
// Position and Supervisor are nil when the caller did not supply them.
type Candidate struct {
	Role       Role
	Party      parties.Party
	Position   *parties.Position
	Supervisor *parties.Party
}
