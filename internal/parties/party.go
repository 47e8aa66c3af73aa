package parties

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a party as a natural person or an organization.
type Type int

const (
	Individual Type = iota + 1
	Organization
)

// ParseType resolves the text form of a party type. Matching ignores case.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual":
		return Individual, nil
	case "organization":
		return Organization, nil
	default:
		return 0, fmt.Errorf("%w: unknown party type %q", ErrInvalidParty, s)
	}
}

func (t Type) String() string {
	switch t {
	case Individual:
		return "individual"
	case Organization:
		return "organization"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared party types.
func (t Type) Valid() bool {
	return t == Individual || t == Organization
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid party type %d", ErrInvalidParty, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Party is a sender or recipient of documents.
type Party struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position is a job title an individual holds within a supervising organization.
type Position struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommand struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type UpdateCommand struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type CreatePositionCommand struct {
	Name string `json:"name"`
}

func validateCommand(name string, t Type) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidParty)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: type is required", ErrInvalidParty)
	}
	return nil
}
