// Package documents records received documents, their senders and
// recipients, and coordinates QR artifact refreshes after each save.
package documents

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/reception-registry/internal/bindings"
)

const (
	maxIdentifierLength = 100
	maxLinkLength       = 500
)

// Document is a received document and, when loaded through Find, its
// bindings and the display string of its senders.
type Document struct {
	ID           uuid.UUID          `json:"id"`
	TypeID       uuid.UUID          `json:"type_id"`
	TypeName     string             `json:"type_name"`
	Identifier   *string            `json:"identifier,omitempty"`
	Reference    string             `json:"reference"`
	Observations *string            `json:"observations,omitempty"`
	ReceivedAt   time.Time          `json:"received_at"`
	ExternalLink *string            `json:"external_link,omitempty"`
	QRArtifact   *string            `json:"qr_artifact,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Bindings     []bindings.Binding `json:"bindings,omitempty"`
	Senders      string             `json:"senders,omitempty"`
}

// DocumentType classifies documents, such as memos or circulars.
type DocumentType struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Acronym string    `json:"acronym"`
}

// Fields are the caller-supplied attributes of a document. Create and
// Update both replace every field.
type Fields struct {
	TypeID       uuid.UUID `json:"type_id"`
	Identifier   *string   `json:"identifier,omitempty"`
	Reference    string    `json:"reference"`
	Observations *string   `json:"observations,omitempty"`
	ReceivedAt   time.Time `json:"received_at"`
	ExternalLink *string   `json:"external_link,omitempty"`
}

// receivedLayouts are the accepted forms of received_at. A value without a
// zone is read as UTC.
var receivedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain Fields
	aux := struct {
		*plain
		ReceivedAt *string `json:"received_at"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ReceivedAt == nil || strings.TrimSpace(*aux.ReceivedAt) == "" {
		f.ReceivedAt = time.Time{}
		return nil
	}

	v := strings.TrimSpace(*aux.ReceivedAt)
	for _, layout := range receivedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			f.ReceivedAt = t
			return nil
		}
	}
	return fmt.Errorf("received_at %q: want RFC 3339 or YYYY-MM-DDTHH:MM[:SS]", v)
}

type CreateCommand = Fields

type UpdateCommand = Fields

// BindingCommand attaches a party to a document in a role.
type BindingCommand struct {
	PartyID                   uuid.UUID     `json:"party_id"`
	Role                      bindings.Role `json:"role"`
	PositionID                *uuid.UUID    `json:"position_id,omitempty"`
	SupervisingOrganizationID *uuid.UUID    `json:"supervising_organization_id,omitempty"`
}

type CreateTypeCommand struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// SaveResult is returned by Create and Update. Warning is set when the
// document was written but its QR artifact could not be refreshed.
type SaveResult struct {
	Document *Document `json:"document"`
	Warning  string    `json:"warning,omitempty"`
}

// normalize trims text fields, collapses blank optionals to nil and
// validates the result.
func (f Fields) normalize() (Fields, error) {
	f.Identifier = trimOptional(f.Identifier)
	f.Observations = trimOptional(f.Observations)
	f.ExternalLink = trimOptional(f.ExternalLink)
	f.Reference = strings.TrimSpace(f.Reference)

	if f.TypeID == uuid.Nil {
		return f, fmt.Errorf("%w: type_id is required", ErrInvalidDocument)
	}
	if f.Reference == "" {
		return f, fmt.Errorf("%w: reference is required", ErrInvalidDocument)
	}
	if f.ReceivedAt.IsZero() {
		return f, fmt.Errorf("%w: received_at is required", ErrInvalidDocument)
	}
	if f.Identifier != nil && utf8.RuneCountInString(*f.Identifier) > maxIdentifierLength {
		return f, fmt.Errorf("%w: identifier exceeds %d characters", ErrInvalidDocument, maxIdentifierLength)
	}
	if f.ExternalLink != nil {
		if err := validateLink(*f.ExternalLink); err != nil {
			return f, err
		}
	}

	f.ReceivedAt = f.ReceivedAt.UTC()
	return f, nil
}

func validateLink(link string) error {
	if utf8.RuneCountInString(link) > maxLinkLength {
		return fmt.Errorf("%w: external_link exceeds %d characters", ErrInvalidDocument, maxLinkLength)
	}
	u, err := url.ParseRequestURI(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: external_link must be an absolute http or https URL", ErrInvalidDocument)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// senders joins the names of sender-bound parties in binding order.
func senders(bs []bindings.Binding) string {
	names := make([]string, 0, len(bs))
	for _, b := range bs {
		if b.Role == bindings.Sender {
			names = append(names, b.PartyName)
		}
	}
	return strings.Join(names, ", ")
}
