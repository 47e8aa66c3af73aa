package qrcodes

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// NoIdentifier stands in for a document without an identifier.
	NoIdentifier = "no identifier"

	dateLayout = "2006-01-02 15:04:05"
)

// Fingerprint returns the literal QR payload for a snapshot: five labelled
// lines in fixed order. Any change to an encoded field changes the payload.
func Fingerprint(s Snapshot) string {
	identifier := NoIdentifier
	if s.Identifier != nil && strings.TrimSpace(*s.Identifier) != "" {
		identifier = *s.Identifier
	}

	var link string
	if s.ExternalLink != nil {
		link = *s.ExternalLink
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", s.ID)
	fmt.Fprintf(&b, "Type: %s\n", s.TypeName)
	fmt.Fprintf(&b, "Identifier: %s\n", identifier)
	fmt.Fprintf(&b, "Date: %s\n", s.ReceivedAt.UTC().Format(dateLayout))
	fmt.Fprintf(&b, "Link: %s", link)
	return b.String()
}

// Key returns the storage slot for a document's artifact.
func Key(id uuid.UUID) string {
	return fmt.Sprintf("qr_codes/qr_documento_%s.png", id)
}
