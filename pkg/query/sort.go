package query

import "strings"

// SortField names a view field and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression. A leading "-"
// marks a field as descending: "-ReceivedAt,Identifier".
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.HasPrefix(part, "-") {
			fields = append(fields, SortField{Field: strings.TrimPrefix(part, "-"), Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}

	return fields
}
