package bindings

import "github.com/JaimeStill/reception-registry/internal/parties"

// Validate checks a candidate binding against the attribute rules for its
// role and party type. It returns a *ValidationError naming every offending
// field, or nil when the binding may be written as-is.
//
// Organizations carry neither position nor supervising organization.
// Individual recipients require both, and the supervisor must be an
// organization. Individual senders are unconstrained, and a supervisor given
// for a sender is not type-checked.
func Validate(c Candidate) error {
	switch c.Party.Type {
	case parties.Organization:
		var extra []string
		if c.Position != nil {
			extra = append(extra, FieldPosition)
		}
		if c.Supervisor != nil {
			extra = append(extra, FieldSupervisingOrganization)
		}
		if len(extra) > 0 {
			return newValidationError(ExtraneousAttribute, extra, "%s must not be set for an organization")
		}
		return nil

	case parties.Individual:
		switch c.Role {
		case Recipient:
			var missing []string
			if c.Position == nil {
				missing = append(missing, FieldPosition)
			}
			if c.Supervisor == nil {
				missing = append(missing, FieldSupervisingOrganization)
			}
			if len(missing) > 0 {
				return newValidationError(MissingRequiredAttribute, missing, "%s required for an individual recipient")
			}
			if c.Supervisor.Type != parties.Organization {
				return newValidationError(InvalidReference, []string{FieldSupervisingOrganization}, "%s must reference an organization")
			}
			return nil

		case Sender:
			return nil

		default:
			return newValidationError(InvalidReference, []string{"role"}, "%s is not a known role")
		}

	default:
		return newValidationError(InvalidReference, []string{"party"}, "%s has no known type")
	}
}
