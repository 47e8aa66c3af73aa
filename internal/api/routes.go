package api

import (
	"github.com/JaimeStill/reception-registry/internal/documents"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/pkg/routes"
)

func routeGroups(runtime *Runtime, domain *Domain) []routes.Group {
	partiesHandler := parties.NewHandler(domain.Parties, runtime.Logger, runtime.Pagination)
	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger, runtime.Pagination)

	var groups []routes.Group
	groups = append(groups, partiesHandler.Routes()...)
	groups = append(groups, documentsHandler.Routes()...)
	return groups
}
