package ui

import (
	"github.com/pantopia/console/internal/breadcrumb"
)

// routeKind identifies which screen a path renders.
type routeKind int

const (
	routeNotFound routeKind = iota
	routeHome
	routeCompanies
	routeCompany
	routeDataSource
	routeContacts
	routeContact
	routeProjects
	routeProjectDetail
	routeBriefs
	routeBrief
	routeLogs
)

// route is a parsed console path.
type route struct {
	kind routeKind
	// id is the entity the screen shows: company, contact, project or brief.
	id string
	// sourceID is set for data source screens, where id is the company.
	sourceID string
}

// listRoute reports whether the screen is a selectable table.
func (r route) listRoute() bool {
	switch r.kind {
	case routeHome, routeCompanies, routeCompany, routeContacts, routeProjects, routeBriefs:
		return true
	}
	return false
}

// parseRoute maps a path to a screen. /clients and /companies are the same
// collection; a trailing "paragraphs" segment still shows the data source.
func parseRoute(path string) route {
	segs := breadcrumb.Segments(path)
	if len(segs) == 0 {
		return route{kind: routeHome}
	}

	switch breadcrumb.Collection(segs[0]) {
	case breadcrumb.Clients, breadcrumb.Companies:
		switch {
		case len(segs) == 1:
			return route{kind: routeCompanies}
		case len(segs) == 2:
			return route{kind: routeCompany, id: segs[1]}
		case len(segs) == 3 && segs[2] == string(breadcrumb.DataSources):
			return route{kind: routeCompany, id: segs[1]}
		case (len(segs) == 4 || len(segs) == 5 && segs[4] == "paragraphs") && segs[2] == string(breadcrumb.DataSources):
			return route{kind: routeDataSource, id: segs[1], sourceID: segs[3]}
		}
	case breadcrumb.Contacts:
		return collectionRoute(segs, routeContacts, routeContact)
	case breadcrumb.Projects:
		return collectionRoute(segs, routeProjects, routeProjectDetail)
	case breadcrumb.Briefs:
		return collectionRoute(segs, routeBriefs, routeBrief)
	}
	if len(segs) == 1 && segs[0] == "logs" {
		return route{kind: routeLogs}
	}
	return route{kind: routeNotFound}
}

func collectionRoute(segs []string, list, detail routeKind) route {
	switch len(segs) {
	case 1:
		return route{kind: list}
	case 2:
		return route{kind: detail, id: segs[1]}
	}
	return route{kind: routeNotFound}
}

func companyPath(id string) string {
	return "/clients/" + id
}

func dataSourcePath(companyID, id string) string {
	return companyPath(companyID) + "/datasources/" + id
}
