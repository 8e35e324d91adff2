package breadcrumb

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pantopia/console/internal/pantopia"
)

// nameTable resolves IDs from a fixed map.
type nameTable map[string]string

func (t nameTable) ResolveEntityName(_ context.Context, id string) (string, bool, error) {
	name, ok := t[id]
	return name, ok, nil
}

// SampleResolver returns a Resolver bound to the built-in sample dataset.
func SampleResolver(logger *zap.Logger) *Resolver {
	r := NewResolver(logger)
	RegisterSamples(r, pantopia.SampleDataset())
	return r
}

// RegisterSamples binds every collection to the names in ds. Client 1 of the
// sample dataset resolves to "Tech Innovations Inc".
func RegisterSamples(r *Resolver, ds pantopia.Dataset) {
	companies := nameTable{}
	for _, c := range ds.Companies {
		companies[c.ID] = c.Name
	}
	contacts := nameTable{}
	for _, c := range ds.Contacts {
		contacts[c.ID] = c.DisplayName()
	}
	projects := nameTable{}
	for _, p := range ds.Projects {
		projects[p.ID] = p.Name
	}
	briefs := nameTable{}
	for _, b := range ds.Briefs {
		briefs[b.ID] = b.Title
	}
	sources := nameTable{}
	for _, d := range ds.DataSources {
		sources[d.ID] = d.Name
	}
	r.Register(Clients, companies)
	r.Register(Companies, companies)
	r.Register(Contacts, contacts)
	r.Register(Projects, projects)
	r.Register(Briefs, briefs)
	r.Register(DataSources, sources)
}

// RegisterDirectory binds every collection to live API lookups.
func RegisterDirectory(r *Resolver, dir pantopia.Directory) {
	companies := CompanyNames{Directory: dir}
	r.Register(Clients, companies)
	r.Register(Companies, companies)
	r.Register(Contacts, ContactNames{Directory: dir})
	r.Register(Projects, ProjectNames{Directory: dir})
	r.Register(Briefs, BriefNames{Directory: dir})
	r.Register(DataSources, DataSourceNames{Directory: dir})
}

// CompanyNames resolves company IDs through the API.
type CompanyNames struct{ Directory pantopia.Directory }

func (n CompanyNames) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	c, err := n.Directory.GetCompany(ctx, id)
	return named(c.Name, err)
}

// ContactNames resolves contact IDs through the API.
type ContactNames struct{ Directory pantopia.Directory }

func (n ContactNames) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	c, err := n.Directory.GetContact(ctx, id)
	return named(c.DisplayName(), err)
}

// ProjectNames resolves project IDs through the API.
type ProjectNames struct{ Directory pantopia.Directory }

func (n ProjectNames) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	p, err := n.Directory.GetProject(ctx, id)
	return named(p.Name, err)
}

// BriefNames resolves brief IDs through the API.
type BriefNames struct{ Directory pantopia.Directory }

func (n BriefNames) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	b, err := n.Directory.GetBrief(ctx, id)
	return named(b.Title, err)
}

// DataSourceNames resolves data source IDs through the API.
type DataSourceNames struct{ Directory pantopia.Directory }

func (n DataSourceNames) ResolveEntityName(ctx context.Context, id string) (string, bool, error) {
	d, err := n.Directory.GetDataSource(ctx, id)
	return named(d.Name, err)
}

func named(name string, err error) (string, bool, error) {
	if errors.Is(err, pantopia.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, name != "", nil
}
