package ui

import (
	"context"
	"sync"

	"github.com/pantopia/console/internal/pantopia"
)

// fakeBackend serves the sample dataset and scripts processing statuses.
type fakeBackend struct {
	mu       sync.Mutex
	ds       pantopia.Dataset
	statuses []pantopia.Status
	polls    int
	submits  int
}

func newFakeBackend(statuses ...pantopia.Status) *fakeBackend {
	return &fakeBackend{ds: pantopia.SampleDataset(), statuses: statuses}
}

func (f *fakeBackend) ListCompanies(context.Context) ([]pantopia.Company, error) {
	return f.ds.Companies, nil
}

func (f *fakeBackend) GetCompany(_ context.Context, id string) (pantopia.Company, error) {
	if c, ok := f.ds.CompanyByID(id); ok {
		return c, nil
	}
	return pantopia.Company{}, pantopia.ErrNotFound
}

func (f *fakeBackend) ListContacts(context.Context) ([]pantopia.Contact, error) {
	return f.ds.Contacts, nil
}

func (f *fakeBackend) GetContact(_ context.Context, id string) (pantopia.Contact, error) {
	for _, c := range f.ds.Contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return pantopia.Contact{}, pantopia.ErrNotFound
}

func (f *fakeBackend) ListProjects(context.Context) ([]pantopia.Project, error) {
	return f.ds.Projects, nil
}

func (f *fakeBackend) GetProject(_ context.Context, id string) (pantopia.Project, error) {
	for _, p := range f.ds.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return pantopia.Project{}, pantopia.ErrNotFound
}

func (f *fakeBackend) ListBriefs(context.Context) ([]pantopia.Brief, error) {
	return f.ds.Briefs, nil
}

func (f *fakeBackend) GetBrief(_ context.Context, id string) (pantopia.Brief, error) {
	for _, b := range f.ds.Briefs {
		if b.ID == id {
			return b, nil
		}
	}
	return pantopia.Brief{}, pantopia.ErrNotFound
}

func (f *fakeBackend) UpdateBriefStatus(_ context.Context, id string, next pantopia.BriefStatus) (pantopia.Brief, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.ds.Briefs {
		if b.ID != id {
			continue
		}
		if !b.Status.CanTransition(next) {
			return pantopia.Brief{}, &pantopia.InvalidTransitionError{From: b.Status, To: next}
		}
		f.ds.Briefs[i].Status = next
		return f.ds.Briefs[i], nil
	}
	return pantopia.Brief{}, pantopia.ErrNotFound
}

func (f *fakeBackend) ListDataSources(_ context.Context, companyID string) ([]pantopia.DataSource, error) {
	var out []pantopia.DataSource
	for _, ds := range f.ds.DataSources {
		if ds.CompanyID == companyID {
			out = append(out, ds)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetDataSource(_ context.Context, id string) (pantopia.DataSource, error) {
	for _, ds := range f.ds.DataSources {
		if ds.ID == id {
			return ds, nil
		}
	}
	return pantopia.DataSource{}, pantopia.ErrNotFound
}

func (f *fakeBackend) ListParagraphs(_ context.Context, id string) ([]pantopia.Paragraph, error) {
	var out []pantopia.Paragraph
	for _, p := range f.ds.Paragraphs {
		if p.DataSourceID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) ProcessDataSource(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	f.polls = 0
	return nil
}

func (f *fakeBackend) ProcessingStatus(context.Context, string) (pantopia.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return pantopia.StatusNotExtracted, nil
	}
	i := min(f.polls, len(f.statuses)-1)
	f.polls++
	return f.statuses[i], nil
}

func (f *fakeBackend) LoginURL() string {
	return "http://pantopia.test/login"
}
