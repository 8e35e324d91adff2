package breadcrumb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantopia/console/internal/pantopia"
)

func TestFromPath_AlwaysStartsAtHome(t *testing.T) {
	for _, path := range []string{"", "/", "//", "/clients", "a/b/c", "/x//y/"} {
		items := FromPath(path, nil)
		require.NotEmpty(t, items, path)
		assert.Equal(t, Home, items[0], path)
	}
}

func TestFromPath_LabelPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		custom map[string]string
		want   []Item
	}{
		{
			name: "static route",
			path: "/clients",
			want: []Item{Home, {Label: "Clients", Path: "/clients"}},
		},
		{
			name:   "ids are not resolved",
			path:   "/clients/42",
			custom: map[string]string{},
			want:   []Item{Home, {Label: "Clients", Path: "/clients"}, {Label: "42", Path: "/clients/42"}},
		},
		{
			name: "title case fallback",
			path: "/sales-pipeline/open-deals",
			want: []Item{Home, {Label: "Sales pipeline", Path: "/sales-pipeline"}, {Label: "Open deals", Path: "/sales-pipeline/open-deals"}},
		},
		{
			name:   "custom label wins over static",
			path:   "/clients/7",
			custom: map[string]string{"/clients": "Accounts", "/clients/7": "Acme"},
			want:   []Item{Home, {Label: "Accounts", Path: "/clients"}, {Label: "Acme", Path: "/clients/7"}},
		},
		{
			name: "empty segments dropped",
			path: "//datasources///new/",
			want: []Item{Home, {Label: "Data Sources", Path: "/datasources"}, {Label: "New", Path: "/datasources/new"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPath(tt.path, tt.custom)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FromPath(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"reports":      "Reports",
		"q3-forecast":  "Q3 forecast",
		"already-Up":   "Already Up",
		"éclair-shop":  "Éclair shop",
		"-leading":     " leading",
		"42":           "42",
		"multi--dash":  "Multi  dash",
		"snake_case_x": "Snake_case_x",
	}
	for in, want := range cases {
		assert.Equal(t, want, TitleCase(in), in)
	}
}

func TestRenderCleanAndParent(t *testing.T) {
	items := FromPath("/clients/1", nil)
	assert.Equal(t, "Home › Clients › 1", Render(items, " › "))
	assert.Equal(t, "/clients", Parent(items))
	assert.Equal(t, "/", Parent([]Item{Home}))
	assert.Equal(t, "/a/b", Clean("a//b/"))
	assert.Equal(t, "/", Clean(""))
}

func TestResolver_SampleDataResolvesClientName(t *testing.T) {
	r := SampleResolver(nil)

	got, err := r.Resolve(context.Background(), "/clients/1")
	require.NoError(t, err)
	want := []Item{Home, {Label: "Clients", Path: "/clients"}, {Label: "Tech Innovations Inc", Path: "/clients/1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_NestedPathsAndStaticSegments(t *testing.T) {
	r := NewResolver(nil)
	RegisterSamples(r, pantopia.SampleDataset())

	got, err := r.Resolve(context.Background(), "/clients/1/datasources/2/paragraphs")
	require.NoError(t, err)
	assert.Equal(t, "Home › Clients › Tech Innovations Inc › Data Sources › Annual report 2023 › Paragraphs", Render(got, " › "))

	got, err = r.Resolve(context.Background(), "/clients/new")
	require.NoError(t, err)
	assert.Equal(t, "New", got[2].Label)
}

func TestResolver_FallsBackToRawSegment(t *testing.T) {
	r := NewResolver(nil)
	var calls []string
	r.Register(Projects, ResolverFunc(func(_ context.Context, id string) (string, bool, error) {
		calls = append(calls, id)
		switch id {
		case "boom":
			return "", false, errors.New("network down")
		case "missing":
			return "", false, nil
		}
		return "Project " + id, true, nil
	}))

	got, err := r.Resolve(context.Background(), "/projects/boom")
	require.NoError(t, err)
	assert.Equal(t, "boom", got[2].Label)

	got, err = r.Resolve(context.Background(), "/projects/missing")
	require.NoError(t, err)
	assert.Equal(t, "missing", got[2].Label)

	got, err = r.Resolve(context.Background(), "/projects/9")
	require.NoError(t, err)
	assert.Equal(t, "Project 9", got[2].Label)

	// Unregistered collections title-case like FromPath.
	got, err = r.Resolve(context.Background(), "/reports/q3-summary")
	require.NoError(t, err)
	assert.Equal(t, "Q3 summary", got[2].Label)

	assert.Equal(t, []string{"boom", "missing", "9"}, calls, "no caching: every call performs its own lookup")
}

func TestResolver_LookupsRunInPathOrder(t *testing.T) {
	r := NewResolver(nil)
	var order []string
	record := func(prefix string) EntityResolver {
		return ResolverFunc(func(_ context.Context, id string) (string, bool, error) {
			order = append(order, prefix+id)
			return prefix + id, true, nil
		})
	}
	r.Register(Clients, record("c"))
	r.Register(DataSources, record("d"))

	_, err := r.Resolve(context.Background(), "/clients/1/datasources/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "d2"}, order)
}

func TestResolver_CancelledContext(t *testing.T) {
	r := NewResolver(nil)
	RegisterSamples(r, pantopia.SampleDataset())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "/clients/1")
	require.ErrorIs(t, err, context.Canceled)

	// Paths without lookups never consult the context.
	items, err := r.Resolve(ctx, "/clients")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

type fakeDirectory struct {
	pantopia.Directory
	companies map[string]pantopia.Company
	err       error
}

func (f fakeDirectory) GetCompany(_ context.Context, id string) (pantopia.Company, error) {
	if f.err != nil {
		return pantopia.Company{}, f.err
	}
	c, ok := f.companies[id]
	if !ok {
		return pantopia.Company{}, pantopia.ErrNotFound
	}
	return c, nil
}

func TestRegisterDirectory_UsesAPILookups(t *testing.T) {
	r := NewResolver(nil)
	RegisterDirectory(r, fakeDirectory{companies: map[string]pantopia.Company{"5": {ID: "5", Name: "Northwind"}}})

	got, err := r.Resolve(context.Background(), "/companies/5")
	require.NoError(t, err)
	assert.Equal(t, "Northwind", got[2].Label)

	got, err = r.Resolve(context.Background(), "/clients/404")
	require.NoError(t, err)
	assert.Equal(t, "404", got[2].Label)

	r2 := NewResolver(nil)
	RegisterDirectory(r2, fakeDirectory{err: errors.New("timeout")})
	got, err = r2.Resolve(context.Background(), "/clients/5")
	require.NoError(t, err)
	assert.Equal(t, "5", got[2].Label)
}

func TestWithLabels(t *testing.T) {
	items := FromPath("/clients/1", nil)
	got := WithLabels(items, map[string]string{"/clients": "Accounts", "/clients/1": "  "})

	want := []Item{Home, {Label: "Accounts", Path: "/clients"}, {Label: "1", Path: "/clients/1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("WithLabels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Clients", items[1].Label, "input is not modified")
}

func TestBlankLabelsIgnoredBeforeAndAfterResolve(t *testing.T) {
	labels := map[string]string{"/clients": "", "/clients/1/datasources": " "}

	static := FromPath("/clients/1/datasources", labels)
	want := []Item{
		Home,
		{Label: "Clients", Path: "/clients"},
		{Label: "1", Path: "/clients/1"},
		{Label: "Data Sources", Path: "/clients/1/datasources"},
	}
	if diff := cmp.Diff(want, static); diff != "" {
		t.Fatalf("FromPath mismatch (-want +got):\n%s", diff)
	}

	resolved, err := SampleResolver(nil).Resolve(context.Background(), "/clients/1/datasources")
	require.NoError(t, err)
	got := WithLabels(resolved, labels)
	assert.Equal(t, "Clients", got[1].Label)
	assert.Equal(t, "Data Sources", got[3].Label)
}
