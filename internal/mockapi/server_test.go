package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }
func (s staticToken) ClearToken() error      { return nil }

func newTestServer(t *testing.T, opts Options) (*Server, *pantopia.Client) {
	t.Helper()
	srv := New(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := pantopia.NewClient(ts.URL+APIPrefix, pantopia.WithTokens(staticToken(opts.Token)))
	require.NoError(t, err)
	return srv, client
}

func TestServer_ServesSampleDirectory(t *testing.T) {
	_, client := newTestServer(t, Options{})
	ctx := context.Background()

	companies, err := client.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 4)

	company, err := client.GetCompany(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Tech Innovations Inc", company.Name)

	sources, err := client.ListDataSources(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, sources, 3)

	paragraphs, err := client.ListParagraphs(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, paragraphs, 3)

	_, err = client.GetContact(ctx, "999")
	assert.ErrorIs(t, err, pantopia.ErrNotFound)
}

func TestServer_RequiresConfiguredToken(t *testing.T) {
	srv := New(Options{Token: "dev"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var loginURL string
	bad, err := pantopia.NewClient(ts.URL+APIPrefix,
		pantopia.WithTokens(staticToken("wrong")),
		pantopia.OnUnauthorized(func(u string) { loginURL = u }))
	require.NoError(t, err)

	_, err = bad.ListCompanies(context.Background())
	require.ErrorIs(t, err, pantopia.ErrUnauthorized)
	assert.Equal(t, ts.URL+"/login", loginURL)

	good, err := pantopia.NewClient(ts.URL+APIPrefix, pantopia.WithTokens(staticToken("dev")))
	require.NoError(t, err)
	_, err = good.ListCompanies(context.Background())
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/login")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_SimulatesExtraction(t *testing.T) {
	srv, client := newTestServer(t, Options{StepEvery: 1})
	ctx := context.Background()

	require.NoError(t, client.ProcessDataSource(ctx, "1"))
	err := client.ProcessDataSource(ctx, "1")
	var apiErr *pantopia.APIError
	require.True(t, errors.As(err, &apiErr), "second submit should conflict, got %v", err)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	var seen []pantopia.Status
	for i := 0; i < 3; i++ {
		status, err := client.ProcessingStatus(ctx, "1")
		require.NoError(t, err)
		seen = append(seen, status)
	}
	assert.Equal(t, []pantopia.Status{pantopia.StatusExtracting, pantopia.StatusProcessed, pantopia.StatusProcessed}, seen)

	ds, ok := srv.DataSource("1")
	require.True(t, ok)
	assert.Equal(t, pantopia.StatusProcessed, ds.Status)

	paragraphs, err := client.ListParagraphs(ctx, "1")
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)
	assert.Contains(t, paragraphs[0].Body, "<h2>", "website sources yield HTML bodies")

	// Reprocessing replaces the generated paragraphs.
	require.NoError(t, client.ProcessDataSource(ctx, "1"))
	paragraphs, err = client.ListParagraphs(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, paragraphs)
}

func TestServer_BriefLifecycle(t *testing.T) {
	_, client := newTestServer(t, Options{})
	ctx := context.Background()

	updated, err := client.UpdateBriefStatus(ctx, "2", pantopia.BriefInProgress)
	require.NoError(t, err)
	assert.Equal(t, pantopia.BriefInProgress, updated.Status)

	_, err = client.UpdateBriefStatus(ctx, "2", pantopia.BriefComplete)
	var transition *pantopia.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
}

func TestMachineAgainstMockAPI(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := New(Options{StepEvery: 2})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client, err := pantopia.NewClient(ts.URL + APIPrefix)
	require.NoError(t, err)
	srv.FailStatusCalls(1)

	completed := make(chan struct{}, 1)
	m := processing.New(client, "3",
		processing.WithConfig(processing.Config{PollInterval: 5 * time.Millisecond, MaxFailures: 3, MaxBackoff: 20 * time.Millisecond}),
		processing.OnComplete(func() { completed <- struct{}{} }))

	require.NoError(t, m.Start(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	final, err := m.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, processing.Processed, final.State)
	assert.Equal(t, 100, final.Progress)
	select {
	case <-completed:
	default:
		t.Fatal("OnComplete did not fire")
	}

	paragraphs, err := client.ListParagraphs(context.Background(), "3")
	require.NoError(t, err)
	assert.Len(t, paragraphs, 2)
}

func TestResolverAgainstMockAPI(t *testing.T) {
	_, client := newTestServer(t, Options{})
	r := breadcrumb.NewResolver(nil)
	breadcrumb.RegisterDirectory(r, client)

	items, err := r.Resolve(context.Background(), "/clients/1/datasources/2")
	require.NoError(t, err)
	assert.Equal(t, "Home › Clients › Tech Innovations Inc › Data Sources › Annual report 2023", breadcrumb.Render(items, " › "))

	items, err = r.Resolve(context.Background(), "/projects/42")
	require.NoError(t, err)
	assert.Equal(t, "42", items[2].Label)
}
