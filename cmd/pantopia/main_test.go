package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/mockapi"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

func newMockClient(t *testing.T, opts mockapi.Options) *pantopia.Client {
	t.Helper()
	ts := httptest.NewServer(mockapi.New(opts).Handler())
	t.Cleanup(ts.Close)

	client, err := pantopia.NewClient(ts.URL + mockapi.APIPrefix)
	require.NoError(t, err)
	return client
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCrumbs_StaticTrail(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	out, err := execute(t, "--prefs", prefsPath, "crumbs", "/clients/1/datasources/2")
	require.NoError(t, err)
	assert.Equal(t, "Home › Clients › 1 › Data Sources › 2\n", out)
}

func TestCrumbs_SampleNamesAndLabels(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	out, err := execute(t, "--prefs", prefsPath, "crumbs", "/clients/1",
		"--sample", "--label", "/clients=Accounts")
	require.NoError(t, err)
	assert.Equal(t, "Home › Accounts › Tech Innovations Inc\n", out)
}

func TestCrumbs_Paths(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	out, err := execute(t, "--prefs", prefsPath, "crumbs", "/briefs", "--paths")
	require.NoError(t, err)
	assert.Equal(t, "/\tHome\n/briefs\tBriefs\n", out)
}

func TestCrumbs_RequiresPath(t *testing.T) {
	_, err := execute(t, "crumbs")
	assert.Error(t, err)
}

func TestListResource_RendersTable(t *testing.T) {
	client := newMockClient(t, mockapi.Options{})

	var out bytes.Buffer
	var companies resource
	for _, r := range resources() {
		if r.name == "companies" {
			companies = r
		}
	}
	require.NoError(t, listResource(context.Background(), &out, client, companies, nil))

	assert.Contains(t, out.String(), "Tech Innovations Inc")
	assert.Contains(t, out.String(), "(4 companies)")
}

func TestListResource_DataSourcesOfCompany(t *testing.T) {
	client := newMockClient(t, mockapi.Options{})

	var out bytes.Buffer
	r := resources()[len(resources())-1]
	require.Equal(t, "datasources", r.name)
	require.NoError(t, listResource(context.Background(), &out, client, r, []string{"1"}))

	assert.Contains(t, out.String(), "annual-report-2023.pdf")
	assert.Contains(t, out.String(), "(3 datasources)")

	out.Reset()
	require.NoError(t, listResource(context.Background(), &out, client, r, []string{"99"}))
	assert.Equal(t, "No datasources.\n", out.String())
}

func TestRunProcess_FollowsToProcessed(t *testing.T) {
	client := newMockClient(t, mockapi.Options{StepEvery: 1})

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd.SetContext(ctx)

	cfg := processing.Config{PollInterval: 5 * time.Millisecond, MaxFailures: 3, MaxBackoff: 20 * time.Millisecond}
	require.NoError(t, runProcess(cmd, client, "1", cfg, zap.NewNop()))

	got := out.String()
	assert.Contains(t, got, "Company website (website) is Not extracted")
	assert.Contains(t, got, "submitting")
	assert.Contains(t, got, "processed")
	assert.Contains(t, got, "2 paragraphs extracted")
}

func TestRunProcess_StalledExitsWithError(t *testing.T) {
	srv := mockapi.New(mockapi.Options{StepEvery: 1})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client, err := pantopia.NewClient(ts.URL + mockapi.APIPrefix)
	require.NoError(t, err)
	srv.FailStatusCalls(10)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	cfg := processing.Config{PollInterval: 5 * time.Millisecond, MaxFailures: 2, MaxBackoff: 10 * time.Millisecond}
	err = runProcess(cmd, client, "3", cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stalled")
	assert.Contains(t, out.String(), "stalled")
}
