package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/importer"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
)

// useSQLite points the CLI at a fresh store file for the test.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ACTIVITY_ACTOR", "jorge")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "dirtboard %v", args)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRootCmd_Commands(t *testing.T) {
	want := []string{
		"list", "get", "find-parcel", "add", "update", "disqualify", "qualify",
		"add-contact", "log", "needs-validation", "stats", "import", "migrate", "bootstrap-rls",
	}
	root := newRootCmd()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
		assert.NotEmpty(t, cmd.Short, cmd.Name())
	}
	assert.Subset(t, names, want)
}

func TestPropertyCommands(t *testing.T) {
	useSQLite(t)

	p := mustRun[models.Property](t, "add", `{"parcel_id":"02-10-26","county":"Putnam","owner_name":"LAIESKI JOHN EST"}`)
	assert.Equal(t, models.StatusNew, p.Status)
	assert.Equal(t, 1, p.PipelineStage)

	got := mustRun[models.Property](t, "get", p.ID)
	assert.Equal(t, p.ID, got.ID)

	found := mustRun[models.Property](t, "find-parcel", "02-10-26")
	assert.Equal(t, p.ID, found.ID)

	out, err := run(t, "find-parcel", "99-99-99")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	updated := mustRun[models.Property](t, "update", p.ID, `{"status":"qualified","pipeline_stage":9}`)
	assert.Equal(t, models.StatusQualified, updated.Status)

	needs := mustRun[[]models.Property](t, "needs-validation")
	require.Len(t, needs, 1)
	assert.Equal(t, p.ID, needs[0].ID)

	dq := mustRun[models.Property](t, "disqualify", p.ID, "flood_zone", "mostly", "AE")
	assert.Equal(t, models.StatusDisqualified, dq.Status)
	assert.Equal(t, models.ReasonFloodZone, *dq.DisqualificationReason)
	assert.Equal(t, "mostly AE", *dq.DisqualificationNotes)
	assert.Equal(t, 0, dq.PipelineStage)

	_, err = run(t, "disqualify", p.ID, "haunted")
	assert.ErrorIs(t, err, pipeline.ErrInvalidReason)

	assert.Empty(t, mustRun[[]models.Property](t, "list"))
	assert.Len(t, mustRun[[]models.Property](t, "list", "--all"), 1)
	assert.Len(t, mustRun[[]models.Property](t, "list", "--search", "laieski", "--all"), 1)

	q := mustRun[models.Property](t, "qualify", p.ID)
	assert.Equal(t, models.StatusQualified, q.Status)
	assert.Nil(t, q.DisqualificationReason)

	stats := mustRun[pipeline.Stats](t, "stats")
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Qualified)

	_, err = run(t, "add", `{"parcel_id":`)
	assert.ErrorContains(t, err, "invalid property JSON")
}

func TestRecordCommands(t *testing.T) {
	useSQLite(t)
	p := mustRun[models.Property](t, "add", `{"parcel_id":"7","county":"Clay","owner_name":"Ann"}`)

	contact := mustRun[models.Contact](t, "add-contact", p.ID, "phone", "386-555-0100")
	assert.Equal(t, "primary", *contact.Label)
	assert.Equal(t, "skip_trace", *contact.Source)

	heir := mustRun[models.Contact](t, "add-contact", p.ID, "mailing_address", "Bob\n1 Elm St", "heir", "--source", "probate_file")
	assert.Equal(t, "heir", *heir.Label)
	assert.Equal(t, "probate_file", *heir.Source)

	_, err := run(t, "add-contact", p.ID, "fax", "1")
	assert.Error(t, err)

	a := mustRun[models.Activity](t, "log", p.ID, "checked", "appraiser", "site")
	assert.Equal(t, models.ActivityResearch, a.ActivityType)
	assert.Equal(t, "checked appraiser site", *a.Notes)
	assert.Equal(t, "jorge", a.CreatedBy)

	call := mustRun[models.Activity](t, "log", p.ID, "no", "answer", "--type", "call", "--by", "sam")
	assert.Equal(t, models.ActivityCall, call.ActivityType)
	assert.Equal(t, "sam", call.CreatedBy)
}

func TestAdminCommands(t *testing.T) {
	useSQLite(t)

	status := mustRun[SchemaStatus](t, "migrate")
	assert.Equal(t, "sqlite", status.Store)
	assert.Positive(t, status.Version)

	_, err := run(t, "bootstrap-rls")
	assert.ErrorIs(t, err, database.ErrRLSUnsupported)

	csv := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(csv, []byte("Parcel_ID,Owner_Name,Status,Contact_Email\nA,Ann,Qualified,ann@example.com\nB,,New,\n"), 0o600))

	res := mustRun[importer.Result](t, "import", csv)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.ContactsAdded)

	again := mustRun[importer.Result](t, "import", csv)
	assert.Equal(t, 1, again.Imported)
	assert.Zero(t, again.ContactsAdded)

	_, err = run(t, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSetup_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := run(t, "list")
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
