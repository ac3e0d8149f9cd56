package notetests

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/foundernote/notes-contract-tests/framework"
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T represents a scenario or sub-scenario in the notes API test suite.
//
// It implements the same basic functionality as Go's testing.T, but outside of the Go test
// runner; those features come from the lower-level framework package. On top of that it
// gives scenarios access to the API client and to the shared note fixtures, so every note a
// scenario creates is deleted at the end of the run whatever the scenario's outcome.
//
// To make assertions, use the assert and require packages, passing the *T as if it were a
// *testing.T. The Require methods fail the scenario and stop it immediately if a request
// does not succeed, which is how a scenario "returns early" after a failed step.
type T struct {
	scope *framework.Context
	env   *environment
}

type environment struct {
	ctx      context.Context
	client   *notesapi.Client
	fixtures *NoteFixtures
	logger   *slog.Logger
	status   *servicedef.ServiceStatus
}

// Errorf is called by assertions to log a failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.scope.Errorf(format, args...)
}

// FailNow is called by assertions when the scenario should fail and exit immediately. The
// methods in the require package call FailNow.
func (t *T) FailNow() {
	t.scope.FailNow()
}

// Run runs a sub-scenario. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.scope.Run(name, func(c *framework.Context) {
		action(&T{scope: c, env: t.env})
	})
}

// Debug logs some debug output for the scenario. The output will be passed to the test
// logger at the end of the scenario.
func (t *T) Debug(format string, args ...interface{}) {
	t.scope.Debug(format, args...)
}

func (t *T) ID() framework.TestID {
	return t.scope.ID()
}

// Context is the context for every request made by the scenario.
func (t *T) Context() context.Context {
	return t.env.ctx
}

func (t *T) Client() *notesapi.Client {
	return t.env.client
}

// UserID is the fixed user that owns every note created by the suite.
func (t *T) UserID() string {
	return t.env.fixtures.UserID()
}

// RequireCapability skips this scenario if the service did not declare that it supports
// the specified capability in its health response.
func (t *T) RequireCapability(capability string) {
	if !t.env.serviceStatus().HasCapability(capability) {
		t.scope.SkipWithReason(fmt.Sprintf("service does not have capability %q", capability))
	}
}

// RequireNote creates a note with placeholder content and returns its id. The scenario
// fails and exits immediately if the note could not be created.
func (t *T) RequireNote(title, transcription string) string {
	id, err := t.env.fixtures.Create(t.Context(), title, transcription)
	require.NoError(t, err, "failed to create note %q", title)
	t.Debug("created note %q with id %s", title, id)
	return id
}

// RequireUpdate sends a partial update, failing the scenario if it is rejected.
func (t *T) RequireUpdate(id string, update servicedef.NoteUpdate) {
	t.Debug("updating note %s with %s", id, update)
	_, err := t.Client().UpdateNote(t.Context(), id, update)
	require.NoError(t, err, "failed to update note %s", id)
}

// RequireFetch reads one note by id, failing the scenario if it cannot be read.
func (t *T) RequireFetch(id string) servicedef.Note {
	note, err := t.Client().GetNote(t.Context(), id)
	require.NoError(t, err, "failed to fetch note %s", id)
	return note
}

// RequireList reads the notes listing, failing the scenario if it cannot be read.
func (t *T) RequireList(opts notesapi.ListOptions) []servicedef.Note {
	notes, err := t.Client().ListNotes(t.Context(), opts)
	require.NoError(t, err, "failed to fetch notes")
	t.Debug("listing returned %d notes", len(notes))
	return notes
}

// RequireListed finds a note in a listing, failing the scenario if it is not there.
func (t *T) RequireListed(notes []servicedef.Note, id string) servicedef.Note {
	note, ok := findNote(notes, id)
	require.True(t, ok, "note %s not found in listing for user %s", id, t.UserID())
	return note
}

func (e *environment) serviceStatus() servicedef.ServiceStatus {
	if e.status == nil {
		status, err := e.client.Health(e.ctx)
		if err != nil {
			e.logger.Warn("could not read service capabilities", "error", err)
		}
		e.status = &status
	}
	return *e.status
}

// AssertSameTags compares tags as sets: order and duplicates are ignored.
func AssertSameTags(t assert.TestingT, expected, actual []string, msgAndArgs ...interface{}) bool {
	if len(msgAndArgs) == 0 {
		msgAndArgs = []interface{}{"tags did not persist as written (order ignored)"}
	}
	return assert.Equal(t, tagSet(expected), tagSet(actual), msgAndArgs...)
}

func tagSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	ret := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			ret = append(ret, tag)
		}
	}
	sort.Strings(ret)
	return ret
}

func findNote(notes []servicedef.Note, id string) (servicedef.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return servicedef.Note{}, false
}

// notesInFolder filters a listing client-side. Notes with no folder are never included.
func notesInFolder(notes []servicedef.Note, folder string) []servicedef.Note {
	var ret []servicedef.Note
	for _, n := range notes {
		if n.InFolder(folder) {
			ret = append(ret, n)
		}
	}
	return ret
}
