package notetests

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/foundernote/notes-contract-tests/mockservice"
	"github.com/foundernote/notes-contract-tests/notesapi"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockFixtures(action func(*NoteFixtures, *mockservice.Service), opts ...mockservice.Option) {
	svc := mockservice.New(append([]mockservice.Option{mockservice.WithLogger(discardLogger())}, opts...)...)
	httphelpers.WithServer(svc.Handler(), func(server *httptest.Server) {
		action(NewNoteFixtures(notesapi.NewClient(server.URL), "", discardLogger()), svc)
	})
}

func TestParamsUsePlaceholderContent(t *testing.T) {
	f := NewNoteFixtures(nil, "", nil)
	p := f.Params("Tag Test Note", "Some words.")

	assert.Equal(t, DefaultUserID, p.UserID)
	assert.Equal(t, "Tag Test Note", p.Title)
	assert.Equal(t, "Some words.", p.Transcription)
	assert.Equal(t, "Test summary for Tag Test Note", p.Summary)
	assert.Equal(t, []string{"Key point 1 for Tag Test Note", "Key point 2 for Tag Test Note"}, p.KeyPoints)
	assert.Equal(t, []string{}, p.ActionItems)
	assert.Equal(t, []string{}, p.Tags)
	assert.False(t, p.AudioURL.IsDefined())
	assert.Equal(t, "Smartified version of Some words.", p.SmartifiedText)
}

func TestCreateRecordsNotesForCleanup(t *testing.T) {
	withMockFixtures(func(f *NoteFixtures, svc *mockservice.Service) {
		ctx := context.Background()
		var ids []string
		for _, title := range []string{"one", "two", "three"} {
			id, err := f.Create(ctx, title, "words")
			require.NoError(t, err)
			ids = append(ids, id)
		}
		assert.Equal(t, ids, f.Created())

		assert.Empty(t, f.Cleanup(ctx))
		assert.Empty(t, f.Created())
		assert.Equal(t, 0, svc.NoteCount())

		var deleted []string
		for _, r := range svc.Requests() {
			if r.Method == "DELETE" {
				deleted = append(deleted, r.Path)
			}
		}
		assert.Equal(t, []string{"/notes/" + ids[0], "/notes/" + ids[1], "/notes/" + ids[2]}, deleted)
	})
}

func TestCreateFailureReturnsNoID(t *testing.T) {
	var logBuf bytes.Buffer
	body := []byte(`{"error":"database unavailable"}`)
	handler := httphelpers.HandlerWithResponse(500, map[string][]string{"Content-Type": {"application/json"}}, body)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		f := NewNoteFixtures(notesapi.NewClient(server.URL), "u1", slog.New(slog.NewTextHandler(&logBuf, nil)))
		id, err := f.Create(context.Background(), "title", "words")
		assert.Error(t, err)
		assert.Equal(t, "", id)
		assert.Empty(t, f.Created())
	})
	assert.Contains(t, logBuf.String(), "database unavailable")
}

func TestCleanupReportsLeftoversOnce(t *testing.T) {
	withMockFixtures(func(f *NoteFixtures, svc *mockservice.Service) {
		ctx := context.Background()
		id, err := f.Create(ctx, "title", "words")
		require.NoError(t, err)

		assert.Equal(t, []string{id}, f.Cleanup(ctx))
		assert.Empty(t, f.Cleanup(ctx))
		assert.Equal(t, 1, svc.NoteCount())
	}, mockservice.WithBehavior(mockservice.Behavior{FailDeletes: true}))
}

func TestCleanupRecoversFromPanics(t *testing.T) {
	f := NewNoteFixtures(nil, "", discardLogger())
	f.created = []string{"a", "b"}
	assert.Equal(t, []string{"a", "b"}, f.Cleanup(context.Background()))
}

func TestAssertSameTagsIgnoresOrderAndDuplicates(t *testing.T) {
	var failures failureCounter
	assert.True(t, AssertSameTags(&failures, []string{"important", "idea"}, []string{"idea", "important", "idea"}))
	assert.Equal(t, 0, int(failures))
	assert.False(t, AssertSameTags(&failures, []string{"important", "idea"}, []string{"important"}))
	assert.Equal(t, 1, int(failures))
	assert.Equal(t, []string{}, tagSet(nil))
}

type failureCounter int

func (f *failureCounter) Errorf(format string, args ...interface{}) {
	*f++
}
