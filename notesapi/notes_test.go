package notesapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteReturnsStoredNote(t *testing.T) {
	body := []byte(`{"success":true,"note":{"id":"n1","title":"Hello","tags":[],"folder":null}}`)
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithResponse(200, jsonHeaders(), body))
	withClient(handler, func(c *Client) {
		note, err := c.CreateNote(context.Background(), servicedef.CreateNoteParams{
			UserID:        "u1",
			Title:         "Hello",
			Transcription: "hello world",
			KeyPoints:     []string{},
			ActionItems:   []string{},
			Tags:          []string{},
		})
		require.NoError(t, err)
		assert.Equal(t, "n1", note.ID)
		assert.False(t, note.Folder.IsDefined())

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/notes", r.Request.URL.Path)
		var sent map[string]interface{}
		require.NoError(t, json.Unmarshal(r.Body, &sent))
		assert.Equal(t, "u1", sent["userId"])
		assert.Contains(t, sent, "audioUrl")
		assert.Nil(t, sent["audioUrl"])
		assert.Equal(t, []interface{}{}, sent["tags"])
	})
}

func TestCreateNoteRequiresSuccessFlag(t *testing.T) {
	body := []byte(`{"success":false,"note":{"id":"n1"}}`)
	withClient(httphelpers.HandlerWithResponse(200, jsonHeaders(), body), func(c *Client) {
		_, err := c.CreateNote(context.Background(), servicedef.CreateNoteParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did not report success")
	})
}

func TestCreateNoteRequiresID(t *testing.T) {
	body := []byte(`{"success":true,"note":{"title":"x"}}`)
	withClient(httphelpers.HandlerWithResponse(201, jsonHeaders(), body), func(c *Client) {
		_, err := c.CreateNote(context.Background(), servicedef.CreateNoteParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did not assign an id")
	})
}

func TestCreateNoteErrorStatus(t *testing.T) {
	body := []byte(`{"error":"transcription required"}`)
	withClient(httphelpers.HandlerWithResponse(400, jsonHeaders(), body), func(c *Client) {
		_, err := c.CreateNote(context.Background(), servicedef.CreateNoteParams{})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 400, se.StatusCode)
		assert.Contains(t, err.Error(), "transcription required")
	})
}

func TestGetNoteEscapesID(t *testing.T) {
	body := []byte(`{"note":{"id":"a/b","tags":["x"],"folder":"Work"}}`)
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithResponse(200, jsonHeaders(), body))
	withClient(handler, func(c *Client) {
		note, err := c.GetNote(context.Background(), "a/b")
		require.NoError(t, err)
		assert.True(t, note.InFolder("Work"))
		assert.Equal(t, []string{"x"}, note.Tags)

		r := <-requestsCh
		assert.Equal(t, "/notes/a%2Fb", r.Request.URL.EscapedPath())
	})
}

func TestUpdateNoteAcceptsEmptyBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	withClient(handler, func(c *Client) {
		note, err := c.UpdateNote(context.Background(), "n1", servicedef.NoteUpdate{}.WithTags("important", "idea"))
		require.NoError(t, err)
		assert.Equal(t, servicedef.Note{}, note)

		r := <-requestsCh
		assert.Equal(t, "PUT", r.Request.Method)
		assert.JSONEq(t, `{"tags":["important","idea"]}`, string(r.Body))
	})
}

func TestUpdateNoteReturnsEchoedNote(t *testing.T) {
	body := []byte(`{"success":true,"note":{"id":"n1","folder":"Projects"}}`)
	withClient(httphelpers.HandlerWithResponse(200, jsonHeaders(), body), func(c *Client) {
		note, err := c.UpdateNote(context.Background(), "n1", servicedef.NoteUpdate{}.WithFolder("Projects"))
		require.NoError(t, err)
		assert.True(t, note.InFolder("Projects"))
	})
}

func TestListNotesSendsQuery(t *testing.T) {
	body := []byte(`{"notes":[{"id":"a","tags":["meeting"]},{"id":"b","tags":[]}]}`)
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithResponse(200, jsonHeaders(), body))
	withClient(handler, func(c *Client) {
		notes, err := c.ListNotes(context.Background(), ListOptions{UserID: "u1", Tag: "meeting"})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.True(t, notes[0].HasTag("meeting"))
		assert.False(t, notes[1].HasTag("meeting"))

		r := <-requestsCh
		assert.Equal(t, "u1", r.Request.URL.Query().Get("userId"))
		assert.Equal(t, "meeting", r.Request.URL.Query().Get("tag"))
		assert.False(t, r.Request.URL.Query().Has("search"))
	})
}

func TestDeleteNote(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(200),
		httphelpers.HandlerWithStatus(500),
	)
	withClient(handler, func(c *Client) {
		assert.NoError(t, c.DeleteNote(context.Background(), "n1"))
		assert.Error(t, c.DeleteNote(context.Background(), "n1"))
	})
}
