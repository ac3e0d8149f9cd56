package notetests

import (
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoCombinedTagsAndFoldersTests writes tags and folder in a single update. It only checks
// that both fields land; DoPartialUpdateTests covers the fields an update leaves out.
func DoCombinedTagsAndFoldersTests(t *T) {
	id := t.RequireNote(
		"Project Planning Meeting",
		"Discussion about Q1 project planning, budget allocation, and team assignments.",
	)

	tags := []string{"meeting", "planning", "Q1"}
	t.RequireUpdate(id, servicedef.NoteUpdate{}.WithTags(tags...).WithFolder("Work"))

	note := t.RequireFetch(id)
	AssertSameTags(t, tags, note.Tags)
	assert.True(t, note.InFolder("Work"), "expected folder %q, got %s", "Work", note.Folder.AsValue().JSONString())
}

func DoPartialUpdateTests(t *T) {
	title := "Partial Update Note"
	transcription := "This note checks that an update only changes the fields it sends."

	t.Run("tags update keeps content and folder", func(t *T) {
		id := t.RequireNote(title, transcription)
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithFolder("Archive"))
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithTags("kept"))

		note := t.RequireFetch(id)
		assertContentUnchanged(t, t.env.fixtures.Params(title, transcription), note)
		assert.True(t, note.InFolder("Archive"), "folder was lost by a tags-only update")
		AssertSameTags(t, []string{"kept"}, note.Tags)
	})

	t.Run("folder update keeps content and tags", func(t *T) {
		id := t.RequireNote(title, transcription)
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithTags("first", "second"))
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithFolder("Archive"))

		note := t.RequireFetch(id)
		assertContentUnchanged(t, t.env.fixtures.Params(title, transcription), note)
		AssertSameTags(t, []string{"first", "second"}, note.Tags, "tags were changed by a folder-only update")
	})

	t.Run("removing folder", func(t *T) {
		id := t.RequireNote(title, transcription)
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithFolder("Archive"))
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithoutFolder())

		note := t.RequireFetch(id)
		assert.False(t, note.Folder.IsDefined(), "folder is still %q", note.Folder.StringValue())
	})
}

func assertContentUnchanged(t *T, created servicedef.CreateNoteParams, note servicedef.Note) {
	require.Equal(t, created.Title, note.Title, "title changed")
	assert.Equal(t, created.Transcription, note.Transcription, "transcription changed")
	assert.Equal(t, created.Summary, note.Summary, "summary changed")
	assert.Equal(t, created.KeyPoints, note.KeyPoints, "key points changed")
	assert.Equal(t, created.SmartifiedText, note.SmartifiedText, "smartified text changed")
}
