package notetests

import (
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoFolderPersistenceTests(t *T) {
	id := t.RequireNote(
		"Folder Test Note",
		"This is a test note for folder functionality. It should be organized in the Projects folder.",
	)

	t.RequireUpdate(id, servicedef.NoteUpdate{}.WithFolder("Projects"))

	note := t.RequireFetch(id)
	require.True(t, note.Folder.IsDefined(), "folder was not saved")
	assert.Equal(t, "Projects", note.Folder.StringValue())
}

// DoFolderAssignmentTests checks that a note shows up when the user's listing is filtered
// by folder on this side.
func DoFolderAssignmentTests(t *T) {
	id := t.RequireNote(
		"Innovation Idea",
		"This is an innovative idea about AI-powered note-taking and organization.",
	)

	t.RequireUpdate(id, servicedef.NoteUpdate{}.WithFolder("Ideas"))

	notes := t.RequireList(notesapi.ListOptions{UserID: t.UserID()})
	inFolder := notesInFolder(notes, "Ideas")
	t.Debug("%d of %d notes are in folder Ideas", len(inFolder), len(notes))

	_, found := findNote(inFolder, id)
	assert.True(t, found, "note %s is not in folder Ideas", id)
}
