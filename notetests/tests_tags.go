package notetests

import (
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

func DoTagPersistenceTests(t *T) {
	id := t.RequireNote(
		"Tag Test Note",
		"This is a test note for tag functionality. It contains important ideas and meeting notes.",
	)

	tags := []string{"important", "idea"}
	t.RequireUpdate(id, servicedef.NoteUpdate{}.WithTags(tags...))

	note := t.RequireFetch(id)
	t.Debug("fetched tags: %v", note.Tags)
	AssertSameTags(t, tags, note.Tags)
}

// DoTagsFilterTests tags one of two notes, then checks the tag by looking at the full
// listing for the user. The listing is not filtered by the service.
func DoTagsFilterTests(t *T) {
	tagged := t.RequireNote(
		"Meeting Note",
		"This is a meeting note about quarterly planning and budget discussions.",
	)
	untagged := t.RequireNote(
		"Random Idea",
		"This is just a random idea about product features and user experience.",
	)

	t.RequireUpdate(tagged, servicedef.NoteUpdate{}.WithTags("meeting"))

	notes := t.RequireList(notesapi.ListOptions{UserID: t.UserID()})
	n1 := t.RequireListed(notes, tagged)
	n2 := t.RequireListed(notes, untagged)

	assert.True(t, n1.HasTag("meeting"), "tagged note is missing its tag; has %v", n1.Tags)
	assert.False(t, n2.HasTag("meeting"), "untagged note has the tag; has %v", n2.Tags)
}
