package notetests

import (
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoServerSideQueryTests covers the optional parts of the API. Each part runs only if the
// service lists its capability in the health response.
func DoServerSideQueryTests(t *T) {
	t.Run("tag query", func(t *T) {
		t.RequireCapability(servicedef.CapabilityTagQuery)

		tagged := t.RequireNote("Query Tagged Note", "A note that should be returned by a tag query.")
		other := t.RequireNote("Query Other Note", "A note that should not be returned by a tag query.")
		t.RequireUpdate(tagged, servicedef.NoteUpdate{}.WithTags("standup"))
		t.RequireUpdate(other, servicedef.NoteUpdate{}.WithTags("retro"))

		notes := t.RequireList(notesapi.ListOptions{UserID: t.UserID(), Tag: "standup"})
		_, found := findNote(notes, tagged)
		assert.True(t, found, "tagged note missing from query results")
		_, found = findNote(notes, other)
		assert.False(t, found, "query results include a note without the tag")
		for _, n := range notes {
			assert.True(t, n.HasTag("standup"), "note %s returned without the tag", n.ID)
		}
	})

	t.Run("search query", func(t *T) {
		t.RequireCapability(servicedef.CapabilityTagQuery)

		match := t.RequireNote("Search Target Note", "Notes from the zeppelin hangar inspection.")
		other := t.RequireNote("Search Other Note", "Notes from an ordinary team lunch.")

		notes := t.RequireList(notesapi.ListOptions{UserID: t.UserID(), Search: "ZEPPELIN"})
		_, found := findNote(notes, match)
		assert.True(t, found, "note matching the search is missing from the results")
		_, found = findNote(notes, other)
		assert.False(t, found, "search results include a note that does not match")
	})

	t.Run("tag and folder catalogs", func(t *T) {
		t.RequireCapability(servicedef.CapabilityCatalog)

		id := t.RequireNote("Catalog Note", "A note whose tag and folder should appear in the catalogs.")
		t.RequireUpdate(id, servicedef.NoteUpdate{}.WithTags("catalogued").WithFolder("Catalog"))

		tags, err := t.Client().ListTags(t.Context(), t.UserID())
		require.NoError(t, err, "failed to fetch tags")
		var tagNames []string
		for _, tag := range tags {
			tagNames = append(tagNames, tag.Name)
		}
		assert.Contains(t, tagNames, "catalogued")

		folders, err := t.Client().ListFolders(t.Context(), t.UserID())
		require.NoError(t, err, "failed to fetch folders")
		var folderNames []string
		for _, f := range folders {
			folderNames = append(folderNames, f.Name)
		}
		assert.Contains(t, folderNames, "Catalog")
	})
}
