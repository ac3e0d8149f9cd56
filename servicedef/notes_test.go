package servicedef

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestNoteUpdateSendsOnlyFieldsThatWereSet(t *testing.T) {
	for _, p := range []struct {
		name   string
		update NoteUpdate
		json   string
	}{
		{"empty", NoteUpdate{}, `{}`},
		{"tags", NoteUpdate{}.WithTags("important", "idea"), `{"tags":["important","idea"]}`},
		{"no tags", NoteUpdate{}.WithTags(), `{"tags":[]}`},
		{"folder", NoteUpdate{}.WithFolder("Projects"), `{"folder":"Projects"}`},
		{"no folder", NoteUpdate{}.WithoutFolder(), `{"folder":null}`},
		{"both", NoteUpdate{}.WithTags("Q1").WithFolder("Work"), `{"tags":["Q1"],"folder":"Work"}`},
	} {
		t.Run(p.name, func(t *testing.T) {
			data, err := json.Marshal(p.update)
			require.NoError(t, err)
			assert.JSONEq(t, p.json, string(data))
			assert.JSONEq(t, p.json, p.update.String())
		})
	}
}

func TestNoteUpdateDistinguishesNullFromAbsent(t *testing.T) {
	var u NoteUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"folder":null}`), &u))
	folder, set := u.Folder()
	assert.True(t, set)
	assert.False(t, folder.IsDefined())
	_, set = u.Tags()
	assert.False(t, set)
	assert.False(t, u.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`{"tags":["a"],"title":"ignored"}`), &u))
	tags, set := u.Tags()
	assert.True(t, set)
	assert.Equal(t, []string{"a"}, tags)
	_, set = u.Folder()
	assert.False(t, set)
}

func TestNoteUpdateWithTagsCopiesInput(t *testing.T) {
	tags := []string{"a", "b"}
	u := NoteUpdate{}.WithTags(tags...)
	tags[0] = "changed"
	got, _ := u.Tags()
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNoteFolder(t *testing.T) {
	var n Note
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","folder":null,"tags":["x"]}`), &n))
	assert.False(t, n.InFolder(""))
	assert.True(t, n.HasTag("x"))
	assert.False(t, n.HasTag("y"))

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","folder":"Ideas"}`), &n))
	assert.True(t, n.InFolder("Ideas"))
	assert.False(t, n.InFolder("ideas"))
}

func TestCreateNoteParamsSendsNullAudioURL(t *testing.T) {
	data, err := json.Marshal(CreateNoteParams{UserID: "u", KeyPoints: []string{}, ActionItems: []string{}, Tags: []string{}})
	require.NoError(t, err)
	v := ldvalue.Parse(data)
	assert.True(t, v.GetByKey("audioUrl").IsNull())
	assert.Equal(t, ldvalue.ArrayType, v.GetByKey("tags").Type())
	assert.Equal(t, 0, v.GetByKey("tags").Count())
}

func TestServiceStatusHasCapability(t *testing.T) {
	s := ServiceStatus{Status: StatusOK, Capabilities: []string{CapabilityCatalog}}
	assert.True(t, s.HasCapability(CapabilityCatalog))
	assert.False(t, s.HasCapability(CapabilityTagQuery))
}

func TestNoteReadsRowColumns(t *testing.T) {
	data := `{"id":"n1","user_id":"u1","title":"T","transcription":"words","summary":"S",
		"key_points":["a","b"],"action_items":[],"tags":["x"],"folder":null,"audio_url":null,
		"smartified_text":"smart","created_at":"2024-01-01T00:00:00.123456"}`
	var note Note
	require.NoError(t, json.Unmarshal([]byte(data), &note))

	assert.Equal(t, "u1", note.UserID)
	assert.Equal(t, []string{"a", "b"}, note.KeyPoints)
	assert.Equal(t, []string{}, note.ActionItems)
	assert.Equal(t, "smart", note.SmartifiedText)
	assert.False(t, note.Folder.IsDefined())
	assert.False(t, note.AudioURL.IsDefined())
	assert.Nil(t, note.CreatedAt)
}

func TestNotePrefersCamelCaseKeys(t *testing.T) {
	var note Note
	require.NoError(t, json.Unmarshal([]byte(`{"id":"n1","keyPoints":["new"],"key_points":["old"]}`), &note))
	assert.Equal(t, []string{"new"}, note.KeyPoints)

	var resp NoteResponse
	require.NoError(t, json.Unmarshal([]byte(`{"note":{"id":"n2","smartified_text":"s"}}`), &resp))
	assert.Equal(t, "n2", resp.Note.ID)
	assert.Equal(t, "s", resp.Note.SmartifiedText)
}
