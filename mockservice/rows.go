package mockservice

import (
	"time"

	"github.com/foundernote/notes-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type noteEnvelope struct {
	Success bool        `json:"success,omitempty"`
	Note    interface{} `json:"note"`
}

// noteRow is a note the way a database-backed service returns it: every column, named in
// snake_case, with timestamps that carry no time zone.
type noteRow struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	Title          string                 `json:"title"`
	Transcription  string                 `json:"transcription"`
	Summary        string                 `json:"summary"`
	KeyPoints      []string               `json:"key_points"`
	ActionItems    []string               `json:"action_items"`
	Tags           []string               `json:"tags"`
	Folder         ldvalue.OptionalString `json:"folder"`
	AudioURL       ldvalue.OptionalString `json:"audio_url"`
	SmartifiedText string                 `json:"smartified_text"`
	Starred        bool                   `json:"starred"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

const rowTimeFormat = "2006-01-02T15:04:05.999999"

func newNoteRow(note servicedef.Note) noteRow {
	return noteRow{
		ID:             note.ID,
		UserID:         note.UserID,
		Title:          note.Title,
		Transcription:  note.Transcription,
		Summary:        note.Summary,
		KeyPoints:      note.KeyPoints,
		ActionItems:    note.ActionItems,
		Tags:           note.Tags,
		Folder:         note.Folder,
		AudioURL:       note.AudioURL,
		SmartifiedText: note.SmartifiedText,
		Starred:        note.Starred,
		CreatedAt:      rowTime(note.CreatedAt),
		UpdatedAt:      rowTime(note.UpdatedAt),
	}
}

func rowTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(rowTimeFormat)
}
