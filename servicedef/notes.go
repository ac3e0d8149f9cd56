// Package servicedef defines the JSON shapes exchanged with the notes API.
package servicedef

import (
	"encoding/json"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// StatusOK is the value of ServiceStatus.Status when the service is operational.
const StatusOK = "ok"

// Capabilities a service may advertise in its health response. The core scenarios never
// depend on them; extra scenarios are skipped when the capability is missing.
const (
	CapabilityTagQuery = "tag-query"
	CapabilityCatalog  = "catalog"
)

// AllCapabilities lists every capability some scenario can use.
var AllCapabilities = []string{
	CapabilityTagQuery,
	CapabilityCatalog,
}

// ServiceStatus is the body of GET /health.
type ServiceStatus struct {
	Status       string   `json:"status"`
	Message      string   `json:"message,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

func (s ServiceStatus) HasCapability(desired string) bool {
	for _, c := range s.Capabilities {
		if c == desired {
			return true
		}
	}
	return false
}

// Note is a note as returned by the service.
type Note struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"userId,omitempty"`
	Title          string                 `json:"title"`
	Transcription  string                 `json:"transcription"`
	Summary        string                 `json:"summary"`
	KeyPoints      []string               `json:"keyPoints"`
	ActionItems    []string               `json:"actionItems"`
	Tags           []string               `json:"tags"`
	Folder         ldvalue.OptionalString `json:"folder"`
	AudioURL       ldvalue.OptionalString `json:"audioUrl"`
	SmartifiedText string                 `json:"smartifiedText"`
	Starred        bool                   `json:"starred,omitempty"`
	CreatedAt      *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time             `json:"updatedAt,omitempty"`
}

// rowColumns maps the column names of a stored note row to the keys used by Note. Services
// that return database rows as-is send these instead of the camelCase keys. Timestamps are
// only read from the camelCase keys, since row timestamps may have no time zone.
var rowColumns = map[string]string{
	"user_id":         "userId",
	"key_points":      "keyPoints",
	"action_items":    "actionItems",
	"audio_url":       "audioUrl",
	"smartified_text": "smartifiedText",
}

// UnmarshalJSON reads a note in either shape. If both the camelCase key and the row column
// are present, the camelCase key wins.
func (n *Note) UnmarshalJSON(data []byte) error {
	type noteFields Note
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}
	for column, key := range rowColumns {
		if raw, ok := fields[column]; ok {
			if _, dup := fields[key]; !dup {
				fields[key] = raw
			}
			delete(fields, column)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var ret noteFields
	if err := json.Unmarshal(normalized, &ret); err != nil {
		return err
	}
	*n = Note(ret)
	return nil
}

// HasTag reports whether tag is one of the note's tags.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InFolder reports whether the note's folder is exactly name. A note with no folder is in
// no folder, including the empty-named one.
func (n Note) InFolder(name string) bool {
	return n.Folder.IsDefined() && n.Folder.StringValue() == name
}

// CreateNoteParams is the body of POST /notes. Every field is sent, including empty
// lists and a null audioUrl.
type CreateNoteParams struct {
	UserID         string                 `json:"userId"`
	Title          string                 `json:"title"`
	Transcription  string                 `json:"transcription"`
	Summary        string                 `json:"summary"`
	KeyPoints      []string               `json:"keyPoints"`
	ActionItems    []string               `json:"actionItems"`
	Tags           []string               `json:"tags"`
	AudioURL       ldvalue.OptionalString `json:"audioUrl"`
	SmartifiedText string                 `json:"smartifiedText"`
}

// NoteUpdate is the body of a partial PUT /notes/{id}. Only fields that have been set are
// sent; anything else is left for the service to keep as it was.
type NoteUpdate struct {
	tags      []string
	tagsSet   bool
	folder    ldvalue.OptionalString
	folderSet bool
}

// WithTags sets the tags. An empty list is a real update that removes all tags.
func (u NoteUpdate) WithTags(tags ...string) NoteUpdate {
	u.tags = append([]string{}, tags...)
	u.tagsSet = true
	return u
}

// WithFolder moves the note into the named folder.
func (u NoteUpdate) WithFolder(name string) NoteUpdate {
	u.folder = ldvalue.NewOptionalString(name)
	u.folderSet = true
	return u
}

// WithoutFolder removes the note from its folder; it is sent as "folder": null.
func (u NoteUpdate) WithoutFolder() NoteUpdate {
	u.folder = ldvalue.OptionalString{}
	u.folderSet = true
	return u
}

// Tags returns the tags this update writes, and whether it writes them at all.
func (u NoteUpdate) Tags() ([]string, bool) {
	return u.tags, u.tagsSet
}

// Folder returns the folder this update writes, and whether it writes it at all.
func (u NoteUpdate) Folder() (ldvalue.OptionalString, bool) {
	return u.folder, u.folderSet
}

// IsEmpty is true if the update would not change anything.
func (u NoteUpdate) IsEmpty() bool {
	return !u.tagsSet && !u.folderSet
}

// AsValue returns the JSON object that represents this update.
func (u NoteUpdate) AsValue() ldvalue.Value {
	b := ldvalue.ObjectBuild()
	if u.tagsSet {
		tags := ldvalue.ArrayBuild()
		for _, t := range u.tags {
			tags.Add(ldvalue.String(t))
		}
		b.Set("tags", tags.Build())
	}
	if u.folderSet {
		b.Set("folder", u.folder.AsValue())
	}
	return b.Build()
}

func (u NoteUpdate) MarshalJSON() ([]byte, error) {
	return u.AsValue().MarshalJSON()
}

func (u NoteUpdate) String() string {
	return u.AsValue().JSONString()
}

// UnmarshalJSON reads an update the way a service would: a key that is present is an
// update of that field, even if its value is null.
func (u *NoteUpdate) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var ret NoteUpdate
	if raw, ok := fields["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return err
		}
		ret = ret.WithTags(tags...)
	}
	if raw, ok := fields["folder"]; ok {
		if err := json.Unmarshal(raw, &ret.folder); err != nil {
			return err
		}
		ret.folderSet = true
	}
	*u = ret
	return nil
}

// CreateNoteResponse is the body of a successful POST /notes.
type CreateNoteResponse struct {
	Success bool `json:"success"`
	Note    Note `json:"note"`
}

// NoteResponse is the body of GET /notes/{id}, and of PUT /notes/{id} on services that
// echo the updated note.
type NoteResponse struct {
	Success bool `json:"success,omitempty"`
	Note    Note `json:"note"`
}

// NoteListResponse is the body of GET /notes.
type NoteListResponse struct {
	Notes []Note `json:"notes"`
}

type TagInfo struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type TagListResponse struct {
	Tags []TagInfo `json:"tags"`
}

type FolderInfo struct {
	Name    string `json:"name"`
	Starred bool   `json:"starred"`
}

type FolderListResponse struct {
	Folders []FolderInfo `json:"folders"`
}

// ErrorResponse is the body the service sends with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
