package mockservice

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/google/uuid"
)

// DefaultTagColor is the color reported for tags that are only known from notes.
const DefaultTagColor = "slate"

// store keeps notes in memory, in creation order. All methods are safe for concurrent use.
type store struct {
	notes map[string]*servicedef.Note
	order []string
	now   func() time.Time
	lock  sync.Mutex
}

func newStore(now func() time.Time) *store {
	return &store{notes: make(map[string]*servicedef.Note), now: now}
}

func (s *store) create(params servicedef.CreateNoteParams) servicedef.Note {
	t := s.now()
	note := &servicedef.Note{
		ID:             uuid.NewString(),
		UserID:         params.UserID,
		Title:          params.Title,
		Transcription:  params.Transcription,
		Summary:        params.Summary,
		KeyPoints:      nonNil(params.KeyPoints),
		ActionItems:    nonNil(params.ActionItems),
		Tags:           nonNil(params.Tags),
		AudioURL:       params.AudioURL,
		SmartifiedText: params.SmartifiedText,
		CreatedAt:      &t,
		UpdatedAt:      &t,
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notes[note.ID] = note
	s.order = append(s.order, note.ID)
	return copyNote(note)
}

func (s *store) get(id string) (servicedef.Note, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return servicedef.Note{}, false
	}
	return copyNote(note), true
}

// update applies only the fields present in u.
func (s *store) update(id string, u servicedef.NoteUpdate, behavior Behavior) (servicedef.Note, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return servicedef.Note{}, false
	}
	if tags, ok := u.Tags(); ok {
		tags = nonNil(tags)
		if behavior.ReorderTags {
			reversed := make([]string, len(tags))
			for i, tag := range tags {
				reversed[len(tags)-1-i] = tag
			}
			tags = reversed
		}
		note.Tags = tags
		if behavior.LeakTagsToAllNotes {
			for _, other := range s.notes {
				if other.UserID == note.UserID {
					other.Tags = append([]string{}, tags...)
				}
			}
		}
	}
	if folder, ok := u.Folder(); ok && !behavior.DropFolderUpdates {
		note.Folder = folder
	}
	t := s.now()
	note.UpdatedAt = &t
	return copyNote(note), true
}

func (s *store) delete(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns the user's notes, newest first. An empty tag or search matches everything.
func (s *store) list(userID, tag, search string) []servicedef.Note {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := []servicedef.Note{}
	for i := len(s.order) - 1; i >= 0; i-- {
		note := s.notes[s.order[i]]
		if userID != "" && note.UserID != userID {
			continue
		}
		if tag != "" && !note.HasTag(tag) {
			continue
		}
		if search != "" && !matchesSearch(note, search) {
			continue
		}
		ret = append(ret, copyNote(note))
	}
	return ret
}

func (s *store) tags(userID string) []servicedef.TagInfo {
	names := make(map[string]struct{})
	for _, note := range s.list(userID, "", "") {
		for _, tag := range note.Tags {
			names[tag] = struct{}{}
		}
	}
	ret := []servicedef.TagInfo{}
	for _, name := range sortedKeys(names) {
		ret = append(ret, servicedef.TagInfo{Name: name, Color: DefaultTagColor})
	}
	return ret
}

func (s *store) folders(userID string) []servicedef.FolderInfo {
	names := make(map[string]struct{})
	for _, note := range s.list(userID, "", "") {
		if note.Folder.IsDefined() && note.Folder.StringValue() != "" {
			names[note.Folder.StringValue()] = struct{}{}
		}
	}
	ret := []servicedef.FolderInfo{}
	for _, name := range sortedKeys(names) {
		ret = append(ret, servicedef.FolderInfo{Name: name})
	}
	return ret
}

func (s *store) count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.notes)
}

func matchesSearch(note *servicedef.Note, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(note.Title), search) ||
		strings.Contains(strings.ToLower(note.Transcription), search)
}

func copyNote(note *servicedef.Note) servicedef.Note {
	ret := *note
	ret.KeyPoints = append([]string{}, note.KeyPoints...)
	ret.ActionItems = append([]string{}, note.ActionItems...)
	ret.Tags = append([]string{}, note.Tags...)
	return ret
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

func sortedKeys(m map[string]struct{}) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
