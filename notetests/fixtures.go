package notetests

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultUserID owns every note the suite creates unless another id is configured.
const DefaultUserID = "test-user-backend-123"

// NoteFixtures creates notes for scenarios and remembers each one, in creation order, so
// that Cleanup can delete them all at the end of the run.
type NoteFixtures struct {
	client  *notesapi.Client
	userID  string
	logger  *slog.Logger
	created []string
}

func NewNoteFixtures(client *notesapi.Client, userID string, logger *slog.Logger) *NoteFixtures {
	if userID == "" {
		userID = DefaultUserID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteFixtures{client: client, userID: userID, logger: logger}
}

func (f *NoteFixtures) UserID() string {
	return f.userID
}

// Params builds the body of a create request. Only the title and transcription vary; the
// other required fields get fixed placeholder values derived from them.
func (f *NoteFixtures) Params(title, transcription string) servicedef.CreateNoteParams {
	return servicedef.CreateNoteParams{
		UserID:        f.userID,
		Title:         title,
		Transcription: transcription,
		Summary:       "Test summary for " + title,
		KeyPoints: []string{
			"Key point 1 for " + title,
			"Key point 2 for " + title,
		},
		ActionItems:    []string{},
		Tags:           []string{},
		AudioURL:       ldvalue.OptionalString{},
		SmartifiedText: "Smartified version of " + transcription,
	}
}

// Create creates a note and returns its id. On failure the id is empty and the error,
// including any error body from the service, has already been logged.
func (f *NoteFixtures) Create(ctx context.Context, title, transcription string) (string, error) {
	f.logger.Info("creating test note", "title", title)
	note, err := f.client.CreateNote(ctx, f.Params(title, transcription))
	if err != nil {
		f.logger.Error("failed to create note", "title", title, "error", err)
		return "", err
	}
	f.created = append(f.created, note.ID)
	f.logger.Info("created note", "id", note.ID)
	return note.ID, nil
}

// Created returns the ids of notes that have not been cleaned up yet, oldest first.
func (f *NoteFixtures) Created() []string {
	return append([]string(nil), f.created...)
}

// Cleanup deletes every created note, in creation order. It never fails: a note that
// cannot be deleted is logged as a warning and returned in the list of leftovers.
func (f *NoteFixtures) Cleanup(ctx context.Context) []string {
	ids := f.created
	f.created = nil
	f.logger.Info(fmt.Sprintf("cleaning up %d test notes", len(ids)))

	var leftovers []string
	for _, id := range ids {
		if err := f.deleteOne(ctx, id); err != nil {
			f.logger.Warn("failed to delete note", "id", id, "error", err)
			leftovers = append(leftovers, id)
			continue
		}
		f.logger.Info("deleted note", "id", id)
	}
	return leftovers
}

func (f *NoteFixtures) deleteOne(ctx context.Context, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic while deleting note: %v", r)
		}
	}()
	return f.client.DeleteNote(ctx, id)
}
