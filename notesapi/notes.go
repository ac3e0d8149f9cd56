package notesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/foundernote/notes-contract-tests/servicedef"
)

// ListOptions narrows GET /notes. UserID is always sent when set; Tag and Search are only
// honored by services that advertise servicedef.CapabilityTagQuery.
type ListOptions struct {
	UserID string
	Tag    string
	Search string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.UserID != "" {
		q.Set("userId", o.UserID)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

// Health queries GET /health. It does not check the reported status; the caller decides
// what counts as operational.
func (c *Client) Health(ctx context.Context) (servicedef.ServiceStatus, error) {
	var status servicedef.ServiceStatus
	err := c.Do(ctx, http.MethodGet, "/health", nil, nil).Decode(&status)
	return status, err
}

// CreateNote submits a new note and returns it as stored by the service. It fails unless
// the service reports success and assigns an id.
func (c *Client) CreateNote(ctx context.Context, params servicedef.CreateNoteParams) (servicedef.Note, error) {
	resp := c.Do(ctx, http.MethodPost, "/notes", nil, params)
	var body servicedef.CreateNoteResponse
	if err := resp.Decode(&body); err != nil {
		return servicedef.Note{}, err
	}
	if !body.Success {
		return servicedef.Note{}, fmt.Errorf("service did not report success creating note: %s", resp.Data.JSONString())
	}
	if body.Note.ID == "" {
		return servicedef.Note{}, fmt.Errorf("service did not assign an id to the new note: %s", resp.Data.JSONString())
	}
	return body.Note, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (servicedef.Note, error) {
	var body servicedef.NoteResponse
	if err := c.Do(ctx, http.MethodGet, notePath(id), nil, nil).Decode(&body); err != nil {
		return servicedef.Note{}, err
	}
	return body.Note, nil
}

// UpdateNote sends a partial update. Any 2xx status is success; if the service echoes
// the updated note it is returned, otherwise the returned note is zero.
func (c *Client) UpdateNote(ctx context.Context, id string, update servicedef.NoteUpdate) (servicedef.Note, error) {
	resp := c.Do(ctx, http.MethodPut, notePath(id), nil, update)
	if err := resp.Error(); err != nil {
		return servicedef.Note{}, err
	}
	var body servicedef.NoteResponse
	if len(resp.Body) > 0 {
		if err := resp.Decode(&body); err != nil {
			return servicedef.Note{}, err
		}
	}
	return body.Note, nil
}

// ListNotes returns every note matching opts, in the order the service sent them.
func (c *Client) ListNotes(ctx context.Context, opts ListOptions) ([]servicedef.Note, error) {
	var body servicedef.NoteListResponse
	if err := c.Do(ctx, http.MethodGet, "/notes", opts.query(), nil).Decode(&body); err != nil {
		return nil, err
	}
	return body.Notes, nil
}

// DeleteNote deletes a note. Any 2xx status is success.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, notePath(id), nil, nil).Error()
}

func (c *Client) ListTags(ctx context.Context, userID string) ([]servicedef.TagInfo, error) {
	var body servicedef.TagListResponse
	err := c.Do(ctx, http.MethodGet, "/tags", ListOptions{UserID: userID}.query(), nil).Decode(&body)
	return body.Tags, err
}

func (c *Client) ListFolders(ctx context.Context, userID string) ([]servicedef.FolderInfo, error) {
	var body servicedef.FolderListResponse
	err := c.Do(ctx, http.MethodGet, "/folders", ListOptions{UserID: userID}.query(), nil).Decode(&body)
	return body.Folders, err
}
