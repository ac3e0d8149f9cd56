package notetests

import (
	"context"
	"log/slog"
	"time"

	"github.com/foundernote/notes-contract-tests/framework"
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/servicedef"
)

// CleanupTimeout bounds the time spent deleting notes at the end of a run. Cleanup does not
// stop when the run's context is canceled, so an interrupted run still removes its notes.
const CleanupTimeout = 30 * time.Second

// SuiteParams configures a run of the suite. All fields are optional.
type SuiteParams struct {
	Context context.Context
	UserID  string
	Logger  *slog.Logger
	// Status is the health response already read by the caller, if any. The suite reads
	// capabilities from it instead of asking the service again.
	Status *servicedef.ServiceStatus
}

// RunTestSuite runs every scenario, in a fixed order, against the service behind client.
//
// Scenarios are independent: each creates its own notes, and a failure in one never stops
// the next. Notes are deleted after the last scenario, and also if the run is aborted.
func RunTestSuite(
	client *notesapi.Client,
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fixtures := NewNoteFixtures(client, params.UserID, logger)

	logger.Info("starting notes API tests", "baseURL", client.BaseURL(), "userId", fixtures.UserID())

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), CleanupTimeout)
			defer cancel()
			fixtures.Cleanup(cleanupCtx)
		}()

		t := &T{
			scope: c,
			env: &environment{
				ctx:      ctx,
				client:   client,
				fixtures: fixtures,
				logger:   logger,
			},
		}

		t.Run("health check", DoHealthCheckTests)
		t.Run("tag persistence", DoTagPersistenceTests)
		t.Run("folder persistence", DoFolderPersistenceTests)
		t.Run("tags filter", DoTagsFilterTests)
		t.Run("folder assignment", DoFolderAssignmentTests)
		t.Run("combined tags and folders", DoCombinedTagsAndFoldersTests)
		t.Run("partial update keeps other fields", DoPartialUpdateTests)
		t.Run("server-side queries", DoServerSideQueryTests)
	})
}
