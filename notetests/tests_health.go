package notetests

import (
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoHealthCheckTests checks that the service is up. There is no retry: a service that is
// still starting fails this scenario, and the others will most likely fail with it.
func DoHealthCheckTests(t *T) {
	status, err := t.Client().Health(t.Context())
	require.NoError(t, err, "health check request failed")
	t.Debug("health: status=%q message=%q", status.Status, status.Message)

	assert.Equal(t, servicedef.StatusOK, status.Status, "service is not operational")
	t.env.status = &status
}
