package notesapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/foundernote/notes-contract-tests/servicedef"
)

const awaitPollInterval = time.Millisecond * 100

// AwaitService polls GET /health until the service answers at all, for services that are
// still starting when the run begins. Any HTTP response ends the wait; whether the service
// is healthy is left to the health check scenario, so the returned error is only ever a
// timeout or a canceled context. The status is empty if the body could not be read as one.
func (c *Client) AwaitService(ctx context.Context, timeout time.Duration, output io.Writer) (servicedef.ServiceStatus, error) {
	fmt.Fprintf(output, "Connecting to notes API at %s", c.baseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp := c.Do(ctx, http.MethodGet, "/health", nil, nil)
		if resp.StatusCode != 0 {
			fmt.Fprintln(output)
			var status servicedef.ServiceStatus
			if err := resp.Decode(&status); err != nil {
				fmt.Fprintf(output, "Status query returned %d: %s\n", resp.StatusCode, err)
				return servicedef.ServiceStatus{}, nil
			}
			fmt.Fprintf(output, "Status query returned: %s\n", resp.Data.JSONString())
			return status, nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return servicedef.ServiceStatus{}, fmt.Errorf("timed out, result of last query was: %w", resp.Err)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return servicedef.ServiceStatus{}, ctx.Err()
		case <-time.After(awaitPollInterval):
		}
	}
}
