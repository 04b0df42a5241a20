package jobwatch

import (
	"github.com/atistler/arcus/internal/client"
)

// pollMsg reports one status query
type pollMsg struct {
	attempt int
	status  int
}

// doneMsg is sent once the job result has been fetched or the run failed
type doneMsg struct {
	result *client.Result
	err    error
}
