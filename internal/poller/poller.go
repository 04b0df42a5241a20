// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     poller
// Description: Waits for asynchronous jobs by polling queryAsyncJobResult
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package poller drives asynchronous commands to completion. An async command
// answers with a job id; the poller then queries the job status at a fixed
// interval until it leaves the pending state and fetches the final result.
package poller

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/atistler/arcus/internal/client"
	"github.com/atistler/arcus/internal/registry"
	arcuserr "github.com/atistler/arcus/pkg/core/error"
	"github.com/atistler/arcus/pkg/core/logging"
)

const (
	// QueryCommand is the command used to query job status
	QueryCommand = "queryAsyncJobResult"

	queryResponseKey = "queryasyncjobresultresponse"
	jobIDKey         = "jobid"
	jobStatusKey     = "jobstatus"
)

// Job states reported in jobstatus. Anything other than StatusPending ends
// the wait.
const (
	StatusPending   = 0
	StatusSucceeded = 1
	StatusFailed    = 2
)

// Executor performs a single request without argument validation
type Executor interface {
	Execute(ctx context.Context, req client.Request) (*client.Result, error)
}

// Observer is notified after every status query
type Observer interface {
	OnPoll(attempt int, status int)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(attempt int, status int)

// OnPoll calls f
func (f ObserverFunc) OnPoll(attempt int, status int) {
	f(attempt, status)
}

// Poller waits for async jobs
type Poller struct {
	exec     Executor
	logger   *logging.Logger
	observer Observer
}

// New creates a poller backed by exec
func New(exec Executor, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Poller{
		exec:   exec,
		logger: logger.WithField("component", "poller"),
	}
}

// WithObserver returns a copy of the poller reporting to o
func (p *Poller) WithObserver(o Observer) *Poller {
	cp := *p
	cp.observer = o
	return &cp
}

// Run executes an async action, waits for its job and returns the job result
// in the requested format. Arguments are validated before anything is sent.
func (p *Poller) Run(ctx context.Context, action *registry.Action, params map[string]string, format client.Format, interval time.Duration) (*client.Result, error) {
	if action == nil {
		return nil, arcuserr.New(arcuserr.CodeUnknownAction, "no action given")
	}
	if !action.Async {
		return nil, arcuserr.Newf(arcuserr.CodeInvalidArgument, "%s is not asynchronous", action.CommandName).
			WithDetail(arcuserr.DetailCommand, action.CommandName)
	}
	if interval <= 0 {
		return nil, arcuserr.Newf(arcuserr.CodeInvalidArgument, "poll interval must be positive, got %s", interval)
	}
	if err := action.CheckArgs(params); err != nil {
		return nil, err
	}

	started, err := p.exec.Execute(ctx, client.Request{
		Command:  action.CommandName,
		Params:   params,
		Endpoint: action.EndpointURI,
		Format:   client.FormatObject,
	})
	if err != nil {
		return nil, err
	}

	jobID, err := JobID(started, action.CommandName)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Async job submitted", "command", action.CommandName, "jobId", jobID)

	if _, err := p.WaitForJob(ctx, action.EndpointURI, jobID, interval); err != nil {
		return nil, err
	}

	return p.exec.Execute(ctx, client.Request{
		Command:  QueryCommand,
		Params:   map[string]string{jobIDKey: jobID},
		Endpoint: action.EndpointURI,
		Format:   format,
	})
}

// WaitForJob sleeps interval, queries the job status and repeats while the
// job is pending. It returns the first non-pending status response. There is
// no attempt limit; cancel ctx to stop waiting.
func (p *Poller) WaitForJob(ctx context.Context, endpoint, jobID string, interval time.Duration) (*client.Result, error) {
	if interval <= 0 {
		return nil, arcuserr.Newf(arcuserr.CodeInvalidArgument, "poll interval must be positive, got %s", interval)
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		res, err := p.exec.Execute(ctx, client.Request{
			Command:  QueryCommand,
			Params:   map[string]string{jobIDKey: jobID},
			Endpoint: endpoint,
			Format:   client.FormatObject,
		})
		if err != nil {
			return nil, err
		}

		status, err := JobStatus(res)
		if err != nil {
			return nil, err
		}
		if p.observer != nil {
			p.observer.OnPoll(attempt, status)
		}
		p.logger.Debug("Polled async job", "jobId", jobID, "attempt", attempt, "status", status)

		if status != StatusPending {
			p.logger.Info("Async job finished", "jobId", jobID, "status", status, "attempts", attempt)
			return res, nil
		}
		timer.Reset(interval)
	}
}

// JobID extracts the job id from the immediate response of an async command,
// found at <lowercase command>response.jobid.
func JobID(res *client.Result, command string) (string, error) {
	key := strings.ToLower(command) + "response"
	v, ok := res.Lookup(key, jobIDKey)
	if !ok {
		return "", arcuserr.Decode(string(res.Format), nil).
			WithDetail(arcuserr.DetailCommand, command).
			WithDetail(arcuserr.DetailPath, key+"."+jobIDKey)
	}

	switch id := v.(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case json.Number:
		return id.String(), nil
	}
	return "", arcuserr.Decode(string(res.Format), nil).
		WithDetail(arcuserr.DetailCommand, command).
		WithDetail(arcuserr.DetailPath, key+"."+jobIDKey)
}

// JobStatus reads queryasyncjobresultresponse.jobstatus
func JobStatus(res *client.Result) (int, error) {
	v, ok := res.Lookup(queryResponseKey, jobStatusKey)
	if ok {
		switch s := v.(type) {
		case float64:
			return int(s), nil
		case json.Number:
			if n, err := s.Int64(); err == nil {
				return int(n), nil
			}
		case string:
			if n, err := strconv.Atoi(s); err == nil {
				return n, nil
			}
		}
	}
	return 0, arcuserr.Decode(string(res.Format), nil).
		WithDetail(arcuserr.DetailCommand, QueryCommand).
		WithDetail(arcuserr.DetailPath, queryResponseKey+"."+jobStatusKey)
}
