// Package bootstrap drives a provisioned worker from "has an address" to
// "running agent" over SSH, classifying failures into cleanup decisions.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/azfleet/azfleet/internal/platform/ssh"
	"github.com/azfleet/azfleet/internal/provisioning"
	"github.com/azfleet/azfleet/internal/util/retry"
)

const (
	connectAttempts = 6
	connectDelay    = 60 * time.Second

	// markerPath records that the init script already ran on this machine,
	// so a relaunch does not repeat it.
	markerPath         = "~/.azfleet-init"
	markerCheckCommand = "test -e " + markerPath
	markerWriteCommand = "touch " + markerPath

	initScriptPath    = "init.sh"
	initScriptCommand = "sh " + initScriptPath

	runtimeProbeCommand = "java -fullversion"

	agentPath = "agent.jar"
)

// Outcome is the terminal state of one launch attempt.
type Outcome int

const (
	// OutcomeAttached means the agent is running with its streams bound.
	OutcomeAttached Outcome = iota

	// OutcomeAbandoned means the machine is being torn down elsewhere and
	// the launch stopped silently. Not a failure.
	OutcomeAbandoned

	// OutcomeFailed means the launch failed with a classified reason and
	// the worker was marked for deletion.
	OutcomeFailed
)

// FailureReason classifies a failed launch for the cleanup record.
type FailureReason string

const (
	ReasonConnFail       FailureReason = "CONN_FAIL"
	ReasonAuthFail       FailureReason = "AUTH_FAIL"
	ReasonRuntimeMissing FailureReason = "RUNTIME_NOT_FOUND"
	ReasonInitScript     FailureReason = "INIT_SCRIPT"
)

// Result is what a launch attempt ended as. Reason is set only for
// OutcomeFailed.
type Result struct {
	Outcome Outcome
	Reason  FailureReason
}

// StatusReader is the slice of the orchestrator the launcher needs.
type StatusReader interface {
	GetStatus(ctx context.Context, resourceGroup, vmName string) (provisioning.VMStatus, error)
}

// AgentSource yields the worker-agent payload to transfer.
type AgentSource func(ctx context.Context) (io.Reader, error)

// Revalidator re-runs template validation out of band after a failed
// launch, so recurring failures surface as template-level warnings.
type Revalidator func(template *provisioning.WorkerTemplate)

// AgentEndpoint is the host side of the agent's standard streams.
type AgentEndpoint struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher runs the bootstrap state machine.
type Launcher struct {
	status       StatusReader
	dialer       ssh.Dialer
	agent        AgentSource
	revalidate   Revalidator
	connectRetry retry.Strategy
	launchLog    io.Writer
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithConnectRetry overrides the session connect retry policy.
func WithConnectRetry(s retry.Strategy) LauncherOption {
	return func(l *Launcher) { l.connectRetry = s }
}

// WithRevalidator installs the out-of-band revalidation hook.
func WithRevalidator(r Revalidator) LauncherOption {
	return func(l *Launcher) { l.revalidate = r }
}

// WithLaunchLog directs remote command output somewhere observable.
func WithLaunchLog(w io.Writer) LauncherOption {
	return func(l *Launcher) { l.launchLog = w }
}

// NewLauncher builds a launcher.
func NewLauncher(status StatusReader, dialer ssh.Dialer, agent AgentSource, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		status:       status,
		dialer:       dialer,
		agent:        agent,
		connectRetry: retry.Fixed(connectAttempts, connectDelay),
		launchLog:    io.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch takes the worker through the bootstrap states. On success the
// session stays open carrying the agent's streams and any pending cleanup
// on the record is cleared; on failure the session is closed and the record
// is marked for deletion with the classified reason.
func (l *Launcher) Launch(ctx context.Context, template *provisioning.WorkerTemplate, record *provisioning.VMRecord, endpoint AgentEndpoint) (Result, error) {
	status, err := l.status.GetStatus(ctx, record.ResourceGroup, record.Name)
	if err != nil || !status.AliveOrHealthy() {
		log.Printf("[bootstrap] %s is not alive, abandoning launch", record.Name)
		return Result{Outcome: OutcomeAbandoned}, nil
	}

	// Block the reaper while the launch is in flight.
	record.Retain()

	session, err := l.connect(ctx, record)
	if err != nil {
		if ssh.IsUnknownHost(err) {
			// The machine was most likely deleted underneath us. Lift
			// only our own retain; a delete queued earlier stands.
			log.Printf("[bootstrap] %s no longer resolves, abandoning launch", record.Name)
			record.ReleaseRetain()
			return Result{Outcome: OutcomeAbandoned}, nil
		}
		reason := ReasonConnFail
		if ssh.IsAuthFailure(err) {
			reason = ReasonAuthFail
		}
		return l.fail(nil, template, record, reason, err)
	}

	if template.InitScript != "" {
		result, done, err := l.runInitScript(ctx, session, template, record)
		if done {
			return result, err
		}
	}

	exit, err := session.Exec(ctx, runtimeProbeCommand, l.launchLog)
	if err != nil {
		return l.fail(session, template, record, ReasonConnFail, err)
	}
	if exit != 0 {
		return l.fail(session, template, record, ReasonRuntimeMissing,
			fmt.Errorf("runtime probe %q exited %d", runtimeProbeCommand, exit))
	}

	payload, err := l.agent(ctx)
	if err != nil {
		return l.fail(session, template, record, ReasonConnFail, fmt.Errorf("agent payload: %w", err))
	}
	if err := session.Upload(ctx, agentPath, payload); err != nil {
		return l.fail(session, template, record, ReasonConnFail, fmt.Errorf("transfer agent: %w", err))
	}

	if err := session.Start(agentCommand(template), endpoint.Stdin, endpoint.Stdout, endpoint.Stderr); err != nil {
		return l.fail(session, template, record, ReasonConnFail, fmt.Errorf("exec agent: %w", err))
	}

	// A machine once queued for deletion that attaches again is healthy.
	record.ClearCleanup()
	log.Printf("[bootstrap] %s attached", record.Name)
	return Result{Outcome: OutcomeAttached}, nil
}

// runInitScript transfers and runs the configured init script unless the
// marker from a previous run is present. The returned done flag signals a
// terminal failure; otherwise the state machine continues.
func (l *Launcher) runInitScript(ctx context.Context, session ssh.Session, template *provisioning.WorkerTemplate, record *provisioning.VMRecord) (Result, bool, error) {
	exit, err := session.Exec(ctx, markerCheckCommand, io.Discard)
	if err != nil {
		result, failErr := l.fail(session, template, record, ReasonConnFail, err)
		return result, true, failErr
	}
	if exit == 0 {
		// Already initialized by an earlier launch.
		return Result{}, false, nil
	}

	if err := session.Upload(ctx, initScriptPath, strings.NewReader(template.InitScript)); err != nil {
		result, failErr := l.fail(session, template, record, ReasonInitScript, fmt.Errorf("transfer init script: %w", err))
		return result, true, failErr
	}

	var opts []ssh.ExecOption
	if template.ExecuteInitAsRoot {
		opts = append(opts, ssh.WithElevation(record.AdminPassword))
	}
	scriptExit, err := session.Exec(ctx, initScriptCommand, l.launchLog, opts...)
	if err != nil {
		result, failErr := l.fail(session, template, record, ReasonInitScript, fmt.Errorf("run init script: %w", err))
		return result, true, failErr
	}

	// Written on every exit code outcome so a relaunch never repeats the
	// script on the same machine.
	if _, err := session.Exec(ctx, markerWriteCommand, io.Discard); err != nil {
		log.Printf("[bootstrap] %s: writing init marker failed: %v", record.Name, err)
	}

	if scriptExit != 0 {
		if template.DiscardOnInitFailure {
			result, failErr := l.fail(session, template, record, ReasonInitScript,
				fmt.Errorf("init script exited %d", scriptExit))
			return result, true, failErr
		}
		log.Printf("[bootstrap] %s: init script exited %d, continuing", record.Name, scriptExit)
	}
	return Result{}, false, nil
}

// agentCommand builds the agent launch command line with the template's
// runtime options.
func agentCommand(template *provisioning.WorkerTemplate) string {
	if template.RuntimeOptions == "" {
		return "java -jar " + agentPath
	}
	return "java " + template.RuntimeOptions + " -jar " + agentPath
}

// connect opens the session with the fixed retry ceiling. Unknown host and
// rejected credentials stop the retry loop immediately.
func (l *Launcher) connect(ctx context.Context, record *provisioning.VMRecord) (ssh.Session, error) {
	cfg := ssh.Config{
		Host:     record.Address,
		Port:     record.Port,
		User:     record.AdminUser,
		Password: record.AdminPassword,
	}
	var session ssh.Session
	err := retry.Do(ctx, l.connectRetry, func() error {
		var dialErr error
		session, dialErr = l.dialer.Dial(ctx, cfg)
		if dialErr != nil && (ssh.IsUnknownHost(dialErr) || ssh.IsAuthFailure(dialErr)) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// fail is the single exit path for every FAILED transition: close the
// session, record the cleanup decision, notify the template owner, and
// schedule revalidation.
func (l *Launcher) fail(session ssh.Session, template *provisioning.WorkerTemplate, record *provisioning.VMRecord, reason FailureReason, cause error) (Result, error) {
	if session != nil {
		_ = session.Close()
	}
	record.MarkDelete(string(reason))
	template.ReportFailure(cause.Error(), provisioning.StagePostProvisioning)
	if l.revalidate != nil {
		go l.revalidate(template)
	}
	log.Printf("[bootstrap] %s launch failed (%s): %v", record.Name, reason, cause)
	return Result{Outcome: OutcomeFailed, Reason: reason}, cause
}
