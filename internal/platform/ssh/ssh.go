// Package ssh provides the remote execution transport used to bootstrap
// workers. It handles password-authenticated connections, command execution
// with captured exit codes, privilege elevation, and file transfer.
//
// Security: host key verification is disabled by default because workers are
// ephemeral and their keys are generated at first boot. Configure
// HostKeyCallback when pointing at persistent machines.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 15 * time.Second
	keepaliveInterval  = 30 * time.Second

	// SentinelExitStatus is returned when a command produced no exit code
	// at all, e.g. the connection dropped mid-execution. Distinct from any
	// real exit status so callers can tell a transport fault from a
	// command failure.
	SentinelExitStatus = -1
)

// Config holds the connection parameters for one worker.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	// DialTimeout bounds the TCP handshake. If zero, defaultDialTimeout
	// is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification. If nil,
	// ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Session is one established connection to a worker. Commands share the
// connection; each Exec runs in its own channel.
type Session interface {
	// Exec runs the command, streaming combined output to w, and returns
	// its exit status. A transport fault yields SentinelExitStatus and a
	// non-nil error.
	Exec(ctx context.Context, command string, w io.Writer, opts ...ExecOption) (int, error)

	// Upload writes content to the remote path, creating parent
	// directories as needed.
	Upload(ctx context.Context, remotePath string, content io.Reader) error

	// Start launches a long-running command with the given streams bound
	// to it and returns without waiting for it to exit.
	Start(command string, stdin io.Reader, stdout, stderr io.Writer) error

	Close() error
}

// Dialer establishes sessions. The production implementation dials TCP; tests
// substitute their own.
type Dialer interface {
	Dial(ctx context.Context, cfg Config) (Session, error)
}

// NewDialer returns the production dialer.
func NewDialer() Dialer {
	return &netDialer{}
}

type netDialer struct{}

func (d *netDialer) Dial(ctx context.Context, cfg Config) (Session, error) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	hostKeyCallback := cfg.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Workers are ephemeral; keys are generated at first boot.
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         cfg.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	s := &session{client: client, done: make(chan struct{})}
	go s.keepalive()
	return s, nil
}

type session struct {
	client *ssh.Client
	done   chan struct{}
}

// keepalive prevents intermediaries from dropping the connection while a
// long init script runs.
func (s *session) keepalive() {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_, _, _ = s.client.SendRequest("keepalive@openssh.com", true, nil)
		}
	}
}

// ExecOption adjusts how a single command runs.
type ExecOption func(*ExecSettings)

// ExecSettings is the resolved option set for one command. Exported so
// Session fakes can evaluate the options they receive.
type ExecSettings struct {
	Elevate         bool
	ElevatePassword string
}

// WithElevation runs the command under sudo, feeding the password on stdin.
func WithElevation(password string) ExecOption {
	return func(s *ExecSettings) {
		s.Elevate = true
		s.ElevatePassword = password
	}
}

// elevatedCommand wraps cmd for sudo with the password read from stdin and
// an empty prompt so it does not pollute the output stream.
func elevatedCommand(cmd string) string {
	return "sudo -S -p '' " + cmd
}

func (s *session) Exec(ctx context.Context, command string, w io.Writer, opts ...ExecOption) (int, error) {
	var settings ExecSettings
	for _, opt := range opts {
		opt(&settings)
	}

	sess, err := s.client.NewSession()
	if err != nil {
		return SentinelExitStatus, fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = sess.Close() }()

	sess.Stdout = w
	sess.Stderr = w

	if settings.Elevate {
		command = elevatedCommand(command)
		sess.Stdin = strings.NewReader(settings.ElevatePassword + "\n")
	}

	if err := sess.Start(command); err != nil {
		return SentinelExitStatus, fmt.Errorf("start %q: %w", command, err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- sess.Wait() }()

	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		return SentinelExitStatus, ctx.Err()
	case err := <-waitErr:
		if err == nil {
			return 0, nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), nil
		}
		// The remote side closed without reporting a status.
		return SentinelExitStatus, fmt.Errorf("run %q: %w", command, err)
	}
}

func (s *session) Upload(ctx context.Context, remotePath string, content io.Reader) error {
	client, err := sftp.NewClient(s.client)
	if err != nil {
		return fmt.Errorf("open sftp: %w", err)
	}
	defer func() { _ = client.Close() }()

	if dir := sftpDir(remotePath); dir != "" {
		if err := client.MkdirAll(dir); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", remotePath, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, content); err != nil {
		return fmt.Errorf("write %s: %w", remotePath, err)
	}
	return nil
}

func sftpDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

func (s *session) Start(command string, stdin io.Reader, stdout, stderr io.Writer) error {
	sess, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	sess.Stdin = stdin
	sess.Stdout = stdout
	sess.Stderr = stderr
	if err := sess.Start(command); err != nil {
		_ = sess.Close()
		return fmt.Errorf("start %q: %w", command, err)
	}
	return nil
}

func (s *session) Close() error {
	close(s.done)
	return s.client.Close()
}
