package ssh

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// IsUnknownHost reports whether the error is a failed hostname resolution.
// The worker's DNS record not existing yet is a normal transient during
// provisioning, not a launch failure.
func IsUnknownHost(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// IsConnRefused reports whether the remote host actively refused the
// connection, i.e. it is reachable but sshd is not listening yet.
func IsConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// IsAuthFailure reports whether the handshake completed but the credentials
// were rejected. The crypto/ssh package reports this only as a formatted
// error, so the check is textual.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "ssh: unable to authenticate")
}
