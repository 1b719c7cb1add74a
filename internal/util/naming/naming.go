// Package naming derives provider resource names from worker template names.
// All generated names follow consistent patterns so that a machine's
// associated resources (NIC, public IP, OS disk blob) can be found again
// from the machine name alone.
package naming

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxTemplatePrefix keeps generated VM names inside the provider's
// 64-character limit once the uniqueness suffix and an instance index are
// appended.
const maxTemplatePrefix = 32

// Deployment returns a deployment name unique to this provisioning call.
func Deployment(templateName string) string {
	return fmt.Sprintf("%s-%s", sanitize(templateName), timestampSuffix())
}

// VMBase returns the base name shared by the machines of one deployment.
// The template name is kept as a prefix; the suffix mixes the worker count,
// the current time, and random bits so that concurrently live deployments of
// the same template never collide.
func VMBase(templateName string, count int) string {
	base := sanitize(templateName)
	if len(base) > maxTemplatePrefix {
		base = base[:maxTemplatePrefix]
	}
	return base + strconv.FormatInt(int64(count), 36) + timestampSuffix() + randomSuffix()
}

// NetworkInterface returns the NIC name associated with a VM.
func NetworkInterface(vmName string) string {
	return vmName + "NIC"
}

// PublicIP returns the public IP resource name associated with a VM.
func PublicIP(vmName string) string {
	return vmName + "IPName"
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "worker"
	}
	return b.String()
}

func timestampSuffix() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func randomSuffix() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Timestamp alone still differentiates; random bits only harden
		// against same-millisecond calls.
		return ""
	}
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(buf[:])), 36)
}
