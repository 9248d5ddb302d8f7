// Package env holds what is shared by node and supervisor setup.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID keys the hashed machine ID so it differs from other applications
// on the same host.
const appID = "regulator"

// MachineID returns a stable ID of this machine, derived from the OS
// machine ID. It falls back to the host name when none is available.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
