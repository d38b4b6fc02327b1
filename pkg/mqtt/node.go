package mqtt

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

const nodeIDLen = 12

// NodeID identifies this host in topics and as default client ID.
// It is derived from the machine ID, falling back to the host name.
func NodeID() string {
	if id, err := machineid.ProtectedID("radzone"); err == nil && len(id) >= nodeIDLen {
		return id[:nodeIDLen]
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "radzone"
}
