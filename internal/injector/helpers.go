package injector

import (
	"net"
	"time"
)

// nowFunc is overridable in tests that need a fixed clock.
var nowFunc = time.Now

// splitHostPort is a thin wrapper around net.SplitHostPort so the caller
// can ignore the error and fall back to the original host string.
func splitHostPort(hostport string) (host string, port string, err error) {
	return net.SplitHostPort(hostport)
}
