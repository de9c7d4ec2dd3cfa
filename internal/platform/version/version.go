// Package version reports build information and the identity of this controller process.
package version

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
)

// Build information, injected via ldflags at build time
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// instanceID distinguishes controller restarts in logs and status output.
var instanceID = uuid.New()

// Info holds complete build information
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	InstanceID string `json:"instance_id"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		Commit:     Commit,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		InstanceID: instanceID.String(),
	}
}

// String renders a short one-line banner.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s) %s", i.Version, shortCommit(i.Commit), i.GoVersion)
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
