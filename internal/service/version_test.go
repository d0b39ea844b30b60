package service

import (
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRevision(t *testing.T) {
	withRevision := func(rev string) func() (*debug.BuildInfo, bool) {
		return func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: rev}}}, true
		}
	}
	noInfo := func() (*debug.BuildInfo, bool) { return nil, false }

	assert.Equal(t, "0123456", buildRevision(withRevision("0123456789abcdef")))
	assert.Equal(t, "unknown", buildRevision(noInfo))

	Revision = "feedfacecafe"
	t.Cleanup(func() { Revision = "" })
	assert.Equal(t, "feedfac", buildRevision(noInfo))
	assert.Equal(t, "abc", buildRevision(withRevision("abc")))
}

func TestVersion(t *testing.T) {
	svc := NewVersionService("staging")
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("IST", 19800)) }

	v := svc.Version()
	assert.Equal(t, "staging", v.Env)
	assert.Equal(t, runtime.Version(), v.Runtime)
	assert.Equal(t, "2026-10-18T04:00:00Z", v.Timestamp)
	assert.NotEmpty(t, v.SHA)
}
