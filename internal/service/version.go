package service

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

// Revision can be set at build time with
// -ldflags "-X github.com/boardy-hostel/boardy-api/internal/service.Revision=<sha>".
var Revision string

const shortSHALen = 7

type VersionService struct {
	env string
	sha string
	now func() time.Time
}

func NewVersionService(env string) *VersionService {
	return &VersionService{
		env: env,
		sha: buildRevision(debug.ReadBuildInfo),
		now: time.Now,
	}
}

func (s *VersionService) Version() domain.VersionInfo {
	return domain.VersionInfo{
		SHA:       s.sha,
		Runtime:   runtime.Version(),
		Env:       s.env,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

func buildRevision(read func() (*debug.BuildInfo, bool)) string {
	if info, ok := read(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return shortSHA(setting.Value)
			}
		}
	}
	if Revision != "" {
		return shortSHA(Revision)
	}
	return "unknown"
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}
