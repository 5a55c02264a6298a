package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Задается через -ldflags "-X deskmate-server/internal/version.BuildDate=..." в CI.
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// BuildInfo - то, что отдает /version.
type BuildInfo struct {
	Build     int    `json:"build"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
	Known     bool   `json:"known"`
	Error     string `json:"error,omitempty"`
}

// BuildNumber - число дней между эпохой и date.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает значения из ldflags, а при их отсутствии берет VCS-метку,
// которую тулчейн Go вшивает при обычном `go build`.
func Info() BuildInfo {
	info := BuildInfo{
		Date:   BuildDate,
		Commit: BuildCommit,
		Branch: BuildBranch,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	id, err := BuildNumber(info.Date)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Build = id
	info.Known = true
	return info
}

// String - однострочный баннер для лога при старте.
func String() string {
	info := Info()
	commit := coalesce(shortCommit(info.Commit), "unknown")
	if info.Modified {
		commit += "-dirty"
	}
	if !info.Known {
		return fmt.Sprintf("Build unknown commit[%s] (%s)", commit, info.Error)
	}
	return fmt.Sprintf("Build %d (%s) commit[%s] branch[%s]",
		info.Build, info.Date, commit, coalesce(info.Branch, "unknown"))
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
