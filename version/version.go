package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags -X. Empty values fall back to the VCS
// stamps of the build.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

var readBuildInfo = debug.ReadBuildInfo

// stamp is what the binary knows about how it was built.
type stamp struct {
	commit    string
	built     string
	goVersion string
	dirty     bool
}

func current() stamp {
	s := stamp{commit: Commit, built: BuildTime, goVersion: runtime.Version()}
	if bi, ok := readBuildInfo(); ok {
		if bi.GoVersion != "" {
			s.goVersion = bi.GoVersion
		}
		for _, kv := range bi.Settings {
			switch kv.Key {
			case "vcs.revision":
				if s.commit == "" {
					s.commit = kv.Value
				}
			case "vcs.time":
				if s.built == "" {
					s.built = kv.Value
				}
			case "vcs.modified":
				s.dirty = kv.Value == "true"
			}
		}
	}
	if len(s.commit) > 7 {
		s.commit = s.commit[:7]
	}
	return s
}

func (s stamp) short() string {
	v := Version
	if s.commit != "" {
		v += "-" + s.commit
	}
	if s.dirty {
		v += "-dirty"
	}
	return v
}

// Short returns the version with the commit appended, e.g. 1.4.0-abc1234.
func Short() string {
	return current().short()
}

// Banner returns the line printed by --version, e.g.
// "sgacorrect 1.4.0-abc1234 built 2024-01-15T10:30:00Z go1.26.0".
func Banner(program string) string {
	s := current()
	parts := []string{program, s.short()}
	if s.built != "" {
		parts = append(parts, "built "+s.built)
	}
	return strings.Join(append(parts, s.goVersion), " ")
}
