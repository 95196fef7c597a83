// Package compat gates the feature on the host platform being present and recent enough.
package compat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// PluginName is the feature name shown in notices.
	PluginName = "Display Condition On Request Var"
	// HostName is the host platform shown in notices.
	HostName = "Elementor"
	// DefaultMinimumHostVersion is the oldest supported host version.
	DefaultMinimumHostVersion = "3.0.0"
)

var (
	// ErrHostMissing means no host platform version was reported.
	ErrHostMissing = errors.New("host platform missing")
	// ErrHostTooOld means the host platform is older than the minimum.
	ErrHostTooOld = errors.New("host platform too old")
)

// VersionError carries the versions involved in a failed check.
type VersionError struct {
	Err     error
	Have    string
	Minimum string
}

func (e *VersionError) Error() string {
	if errors.Is(e.Err, ErrHostMissing) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: have %s, need %s", e.Err, e.Have, e.Minimum)
}

func (e *VersionError) Unwrap() error { return e.Err }

// Check reports whether hostVersion satisfies minimum.
func Check(hostVersion, minimum string) error {
	hostVersion = strings.TrimSpace(hostVersion)
	if hostVersion == "" {
		return &VersionError{Err: ErrHostMissing, Minimum: minimum}
	}
	cmp, err := Compare(hostVersion, minimum)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return &VersionError{Err: ErrHostTooOld, Have: hostVersion, Minimum: minimum}
	}
	return nil
}

// Notice renders the user-visible message for a failed Check.
func Notice(err error) string {
	var verr *VersionError
	if !errors.As(err, &verr) {
		return ""
	}
	if errors.Is(verr, ErrHostMissing) {
		return fmt.Sprintf("%q requires %q to be installed and activated.", PluginName, HostName)
	}
	return fmt.Sprintf("%q requires %q version %s or greater.", PluginName, HostName, verr.Minimum)
}

// Compare compares dotted numeric versions such as "3.21.4". Missing
// components count as zero and a pre-release suffix ("3.0.0-beta1") is ignored.
func Compare(a, b string) (int, error) {
	pa, err := parse(a)
	if err != nil {
		return 0, err
	}
	pb, err := parse(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
	}
	return 0, nil
}

// Valid reports whether v parses as a version.
func Valid(v string) bool {
	_, err := parse(v)
	return err == nil
}

func parse(v string) ([]int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, fmt.Errorf("invalid version %q", v)
	}
	parts := strings.Split(s, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", v)
		}
		out[i] = n
	}
	return out, nil
}
