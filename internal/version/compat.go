package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrUnknownVersion is returned by Check when the binary carries no
	// build version, so no constraint can be evaluated against it.
	ErrUnknownVersion = errors.New("version: binary version is unknown")

	// ErrUnsatisfied is returned by Check when the binary version falls
	// outside the requested constraint.
	ErrUnsatisfied = errors.New("version: constraint not satisfied")
)

// Check verifies that the running binary satisfies constraint, e.g. ">= 1.2".
// An empty constraint always passes.
func Check(constraint string) error {
	return check(Version, constraint)
}

func check(current, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("version: invalid constraint %q: %w", constraint, err)
	}

	if current == Fallback {
		return ErrUnknownVersion
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnknownVersion, current)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: netatmo-cli %s does not match %q", ErrUnsatisfied, current, constraint)
	}
	return nil
}

// Change describes how the version moved between two runs.
type Change string

const (
	// ChangeFirstRun means there is no previous run to compare against.
	ChangeFirstRun Change = "first_run"
	// ChangeNone means the version is unchanged.
	ChangeNone Change = "none"
	// ChangeUpgrade means the current version is newer.
	ChangeUpgrade Change = "upgrade"
	// ChangeDowngrade means the current version is older.
	ChangeDowngrade Change = "downgrade"
	// ChangeUnknown means at least one side is not a comparable version.
	ChangeUnknown Change = "unknown"
)

// Classify compares the version of a previous run with the current one.
func Classify(previous, current string) Change {
	if previous == "" {
		return ChangeFirstRun
	}
	if previous == current {
		return ChangeNone
	}
	if previous == Fallback || current == Fallback {
		return ChangeUnknown
	}

	prev, err := semver.NewVersion(previous)
	if err != nil {
		return ChangeUnknown
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return ChangeUnknown
	}

	switch cur.Compare(prev) {
	case 1:
		return ChangeUpgrade
	case -1:
		return ChangeDowngrade
	default:
		// Equal precedence, different build metadata.
		return ChangeNone
	}
}
