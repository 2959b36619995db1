package model

import (
	"fmt"
	"strings"
)

// Scope is a greenhouse gas protocol emissions scope or combination.
type Scope string

// Scopes. S1S2 and S1S2S3 are reported or reconciled independently and are
// never implicitly the sum of their parts.
const (
	ScopeS1     Scope = "S1"
	ScopeS2     Scope = "S2"
	ScopeS3     Scope = "S3"
	ScopeS1S2   Scope = "S1S2"
	ScopeS1S2S3 Scope = "S1S2S3"
)

// AllScopes lists every scope in rank order.
//
//nolint:gochecknoglobals // Static enumeration.
var AllScopes = []Scope{ScopeS1, ScopeS2, ScopeS3, ScopeS1S2, ScopeS1S2S3}

// ScoredScopes are the scopes for which benchmarks, projections and scores exist.
//
//nolint:gochecknoglobals // Static enumeration.
var ScoredScopes = []Scope{ScopeS1S2, ScopeS3, ScopeS1S2S3}

// Rank orders scopes; unknown scopes rank 0.
func (s Scope) Rank() int {
	switch s {
	case ScopeS1:
		return 1
	case ScopeS2:
		return 2
	case ScopeS3:
		return 3
	case ScopeS1S2:
		return 4
	case ScopeS1S2S3:
		return 5
	default:
		return 0
	}
}

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool { return s.Rank() > 0 }

// ParseScope accepts "S1S2", "s1s2" or "S1+S2".
func ParseScope(text string) (Scope, error) {
	s := Scope(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), "+", "")))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, text)
	}
	return s, nil
}

// ParseScopes parses a comma-separated scope list.
func ParseScopes(text string) ([]Scope, error) {
	var out []Scope
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := ParseScope(part)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// TimeFrame is a scoring horizon.
type TimeFrame string

// Time frames.
const (
	TimeFrameShort TimeFrame = "SHORT"
	TimeFrameMid   TimeFrame = "MID"
	TimeFrameLong  TimeFrame = "LONG"
)

// AllTimeFrames lists every time frame in rank order.
//
//nolint:gochecknoglobals // Static enumeration.
var AllTimeFrames = []TimeFrame{TimeFrameShort, TimeFrameMid, TimeFrameLong}

// Rank orders time frames; unknown time frames rank 0.
func (t TimeFrame) Rank() int {
	switch t {
	case TimeFrameShort:
		return 1
	case TimeFrameMid:
		return 2
	case TimeFrameLong:
		return 3
	default:
		return 0
	}
}

// ParseTimeFrames parses a comma-separated, case-insensitive list.
func ParseTimeFrames(text string) ([]TimeFrame, error) {
	var out []TimeFrame
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tf := TimeFrame(strings.ToUpper(part))
		if tf.Rank() == 0 {
			return nil, fmt.Errorf("unknown time frame %q", part)
		}
		out = append(out, tf)
	}
	return out, nil
}

// ScoreResultType records which inputs produced a temperature score.
type ScoreResultType string

// Score result types, from least to most informed.
const (
	ResultDefault        ScoreResultType = "DEFAULT"
	ResultTrajectoryOnly ScoreResultType = "TRAJECTORY_ONLY"
	ResultTargetOnly     ScoreResultType = "TARGET_ONLY"
	ResultComplete       ScoreResultType = "COMPLETE"
)

// Rank orders result types.
func (r ScoreResultType) Rank() int {
	switch r {
	case ResultDefault:
		return 1
	case ResultTrajectoryOnly:
		return 2
	case ResultTargetOnly:
		return 3
	case ResultComplete:
		return 4
	default:
		return 0
	}
}

// UsesTarget reports whether a stated target contributed to the score.
func (r ScoreResultType) UsesTarget() bool {
	return r == ResultTargetOnly || r == ResultComplete
}

// TargetType distinguishes intensity from absolute reduction targets.
type TargetType string

// Target types.
const (
	TargetIntensity TargetType = "intensity"
	TargetAbsolute  TargetType = "absolute"
)

// ParseTargetType is case-insensitive.
func ParseTargetType(text string) (TargetType, error) {
	switch TargetType(strings.ToLower(strings.TrimSpace(text))) {
	case TargetIntensity:
		return TargetIntensity, nil
	case TargetAbsolute:
		return TargetAbsolute, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTargetType, text)
	}
}
