package matchwatch

import (
	"errors"
	"fmt"

	"github.com/cncoverlay/matchwatch/internal/logfinder"
	"github.com/cncoverlay/matchwatch/internal/parser"
	"github.com/cncoverlay/matchwatch/internal/remote"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// Sentinel errors returned by this package.
var (
	// ErrLogNotFound is returned when no game log can be located.
	ErrLogNotFound = logfinder.ErrLogNotFound

	// ErrNoLogFiles is returned when a log directory holds no log files.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrMapNameNotFound is returned for a match-found line without a map name.
	ErrMapNameNotFound = parser.ErrMapNameNotFound

	// ErrSessionIDNotFound is returned when the log never mentions a session id.
	ErrSessionIDNotFound = parser.ErrSessionIDNotFound

	// ErrInvalidSessionID is returned when the last session id is not an integer.
	ErrInvalidSessionID = parser.ErrInvalidSessionID

	// ErrDefinitiveFailure is returned once the lookup's attempt budget is spent.
	ErrDefinitiveFailure = remote.ErrDefinitiveFailure

	// ErrMalformedResponse is returned when the lookup body cannot be decoded.
	ErrMalformedResponse = roster.ErrMalformedResponse

	ErrSteamIDNotFound = errors.New("steam id not found")
	ErrNoLogPath       = errors.New("log path required")
	ErrNoFetcher       = errors.New("match fetcher required")
	ErrWatcherClosed   = errors.New("watcher closed")
	ErrAlreadyRunning  = errors.New("watcher already running")
)

// ParseError is returned by ScanFile when a trigger line is malformed and
// WithLineStopOnError is set.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
