package core

import "errors"

// Sentinel errors for per-item scoring failures.
var (
	ErrNoBinMatch      = errors.New("no forecast bin matches")
	ErrMissingForecast = errors.New("forecast has no rows for region and target")
	ErrNoTruth         = errors.New("no truth rows for week")
	ErrMissingMetadata = errors.New("metadata is missing a required field")
	ErrBadFilename     = errors.New("filename does not encode an epiweek and year")
	ErrMalformedRow    = errors.New("malformed forecast row")
)

// failureKind names the class of a failure for the error log.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrNoBinMatch):
		return "BinMatchError"
	case errors.Is(err, ErrMissingForecast):
		return "MissingForecastError"
	case errors.Is(err, ErrNoTruth):
		return "MissingTruthError"
	case errors.Is(err, ErrMissingMetadata):
		return "MetadataError"
	case errors.Is(err, ErrBadFilename):
		return "FilenameError"
	case errors.Is(err, ErrMalformedRow):
		return "ParseError"
	default:
		return "Error"
	}
}
