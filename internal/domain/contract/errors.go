package contract

import "errors"

// Error taxonomy of a run. Fatal: ErrMissingRequiredColumn, ErrDestinationUnavailable.
// The rest degrade the report without aborting.
var (
	ErrMalformedFilename      = errors.New("malformed filename")
	ErrMissingRequiredColumn  = errors.New("missing required column")
	ErrKeyCollision           = errors.New("key collision")
	ErrUnmatchedRow           = errors.New("unmatched row")
	ErrAttachmentCopy         = errors.New("attachment copy failed")
	ErrDestinationUnavailable = errors.New("destination unavailable")
)
