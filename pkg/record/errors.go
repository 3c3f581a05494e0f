package record

import "errors"

var (
	// ErrUnknownType is returned when a tag does not name a supported
	// record type.
	ErrUnknownType = errors.New("unknown record type")
	// ErrInvalidData is returned when record bytes do not form a valid
	// value for their declared type. A SOL record whose ownership
	// signature does not verify is reported through this error as well,
	// without further detail.
	ErrInvalidData = errors.New("invalid record data")
	// ErrInvalidReverse is returned on the legacy decoding path when the
	// stored text does not parse as the address or IP format the record
	// type requires.
	ErrInvalidReverse = errors.New("legacy record failed reverse validation")
	// ErrInvalidUTF8 is returned when record bytes were expected to hold
	// text but are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("record data is not valid UTF-8")
	// ErrMalformedSignature is returned when signature or public key
	// bytes are structurally unusable for ed25519 verification.
	ErrMalformedSignature = errors.New("malformed signature input")
)
