package docs

import "errors"

var (
	// ErrWalkFailed indicates filesystem traversal of the content dir failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrNoSourcesFound indicates the content dir holds no markdown sources.
	ErrNoSourcesFound = errors.New("no markdown sources found")

	// ErrInvalidRelativePath indicates calculating a content-relative path failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")

	// ErrBadIgnorePattern indicates a configured ignore glob does not parse.
	ErrBadIgnorePattern = errors.New("bad ignore pattern")

	// ErrFileReadFailed indicates reading a discovered file failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrPathOutsideContent indicates a load request tried to escape the content dir.
	ErrPathOutsideContent = errors.New("path outside content directory")
)
