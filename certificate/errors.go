package certificate

import "errors"

var (
	// ErrNotFound means the requested resource, record, or artifact does
	// not exist in any backend
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the certificate does not belong to the requesting
	// user. Callers must surface it the same way as nonexistence so that
	// certificate ids cannot be enumerated.
	ErrForbidden = errors.New("forbidden")

	// ErrRender means the generator was handed malformed input
	ErrRender = errors.New("certificate render failed")

	// ErrStorage means every configured artifact backend rejected the write
	ErrStorage = errors.New("certificate storage unavailable")

	// ErrPersistence means the completion record could not be written even
	// after a retry and read-back
	ErrPersistence = errors.New("completion record persistence failed")
)
