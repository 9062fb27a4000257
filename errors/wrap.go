package errors

import stderrors "errors"

// As calls As from the standard library errors package.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is calls Is from the standard library errors package.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// Join calls Join from the standard library errors package.
func Join(errs ...error) error { return stderrors.Join(errs...) }
