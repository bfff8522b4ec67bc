package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context, creating a StoreError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *StoreError {
	if err == nil {
		return nil
	}

	// Keep component and route of an inner StoreError
	var se *StoreError
	if errors.As(err, &se) {
		return &StoreError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Component:   se.Component,
			Route:       se.Route,
			Recoverable: se.Recoverable,
		}
	}

	return &StoreError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeBuild || errType == ErrorTypeAsset,
	}
}

// WrapBuild wraps an error as a build error for a page route
func WrapBuild(err error, code, message, route string) *StoreError {
	se := Wrap(err, ErrorTypeBuild, code, message)
	if se != nil {
		se.Route = route
	}
	return se
}

// WrapAsset wraps an asset loading failure for a component
func WrapAsset(err error, code, ref, component string) *StoreError {
	se := Wrap(err, ErrorTypeAsset, code, fmt.Sprintf("failed to load %s", ref))
	if se != nil {
		se.Component = component
		se.WithContext("ref", ref)
	}
	return se
}

// WrapIO wraps a filesystem error with the path involved
func WrapIO(err error, code, path string) *StoreError {
	se := Wrap(err, ErrorTypeIO, code, fmt.Sprintf("i/o failure on %s", path))
	if se != nil {
		se.Recoverable = false
		se.WithContext("path", path)
	}
	return se
}

// Combine returns nil for no errors, the error itself for one, and a joined error otherwise
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}
