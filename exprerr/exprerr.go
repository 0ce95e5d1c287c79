// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exprerr defines the error kinds shared across the expression kernel.
//
// All failures in the kernel are local and fatal to the requested operation:
// computations are pure, so there is no retry policy. Callers that want to
// recover substitute a different algebra or rule table and run again.
package exprerr

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a kernel failure.
type Kind int

const (
	// UnsupportedOperation reports a compound head with no entry in the
	// active operator or derivative table and no applicable default.
	UnsupportedOperation Kind = iota + 1
	// InvalidConversion reports a native value that cannot be classified
	// under any known atom representation during interning.
	InvalidConversion
	// MalformedDerivative reports differentiation of a power node whose
	// exponent depends on the differentiation variable. The general
	// variable-exponent rule is intentionally not implemented.
	MalformedDerivative
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case UnsupportedOperation:
		return "unsupported operation"
	case InvalidConversion:
		return "invalid conversion"
	case MalformedDerivative:
		return "malformed derivative"
	}
	return "unknown error kind"
}

// Error is an error tagged with a kernel error kind.
type Error struct {
	kind Kind
	err  error
}

// Errorf returns a new error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, err: errors.Errorf(format, args...)}
}

// Wrap tags an existing error with a kind.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

// Kind returns the kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error returns the error message prefixed with its kind.
func (e *Error) Error() string {
	return e.kind.String() + ": " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// IsKind returns true if any error in err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	var kerr *Error
	if !goerrors.As(err, &kerr) {
		return false
	}
	return kerr.kind == kind
}

// IsUnsupported returns true for UnsupportedOperation errors.
func IsUnsupported(err error) bool {
	return IsKind(err, UnsupportedOperation)
}

// IsInvalidConversion returns true for InvalidConversion errors.
func IsInvalidConversion(err error) bool {
	return IsKind(err, InvalidConversion)
}

// IsMalformedDerivative returns true for MalformedDerivative errors.
func IsMalformedDerivative(err error) bool {
	return IsKind(err, MalformedDerivative)
}
