package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeNotFound      Code = "NOT_FOUND"
	CodeStockLimit    Code = "STOCK_LIMIT_EXCEEDED"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeNetwork       Code = "NETWORK_ERROR"
	CodeServer        Code = "SERVER_ERROR"
	CodeCacheCorrupt  Code = "CACHE_CORRUPT"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Metadata describes how a code should be presented to the user.
type Metadata struct {
	Recoverable    bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Recoverable:    true,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		Recoverable:    false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeStockLimit: {
		Recoverable:    true,
		PublicMessage:  "stock limit exceeded",
		DetailsAllowed: true,
	},
	CodeStateConflict: {
		Recoverable:    true,
		PublicMessage:  "operation already in progress",
		DetailsAllowed: true,
	},
	CodeNetwork: {
		Recoverable:    false,
		PublicMessage:  "network request failed",
		DetailsAllowed: false,
	},
	CodeServer: {
		Recoverable:    false,
		PublicMessage:  "server rejected the request",
		DetailsAllowed: true,
	},
	CodeCacheCorrupt: {
		Recoverable:    true,
		PublicMessage:  "cached data unreadable",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Recoverable:    false,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf extracts the code from any error, defaulting to CodeInternal for
// errors produced outside this package.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}
