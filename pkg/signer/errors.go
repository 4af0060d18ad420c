package signer

import "errors"

// ErrUnsupportedValue indicates the value could not be reduced to the JSON
// data model and therefore has no stable content signature.
var ErrUnsupportedValue = errors.New("signer: value cannot be signed")
