package statusboard

import "errors"

// ErrSourceNotConfigured indicates the selected week resolves to no
// source identifier. Weeks without a source are read-only: reads fall
// back to master-only, writes are rejected.
var ErrSourceNotConfigured = errors.New("no source configured for week")

// ErrCustomerNotFound indicates the requested customer is absent from
// the loaded record set.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrCustomerExists indicates an add for a customer that is already
// present.
var ErrCustomerExists = errors.New("customer already exists")

// ErrInvalidWeek indicates a week identifier that is neither "master"
// nor of the YYYY-Wnn form.
var ErrInvalidWeek = errors.New("invalid week identifier")
