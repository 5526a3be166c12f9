package get_availability

import "errors"

var errMissingDate = errors.New("from date is required")
