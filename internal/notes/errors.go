package notes

import "errors"

var ErrNotFound = errors.New("note not found")
