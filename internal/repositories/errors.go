package repositories

import "errors"

// ErrNotFound is returned (wrapped) by repositories when a record does
// not exist. Services translate it into their own taxonomy.
var ErrNotFound = errors.New("record not found")
