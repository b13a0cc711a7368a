package storage

import "errors"

var ErrMediaNotFound = errors.New("media not found")
