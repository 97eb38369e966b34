package content

import "errors"

var ErrDuplicateSlug = errors.New("page slug already in use")
