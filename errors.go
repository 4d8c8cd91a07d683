package arbor

import "errors"

// ErrNoStore is returned by Save and Load when the engine has no snapshot store.
var ErrNoStore = errors.New("no snapshot store configured")
