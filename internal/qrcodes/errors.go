package qrcodes

import "errors"

// ErrArtifactWrite reports a failure to render or store a QR artifact.
var ErrArtifactWrite = errors.New("qr artifact write failed")
