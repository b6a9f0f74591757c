package main

import "errors"

var errUnknownQueueKind = errors.New("unrecognized queue kind")
