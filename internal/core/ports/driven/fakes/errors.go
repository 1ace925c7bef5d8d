package fakes

import "errors"

// errTransient is the error every fake returns when primed to fail,
// standing in for a model-transient backend error (§7).
var errTransient = errors.New("fake: simulated backend failure")
