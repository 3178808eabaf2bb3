// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when it is called
// without a configuration or a worker pool to serve on. This is treated as
// a fatal misconfiguration and causes the supervisor to fail at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
