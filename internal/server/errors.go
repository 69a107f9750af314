// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package server

import "errors"

var (
	errNoServerAddress = errors.New("no server address is configured")
)
