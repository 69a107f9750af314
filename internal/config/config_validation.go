// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The devlinks Authors

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Missing connection
// settings are the one class of error that is allowed to be fatal here
// rather than degraded at request time.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Auth.SessionDuration <= 0 || cfg.Auth.NoticeDuration <= 0 || cfg.Auth.GuestDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Auth.ShareTokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
