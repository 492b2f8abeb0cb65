// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the assistant configuration.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ASSISTANT_*), including those set by .env files
//     in the working directory or ~/.iasistem
//   - ~/.iasistem/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.Timeout()))
//
// Validation failures are returned as ValidateErrors, one entry per field.
package config
