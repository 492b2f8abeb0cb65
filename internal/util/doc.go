// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds the small helpers shared by the storage, render and
// config packages.
//
// # Key Functions
//
//   - AtomicWriteFile: temp file + fsync + rename, used by every on-disk write
//   - ReadFileIfExists: read a file, reporting absence separately from failure
//   - TruncateRunes: rune-safe truncation with an explicit marker
//   - TruncateWidth: display-width truncation for terminal columns
//
// # Usage
//
//	label := util.TruncateRunes(text, 50, "...")
//	err := util.AtomicWriteFile(path, data, 0600)
package util
