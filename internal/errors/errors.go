// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errors defines the typed, user-facing error families the CLI uses
// to report failures with a title, a detail line, and an actionable
// suggestion, plus a FatalError helper that prints one and exits.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind classifies a UserError for callers that need to branch on category
// (exit codes, JSON "kind" field) without string-matching the title.
type Kind string

const (
	KindConfig     Kind = "config"
	KindInput      Kind = "input"
	KindPermission Kind = "permission"
	KindNetwork    Kind = "network"
	KindDatabase   Kind = "database"
	KindInternal   Kind = "internal"
)

// UserError is a structured, user-facing error: a short title, a longer
// detail explaining what went wrong, and a suggestion for how to fix it.
// Cause, when set, is the underlying error that triggered it.
type UserError struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion,omitempty"`
	Cause      error  `json:"-"`
}

func (e *UserError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

func newUserError(kind Kind, title, detail, suggestion string, cause error) *UserError {
	return &UserError{Kind: kind, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewConfigError reports a malformed or missing configuration file.
func NewConfigError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindConfig, title, detail, suggestion, cause)
}

// NewInputError reports invalid input from the user (bad flag, bad script).
func NewInputError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindInput, title, detail, suggestion, cause)
}

// NewPermissionError reports a filesystem permission failure.
func NewPermissionError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindPermission, title, detail, suggestion, cause)
}

// NewNetworkError reports a failure reaching a remote endpoint.
func NewNetworkError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindNetwork, title, detail, suggestion, cause)
}

// NewDatabaseError reports a storage-layer failure.
func NewDatabaseError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindDatabase, title, detail, suggestion, cause)
}

// NewInternalError reports a bug: something the caller could not have
// prevented by fixing their input or environment.
func NewInternalError(title, detail, suggestion string, cause error) *UserError {
	return newUserError(KindInternal, title, detail, suggestion, cause)
}

// FatalError prints err (structured, with title/detail/suggestion when it is
// a *UserError) and exits the process with status 1. When jsonMode is true
// the error is emitted as a single JSON object on stdout instead of the
// human-readable form on stderr, so scripted callers can parse it.
func FatalError(err error, jsonMode bool) {
	if err == nil {
		os.Exit(1)
	}

	ue, ok := err.(*UserError)
	if !ok {
		ue = &UserError{Kind: KindInternal, Title: err.Error()}
	}

	if jsonMode {
		_ = json.NewEncoder(os.Stdout).Encode(ue)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", ue.Title)
	if ue.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
	}
	if ue.Cause != nil {
		fmt.Fprintf(os.Stderr, "  cause: %v\n", ue.Cause)
	}
	if ue.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  suggestion: %s\n", ue.Suggestion)
	}
	os.Exit(1)
}
