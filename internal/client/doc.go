// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the dbxdelta application runtime.
//
// It wires the HTTP transports, the API and delta clients, the cursor store
// and one sync session per configured path prefix into a single process
// lifecycle.
package client
