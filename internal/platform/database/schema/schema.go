// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

// Package schema centralizes table and column identifiers for SQL composition.
//
// Stores reference these definitions instead of scattering string literals,
// so a column rename is a one-file change.
package schema
