// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fits reads, writes and constructs FITS (Flexible Image
// Transport System) files.
//
// A FITS stream is a sequence of Header-Data Units (HDUs). Each HDU
// pairs a variable-length block of 80-byte text cards with an optional
// multidimensional numeric array or tabular record set. This package
// covers HDU variant detection, construction from data and/or cards,
// header verification and repair, and byte-exact serialization of the
// six concrete HDU bodies (Primary, Random-groups, Image, ASCII Table,
// Binary Table and Conforming extensions), including binary-table
// field descriptors and heap management for variable-length columns.
//
// World-coordinate-system interpretation, units parsing, checksum
// computation and compression codecs for ZIMAGE/ZTABLE bodies are out
// of scope; ZImage/ZTable HDUs are recognized and carried as opaque
// bytes.
package fits
