// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package compare measures agreement between annotation sources.
//
// Two resolutions are supported.  At base resolution, a Presence matrix
// records which bases each source covers with a feature class, and
// BaseConfusion scores every source against row 0.  At interval resolution,
// Pairwise and Triwise partition feature sets into Venn regions, treating two
// features as the same call when they reciprocally overlap by at least a
// percentage threshold.
package compare
