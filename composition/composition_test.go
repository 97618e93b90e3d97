// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package composition

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/grailbio/differannotate/encoding/fasta"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	expect.EQ(t, Count("AATTGGCCNN"), Fractions{A: 0.2, T: 0.2, G: 0.2, C: 0.2})
	expect.EQ(t, Count("acgt"), Fractions{A: 0.25, T: 0.25, G: 0.25, C: 0.25})
	expect.EQ(t, Count(""), Fractions{})
}

type testSource struct {
	*fasta.Reader
	closed *int32
}

func (s testSource) Close(ctx context.Context) error {
	atomic.AddInt32(s.closed, 1)
	return nil
}

func TestCompute(t *testing.T) {
	const (
		data  = ">chr1\nAAAACCCC\nGGGGTTTT\nNNNN\n"
		index = "chr1\t20\t6\t8\t9\n"
	)
	entries, err := fasta.ReadIndex(strings.NewReader(index))
	require.NoError(t, err)
	var opened, closed int32
	open := func(ctx context.Context) (Source, error) {
		atomic.AddInt32(&opened, 1)
		return testSource{fasta.NewReader(strings.NewReader(data), entries), &closed}, nil
	}
	tasks := []Task{
		{"chr1", 0, 4},
		{"chr1", 0, 8},
		{"chr1", 6, 10},
		{"chr1", 0, 20},
		{"chr1", 16, 20},
	}
	for _, parallelism := range []int{0, 1, 2, 16} {
		opened, closed = 0, 0
		r, err := Compute(context.Background(), open, tasks, parallelism)
		require.NoError(t, err)
		expect.EQ(t, r, []Fractions{
			{A: 1},
			{A: 0.5, C: 0.5},
			{C: 0.5, G: 0.5},
			{A: 0.2, T: 0.2, G: 0.2, C: 0.2},
			{},
		}, "parallelism=%d", parallelism)
		expect.EQ(t, opened, closed)
	}

	tasks = append(tasks, Task{"chr2", 0, 1})
	_, err = Compute(context.Background(), open, tasks, 2)
	expect.NotNil(t, err)

	_, err = Compute(context.Background(), func(ctx context.Context) (Source, error) {
		return nil, fmt.Errorf("no reference")
	}, tasks, 3)
	expect.NotNil(t, err)

	r, err := Compute(context.Background(), open, nil, 4)
	require.NoError(t, err)
	expect.EQ(t, len(r), 0)
}
