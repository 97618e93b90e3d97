package cmd

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const (
	controlGFF = `##gff-version 3
Chr1	ctl	chromosome	1	1000	.	.	.	ID=Chr1
Chr1	ctl	gene	101	200	.	+	.	ID=g1
Chr1	ctl	gene	301	400	.	-	.	ID=g2
`
	treatGFF = `Chr1	trt	gene	101	200	.	+	.	ID=t1
Chr1	trt	gene	501	600	.	+	.	ID=t2
`
)

func testConfig(t *testing.T, dir string) *config {
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
		return path
	}
	return &config{
		control: write("control.gff3", controlGFF),
		cname:   "control",
		treat:   write("treat.gff3", treatGFF),
		names:   "treat",
		out:     filepath.Join(dir, "out.tsv"),
		p:       90,
	}
}

func readFile(t *testing.T, path string) string {
	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	return string(data)
}

func TestBases(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	c := testConfig(t, dir)
	assert.NoError(t, runBases(vcontext.Background(), c))
	expect.EQ(t, readFile(t, c.out), `#CHROM	FEATURE	STRAND	SOURCE	TP	FP	TN	FN	SENS	SPEC	PREC
Chr1	type:gene	+/-	treat	100	100	300	100	0.5000	0.7500	0.5000
Chr1	type:gene	+	treat	100	100	400	0	1.0000	0.8000	0.5000
Chr1	type:gene	-	treat	0	0	500	100	0.0000	1.0000	NaN
`)
}

func TestIntervals(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	c := testConfig(t, dir)
	c.venn = filepath.Join(dir, "venn.tsv")
	assert.NoError(t, runIntervals(vcontext.Background(), c))
	expect.EQ(t, readFile(t, c.out), `#CHROM	FEATURE	STRAND	SOURCE	TP	FP	FN	SENS	PREC
Chr1	type:gene	+/-	treat	1	1	1	0.5000	0.5000
Chr1	type:gene	+	treat	1	1	0	1.0000	0.5000
Chr1	type:gene	-	treat	0	0	1	0.0000	NaN
`)
	expect.EQ(t, readFile(t, c.venn), `#CHROM	FEATURE	STRAND	Ab	aB	AB
Chr1	type:gene	+/-	1	1	1
Chr1	type:gene	+	0	1	1
Chr1	type:gene	-	1	0	0
`)
}

func TestIntervalsTriwise(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	c := testConfig(t, dir)
	c.treat = c.treat + "," + c.control
	c.names = "treat,copy"
	c.venn = filepath.Join(dir, "venn.tsv")
	assert.NoError(t, runIntervals(vcontext.Background(), c))
	expect.EQ(t, readFile(t, c.venn), `#CHROM	FEATURE	STRAND	Abc	aBc	ABc	abC	AbC	aBC	ABC
Chr1	type:gene	+/-	0	1	0	0	1	0	1
Chr1	type:gene	+	0	1	0	0	0	0	1
Chr1	type:gene	-	0	0	0	0	1	0	0
`)
}

func TestConfigErrors(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	c := testConfig(t, dir)
	c.names = "a,b"
	expect.NotNil(t, runBases(vcontext.Background(), c))

	c = testConfig(t, dir)
	c.control = ""
	expect.NotNil(t, runBases(vcontext.Background(), c))

	c = testConfig(t, dir)
	c.p = 0.9
	expect.NotNil(t, runIntervals(vcontext.Background(), c))
}
