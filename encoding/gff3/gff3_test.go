package gff3

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGFF = `##gff-version 3
#comment
Chr1	TAIR10	chromosome	1	30427671	.	.	.	ID=Chr1;Name=Chr1
Chr1	TAIR10	Gene	3631	5899	.	+	.	ID=AT1G01010;Name=AT1G01010

Chr1	TAIR10	transposable_element	11897	11976	.	-	.	ID=AT1TE00010;Order=LTR/Copia;superfamily=Gypsy
`

func readAll(t *testing.T, r *Reader) []Record {
	var recs []Record
	for {
		var rec Record
		err := r.Read(&rec)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}

func TestRead(t *testing.T) {
	recs := readAll(t, NewReader(strings.NewReader(testGFF), "test"))
	require.Equal(t, 3, len(recs))
	assert.Equal(t, Record{
		Seqid:      "Chr1",
		Source:     "TAIR10",
		Type:       "gene",
		Start:      3631,
		End:        5899,
		Score:      ".",
		Strand:     "+",
		Phase:      ".",
		Attributes: "ID=AT1G01010;Name=AT1G01010",
	}, recs[1])
	expect.EQ(t, recs[0].Type, "chromosome")
	expect.EQ(t, recs[2].Strand, "-")
	expect.EQ(t, recs[2].Order(), "LTR")
	expect.EQ(t, recs[2].Superfamily(), "Gypsy")
	expect.EQ(t, recs[1].Order(), "")
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		attrs, key, want string
	}{
		{"ID=x;Order=LTR;Superfamily=Copia", "order", "LTR"},
		{"ID=x;ORDER=DNA/MuDR", "order", "DNA"},
		{"ID=x; order=SINE", "order", "SINE"},
		{"order=LINE;ID=x", "order", "LINE"},
		{"ID=x;suborder=foo", "order", ""},
		{"ID=x;superfamily=Gypsy/extra", "superfamily", "Gypsy"},
		{"ID=x", "superfamily", ""},
	}
	for _, test := range tests {
		expect.EQ(t, Attribute(test.attrs, test.key), test.want, "attrs=%s", test.attrs)
	}
}

func TestMalformed(t *testing.T) {
	tests := []string{
		"Chr1\tsrc\tgene\t10\t20\t.\t+\t.\n",                 // 8 columns
		"Chr1\tsrc\tgene\tten\t20\t.\t+\t.\tID=a\n",          // bad start
		"Chr1\tsrc\tgene\t10\t2x\t.\t+\t.\tID=a\n",           // bad end
		"Chr1\tsrc\tgene\t0\t20\t.\t+\t.\tID=a\n",            // start < 1
		"Chr1\tsrc\tgene\t30\t20\t.\t+\t.\tID=a\n",           // end < start
		"Chr1\tsrc\tgene\t1\t2\t.\t+\t.\tID=a\textra\tcol\n", // 11 columns
	}
	for _, data := range tests {
		r := NewReader(strings.NewReader(data), "bad.gff3")
		var rec Record
		err := r.Read(&rec)
		require.Error(t, err, "data=%q", data)
		expect.True(t, errors.Is(errors.Invalid, err), "data=%q err=%v", data, err)
		expect.True(t, strings.Contains(err.Error(), "bad.gff3"), "err=%v", err)
	}
}

func TestOpenGzip(t *testing.T) {
	ctx := context.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	plain := filepath.Join(dir, "a.gff3")
	require.NoError(t, ioutil.WriteFile(plain, []byte(testGFF), 0644))

	gzPath := filepath.Join(dir, "a.gff3.gz")
	out, err := os.Create(gzPath)
	require.NoError(t, err)
	w := gzip.NewWriter(out)
	_, err = w.Write([]byte(testGFF))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	for _, path := range []string{plain, gzPath} {
		f, err := Open(ctx, path)
		require.NoError(t, err)
		recs := readAll(t, f.Reader)
		expect.EQ(t, len(recs), 3)
		expect.EQ(t, f.NumRecords(), 3)
		require.NoError(t, f.Close(ctx))
	}

	_, err = Open(ctx, filepath.Join(dir, "missing.gff3"))
	require.Error(t, err)
}
