package cmd

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/differannotate/encoding/fasta"
)

// runIndex writes fastaPath+".fai", then reads the FASTA file back through the
// new index and lists each sequence and its length to out.
func runIndex(ctx context.Context, fastaPath string, out io.Writer) (err error) {
	if err = generateIndex(ctx, fastaPath); err != nil {
		return err
	}
	ref, err := fasta.Open(ctx, fastaPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, ref, &err)
	w := tsv.NewWriter(out)
	w.WriteString("#SEQ\tLENGTH")
	if err := w.EndLine(); err != nil {
		return err
	}
	for _, name := range ref.SeqNames() {
		n, err := ref.Len(name)
		if err != nil {
			return err
		}
		w.WriteString(name)
		w.WriteInt64(n)
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

func generateIndex(ctx context.Context, fastaPath string) (err error) {
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	out, err := file.Create(ctx, fastaPath+fasta.IndexSuffix)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return fasta.GenerateIndex(out.Writer(ctx), in.Reader(ctx))
}
