/*
bio-differannotate compares the GFF3 annotations of one or more treatment
sources against a control, at base and at interval resolution, and writes the
agreement statistics as TSV tables.

Sample usage:

	bio-differannotate intervals \
	    -control tair10.gff3 -cname TAIR10 \
	    -treat maker.gff3,braker.gff3 -names MAKER,BRAKER \
	    -reference tair10.fa -p 90 -out intervals.tsv
*/
package main

import "github.com/grailbio/differannotate/cmd/bio-differannotate/cmd"

func main() {
	cmd.Run()
}
