package annotation

// Opts configures a Store.
type Opts struct {
	// ReferencePath is an optional FASTA file.  It is used only if
	// ReferencePath+".fai" exists, in which case the index lengths bound every
	// chromosome and Composition becomes available.
	ReferencePath string
	// TETypes lists the (lower case) feature types whose order and superfamily
	// attributes are recorded.
	TETypes []string
	// ExcludeTypes lists (lower case) feature types that are dropped while
	// loading, e.g. whole-chromosome records.
	ExcludeTypes []string
	// Parallelism bounds the number of reference readers used by Composition.
	// Zero means runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	TETypes:     []string{"transposable_element", "transposable_element_gene", "transposon_fragment"},
	Parallelism: 4,
}

// ChromosomeTypes lists the feature types that span whole sequences.  Use it
// as Opts.ExcludeTypes to compare only the features within them.
var ChromosomeTypes = []string{"chromosome", "contig", "supercontig"}
