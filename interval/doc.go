/*
Package interval holds the per-chromosome feature index used to compare genome
annotations.

A Feature is a 0-based half-open [Start, End) span tagged with a strand and
classification ids: the feature type, and for transposable elements, the order
and superfamily.  Features are collected with a Builder, which produces an
immutable Index.  Since an Index can't be modified, the filtered Set views it
memoizes never go stale.

ReciprocalOverlap defines what it means for two calls of the same feature to
agree.
*/
package interval
