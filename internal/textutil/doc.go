// Package textutil provides the text canonicalization used to compare and
// render movie titles.
//
// Two functions with deliberately different strength live here:
//   - Normalize folds case and Unicode composition and collapses punctuation.
//     It is only ever used to test two titles for equality.
//   - FormatTitle collapses punctuation but preserves case unless asked to
//     capitalize. Its output is written into folder and file names.
//
// Token fingerprints and cosine similarity are provided for ranking hints in
// the manual disambiguation prompt.
package textutil
