// Package search ranks posts against free-text queries.
//
// Two engines are provided:
//   - [Index], a fuzzy matcher over title, description and content that
//     tolerates typos and out-of-order words
//   - [FullText], a Bleve in-memory index with BM25-style ranking over the
//     same fields plus tags, also used to find related posts
//
// # Fuzzy scoring
//
// Every field is case folded and whitespace collapsed. A query is scored
// against a field as the smallest edit distance between the query and any
// substring of the field, divided by the query length, so 0 is an exact
// substring match and 1 is no match at all. Multi-word queries are also
// scored word by word and the better of the two scores is kept. A post's
// score is its best field score; posts scoring at or below the threshold
// (default 0.4) are returned best first, ties in collection order.
//
// # Thread Safety
//
// Both engines are immutable after construction and safe for concurrent
// use. Rebuild them when the collection changes; [Fingerprint] tells whether
// it did.
package search
