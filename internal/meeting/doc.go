// Package meeting provides the canonical meeting record produced by every spider.
//
// A Meeting is assembled from the values a spider extracts from one document
// fragment. Its Status and ID are derived afterwards from the assembled record,
// so both are stable across runs for the same fragment: the ID is a readable
// fingerprint of the spider name, start time and title.
package meeting
