/*
Package source normalizes container source values into forward iterators.

A source value is one of:

  - a collection: any slice or array;
  - a sequence: an iter.Seq-shaped function or a receive channel (single-pass);
  - an Iterable, producing a fresh Cursor per call;
  - a BidiCursor, read without moving its externally observable position;
  - a forward-only Cursor, which is consumed by the read.

Anything else is rejected with domain.ErrUnsupportedContainerSource.
*/
package source
