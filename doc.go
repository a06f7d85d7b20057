/*
Package dawg implements a minimal Directed Acyclic Word Graph that can be
changed after it is built.

A DAWG stores a set of words so that every group of equivalent suffixes is
represented by a single shared node. This package keeps the graph minimal
while words are added and removed, which a classic build-once DAWG cannot do.

Create a Graph with New() or Build(). Words added in increasing order are
minimized lazily: once a new word diverges from the previous one, the tail of
the previous word can never change again and is folded into the register of
equivalent nodes. Words may also be added in any order, at the cost of
detaching the part of the existing path that is shared with other words.
Call Flush() when a run of additions is done.

Remove() deletes a word without disturbing the words that share its suffix
structure. The first node on the word's path with more than one incoming edge
marks where the path stops being owned by this word alone; from there on the
path is copied before it is changed, and the copy is folded back into the
register afterwards. Removing a word leaves exactly the graph that would have
been built without it.

Compress() turns a Graph into a Compact, an immutable array form that is safe
for concurrent readers. A Compact can be written with Save() and opened again
with Load(), which maps the file into memory. A summary of the file format is
at the top of disk.go.

Both Graph and Compact implement the Finder interface.
*/
package dawg
