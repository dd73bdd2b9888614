/*
Package kvmap implements typed, indexed collections on top of an ordered
byte-string key-value store (bbolt, goleveldb, or an in-memory store).

We implement:

1. Maps, storing values under typed keys within a namespace, with range scans
in key order and narrowing by leading key components (prefixes).

2. Items, storing a single value under a fixed key (say, a “config” value).

3. Sets, Maps without values.

4. Indexed maps, a primary Map plus any number of unique and multi indexes
that are kept consistent with the primary data on every mutation.

All collections are stateless descriptors: every operation takes the Storage
to work on, usually the one handed to a DB.Read or DB.Write callback.

# Technical Details

**Namespaces.**
Every collection owns a namespace string. A stored key is the namespace with a
2-byte big-endian length prefix, followed by the encoded typed key. Length
prefixes make namespaces prefix-free, so "foo" never sees the keys of "fooply".

**Key encoding.**
A key is a list of byte segments (one per scalar component of a tuple key).
All segments except the last one are prefixed with their 2-byte length; the
last segment runs to the end of the key. Integers are big-endian, with the sign
bit flipped for signed types, so byte order matches numeric order.

**Prefixes.**
A prefix fixes the leading components of a tuple key. All of its segments are
length-prefixed, and the remaining components are decoded from the rest of the
key.

**Bounds.**
Range scans take optional inclusive or exclusive bounds on the remaining key
(Bound) or on a leading part of it (PrefixBound). They are translated into a
half-open [min, max) byte range before reaching the store.

**Indexes.**
A unique index maps an index key to the primary key that owns it. A multi index
stores (index key, primary key) pairs as a Set. IndexedMap removes the old
value from every index, adds the new one, then writes the primary entry. DB.Write
commits all of these writes together or not at all.

**Values.**
Values are encoded with a pluggable Codec; MsgPack is the default, JSON and CBOR
are available, and Raw stores bytes as-is.
*/
package kvmap
