// Package num implements overflow-checked integers of fixed width and
// fixed-point decimals built on them.
//
// Widths and scales are type parameters, so Udec128 (Dec[Bits128U, Places18])
// and Udec128_6 are distinct types. Checked* methods report overflow,
// division by zero and similar conditions as errors wrapping the Err*
// sentinels; the operator-style methods (Add, Mul, Sqrt and so on) panic
// instead and are meant for values known to be in range.
//
// Values encode as decimal strings in JSON, msgpack and CBOR, and as
// order-preserving fixed-width big-endian bytes when used as storage keys.
package num
