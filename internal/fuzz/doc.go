// Package fuzztests houses Go fuzz harnesses for the IR reader and the
// local optimizer. They guard against panics on arbitrary text and check
// that optimizing a valid module never changes what its functions return.
package fuzztests
