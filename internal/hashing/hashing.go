// Package hashing computes the 64-bit fingerprints used to index qualified
// variables and functions.
//
// A fingerprint covers an ordered qualifier path, a symbol name, an arity and
// an ordered list of argument type ids. Native functions are keyed by the XOR
// of a definition fingerprint (qualifiers + name + arity) and an argument
// fingerprint (type ids only), so a call site can hash the two halves at
// different times: the definition half once when the script is compiled and
// the argument half on every call from the live argument values.
//
// Collisions are not detected. Tables built from fingerprints keep the last
// value written for a key.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"loom/internal/dynamic"
)

// RootQualifier is pushed before the first real qualifier when a module tree
// is indexed. Call sites substitute it for the alias a module was imported
// under, so fingerprints do not depend on the importer's choice of name.
const RootQualifier = "root"

const (
	qualifierEnd byte = 0xff
	sectionEnd   byte = 0x00
)

// Calc fingerprints qualifiers, name, arity and type ids. It is order
// sensitive in both qualifiers and type ids.
func Calc(qualifiers []string, name string, arity int, typeIDs []dynamic.TypeID) uint64 {
	d := xxhash.New()
	for _, q := range qualifiers {
		_, _ = d.WriteString(q)
		_, _ = d.Write([]byte{qualifierEnd})
	}
	_, _ = d.Write([]byte{sectionEnd})
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{sectionEnd})

	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(arity))
	_, _ = d.Write(n[:])

	for _, id := range typeIDs {
		_, _ = d.WriteString(id.Key())
		_, _ = d.Write([]byte{qualifierEnd})
	}
	return d.Sum64()
}

// CalcDef is the definition fingerprint: qualifiers + name + arity.
func CalcDef(qualifiers []string, name string, arity int) uint64 {
	return Calc(qualifiers, name, arity, nil)
}

// CalcArgs is the argument fingerprint: only the ordered type ids.
func CalcArgs(typeIDs []dynamic.TypeID) uint64 {
	return Calc(nil, "", 0, typeIDs)
}

// CalcNative is the qualified key of a native function.
func CalcNative(qualifiers []string, name string, typeIDs []dynamic.TypeID) uint64 {
	return CalcDef(qualifiers, name, len(typeIDs)) ^ CalcArgs(typeIDs)
}

// CalcVar is the fingerprint of a qualified variable.
func CalcVar(qualifiers []string, name string) uint64 {
	return Calc(qualifiers, name, 0, nil)
}
