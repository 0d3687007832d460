// Package blobrecord implements the canonical textual encoding of one
// directory entry (a BlobRecord, spec.md §4.2) and its round-trip codec.
//
// Line shape: "name hash kind_word LLHHTT\n" where LLHHTT is six hex
// digits giving len(name), len(hash), len(kind_word) in that order.
// Grounded on original_source/src/common.rs's DiffBlob Display/FromStr.
package blobrecord

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a BlobRecord as referring to a file or a directory.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns the ASCII token used on the wire for a Kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is one line of a Manifest.
type Record struct {
	Name string
	Hash string
	Kind Kind
}

// Format renders r in canonical textual form, including the trailing
// newline.
func Format(r Record) string {
	kind := r.Kind.String()
	return fmt.Sprintf("%s %s %s %02x%02x%02x\n",
		r.Name, r.Hash, kind, len(r.Name), len(r.Hash), len(kind))
}

// ParseErrorKind enumerates the ways a line can fail to parse.
type ParseErrorKind int

const (
	TooShort ParseErrorKind = iota
	BadLengthField
	BadTotalLength
	BadKind
)

func (k ParseErrorKind) String() string {
	switch k {
	case TooShort:
		return "too short"
	case BadLengthField:
		return "bad length field"
	case BadTotalLength:
		return "bad total length"
	case BadKind:
		return "bad kind"
	default:
		return "unknown"
	}
}

// ParseError is returned by Parse when a line is malformed.
type ParseError struct {
	Kind ParseErrorKind
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("blobrecord: parse error (%s): %q", e.Kind, e.Line)
}

// Parse decodes one canonical BlobRecord line. The declared length
// fields are authoritative; separating spaces are not treated as an
// escape mechanism, so names containing trailing spaces parse correctly.
func Parse(line string) (Record, error) {
	trimmed := strings.TrimRight(line, " \t\r\n")
	if len(trimmed) < 6 {
		return Record{}, &ParseError{Kind: TooShort, Line: line}
	}

	lengths := trimmed[len(trimmed)-6:]
	body := trimmed[:len(trimmed)-6]

	nameLen, err1 := strconv.ParseUint(lengths[0:2], 16, 32)
	hashLen, err2 := strconv.ParseUint(lengths[2:4], 16, 32)
	kindLen, err3 := strconv.ParseUint(lengths[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return Record{}, &ParseError{Kind: BadLengthField, Line: line}
	}

	// body must hold: name + SP + hash + SP + kind + SP (three literal
	// separators: Format always writes a space before the length field too).
	want := int(nameLen) + int(hashLen) + int(kindLen) + 3
	if len(body) != want {
		return Record{}, &ParseError{Kind: BadTotalLength, Line: line}
	}

	name := body[:nameLen]
	rest := body[nameLen:]
	if len(rest) == 0 || rest[0] != ' ' {
		return Record{}, &ParseError{Kind: BadTotalLength, Line: line}
	}
	rest = rest[1:]

	hash := rest[:hashLen]
	rest = rest[hashLen:]
	if len(rest) == 0 || rest[0] != ' ' {
		return Record{}, &ParseError{Kind: BadTotalLength, Line: line}
	}
	rest = rest[1:]

	kindWord := rest[:kindLen]
	rest = rest[kindLen:]
	if rest != " " {
		return Record{}, &ParseError{Kind: BadTotalLength, Line: line}
	}

	var kind Kind
	switch kindWord {
	case "file":
		kind = KindFile
	case "directory":
		kind = KindDirectory
	default:
		return Record{}, &ParseError{Kind: BadKind, Line: line}
	}

	return Record{Name: name, Hash: hash, Kind: kind}, nil
}
