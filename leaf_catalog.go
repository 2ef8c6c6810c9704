package zschema

import (
	"fmt"
	"math/big"
	"time"
)

// LeafKind identifies a scalar type in the leaf catalog.
type LeafKind int

const (
	KindString LeafKind = iota + 1
	KindEnglishString
	KindAnalyzedString
	KindWhitespaceAnalyzedString
	KindHTML
	KindHexString
	KindEnum
	KindIPAddress
	KindIPv4Address
	KindIPv6Address
	KindSigned8BitInteger
	KindSigned16BitInteger
	KindSigned32BitInteger
	KindSigned64BitInteger
	KindUnsigned8BitInteger
	KindUnsigned16BitInteger
	KindUnsigned32BitInteger
	KindFloat
	KindDouble
	KindBoolean
	KindBinary
	KindIndexedBinary
	KindDateTime
	KindTimestamp
	KindOID
	KindEmailAddress
	KindURL
	KindURI
	KindFQDN
	kindEnd
)

// valueClass is the Go-side class of values a leaf accepts before its
// predicate runs.
type valueClass int

const (
	classString valueClass = iota
	classInteger
	classFloat
	classBool
	classDateTime
)

func (c valueClass) String() string {
	switch c {
	case classString:
		return "string"
	case classInteger:
		return "integer"
	case classFloat:
		return "number"
	case classBool:
		return "boolean"
	case classDateTime:
		return "datetime"
	}
	return "unknown"
}

type kindSpec struct {
	name    string
	bq      string
	es      string
	proto   string
	class   valueClass
	bits    uint // integer width used for bounds
	esDef   ESSettings
	check   func(l *Leaf, s string) (code string, data map[string]string)
	valid   any
	invalid any
}

var (
	urlES       = ESSettings{Analyzer: "URL", SearchAnalyzer: "whitespace", IncludeRaw: true}
	lowerWSES   = ESSettings{Analyzer: "lower_whitespace", IncludeRaw: true}
	ipv6Sample  = "2a04:9740:8:c010:e228:6dff:fefe:6e53"
	hexSample   = "003a929e3e0bd48a1e7567714a1e0e9d4597fe9087b4ad39deb83ab10c5a0278"
	tooBig64    = new(big.Int).Lsh(big.NewInt(1), 68)
	dateSample  = "Wed Jul  8 08:52:01 EDT 2015"
	dateInvalid = "Wed DNE  35 08:52:01 EDT 2015"
)

// catalog is indexed by LeafKind.
var catalog = [kindEnd]kindSpec{
	KindString:                   {name: "String", bq: "STRING", es: "keyword", proto: "string", class: classString, valid: "asdf", invalid: 23},
	KindEnglishString:            {name: "EnglishString", bq: "STRING", es: "text", proto: "string", class: classString, esDef: ESSettings{Analyzer: "standard"}, valid: "asdf", invalid: 23},
	KindAnalyzedString:           {name: "AnalyzedString", bq: "STRING", es: "text", proto: "string", class: classString, esDef: ESSettings{Analyzer: "simple"}, valid: "asdf", invalid: 23},
	KindWhitespaceAnalyzedString: {name: "WhitespaceAnalyzedString", bq: "STRING", es: "text", proto: "string", class: classString, esDef: lowerWSES, valid: "asdf", invalid: 23},
	KindHTML:                     {name: "HTML", bq: "STRING", es: "text", proto: "string", class: classString, esDef: ESSettings{Analyzer: "html"}, valid: "<b>asdf</b>", invalid: 23},
	KindHexString:                {name: "HexString", bq: "STRING", es: "keyword", proto: "string", class: classString, check: checkHex, valid: hexSample, invalid: "asdfasdfa"},
	KindEnum:                     {name: "Enum", bq: "STRING", es: "keyword", proto: "string", class: classString, check: checkEnum, valid: "asdf", invalid: 23},
	KindIPAddress:                {name: "IPAddress", bq: "STRING", es: "ip", proto: "string", class: classString, check: checkIP, valid: "141.212.120.0", invalid: "my string"},
	KindIPv4Address:              {name: "IPv4Address", bq: "STRING", es: "ip", proto: "string", class: classString, check: checkIPv4, valid: "141.212.120.0", invalid: ipv6Sample},
	KindIPv6Address:              {name: "IPv6Address", bq: "STRING", es: "ip", proto: "string", class: classString, check: checkIPv6, valid: ipv6Sample, invalid: "141.212.120.0"},
	KindSigned8BitInteger:        {name: "Signed8BitInteger", bq: "INTEGER", es: "byte", proto: "int32", class: classInteger, bits: 8, valid: 34, invalid: 1<<8 + 5},
	KindSigned16BitInteger:       {name: "Signed16BitInteger", bq: "INTEGER", es: "short", proto: "int32", class: classInteger, bits: 16, valid: 0xFFFF, invalid: 1 << 16},
	KindSigned32BitInteger:       {name: "Signed32BitInteger", bq: "INTEGER", es: "integer", proto: "sint32", class: classInteger, bits: 32, valid: 234234252, invalid: int64(8589934592)},
	KindSigned64BitInteger:       {name: "Signed64BitInteger", bq: "INTEGER", es: "long", proto: "int64", class: classInteger, bits: 64, valid: 10, invalid: tooBig64},
	KindUnsigned8BitInteger:      {name: "Unsigned8BitInteger", bq: "INTEGER", es: "short", proto: "uint32", class: classInteger, bits: 16, valid: 0xFFFF, invalid: 1 << 16},
	KindUnsigned16BitInteger:     {name: "Unsigned16BitInteger", bq: "INTEGER", es: "integer", proto: "uint32", class: classInteger, bits: 32, valid: 234234252, invalid: int64(8589934592)},
	KindUnsigned32BitInteger:     {name: "Unsigned32BitInteger", bq: "INTEGER", es: "long", proto: "uint32", class: classInteger, bits: 64, valid: 10, invalid: tooBig64},
	KindFloat:                    {name: "Float", bq: "FLOAT", es: "float", proto: "float", class: classFloat, valid: 10.0, invalid: "I'm a string!"},
	KindDouble:                   {name: "Double", bq: "FLOAT", es: "double", proto: "double", class: classFloat, valid: 10.0, invalid: "I'm a string!"},
	KindBoolean:                  {name: "Boolean", bq: "BOOLEAN", es: "boolean", proto: "bool", class: classBool, valid: true, invalid: 0},
	KindBinary:                   {name: "Binary", bq: "STRING", es: "binary", proto: "bytes", class: classString, esDef: ESSettings{Index: "no"}, check: checkBase64, valid: "03F87824", invalid: "normal"},
	KindIndexedBinary:            {name: "IndexedBinary", bq: "STRING", es: "string", proto: "bytes", class: classString, esDef: ESSettings{Index: "not_analyzed"}, check: checkBase64, valid: "03F87824", invalid: "normal"},
	KindDateTime:                 {name: "DateTime", bq: "DATETIME", es: "date", proto: "Timestamp", class: classDateTime, valid: dateSample, invalid: dateInvalid},
	KindTimestamp:                {name: "Timestamp", bq: "TIMESTAMP", es: "date", proto: "Timestamp", class: classDateTime, valid: dateSample, invalid: dateInvalid},
	KindOID:                      {name: "OID", bq: "STRING", es: "keyword", proto: "string", class: classString, check: checkOID, valid: "1.3.6.1.4.868.2.4.1", invalid: "hello"},
	KindEmailAddress:             {name: "EmailAddress", bq: "STRING", es: "text", proto: "string", class: classString, esDef: lowerWSES, valid: "user@example.com", invalid: 23},
	KindURL:                      {name: "URL", bq: "STRING", es: "text", proto: "string", class: classString, esDef: urlES, valid: "https://example.com/", invalid: 23},
	KindURI:                      {name: "URI", bq: "STRING", es: "text", proto: "string", class: classString, esDef: urlES, valid: "urn:isbn:0451450523", invalid: 23},
	KindFQDN:                     {name: "FQDN", bq: "STRING", es: "text", proto: "string", class: classString, esDef: urlES, valid: "www.example.com", invalid: 23},
}

// Kinds lists every leaf kind in catalog order.
func Kinds() []LeafKind {
	out := make([]LeafKind, 0, int(kindEnd)-1)
	for k := KindString; k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}

func (k LeafKind) valid() bool { return k >= KindString && k < kindEnd }

func (k LeafKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("LeafKind(%d)", int(k))
	}
	return catalog[k].name
}

// BigQueryType, ESType and ProtoType return the kind's target type tokens.
func (k LeafKind) BigQueryType() string { return k.spec().bq }
func (k LeafKind) ESType() string       { return k.spec().es }
func (k LeafKind) ProtoType() string    { return k.spec().proto }

// ESDefaults returns the Elasticsearch parameters a new leaf of this kind starts with.
func (k LeafKind) ESDefaults() ESSettings { return k.spec().esDef }

// Sample returns a value the kind accepts and one it rejects.
func (k LeafKind) Sample() (valid, invalid any) {
	s := k.spec()
	return s.valid, s.invalid
}

func (k LeafKind) spec() kindSpec {
	if !k.valid() {
		return kindSpec{}
	}
	return catalog[k]
}

// ParseLeafKind resolves a kind by name. Byte, Short, Integer and Long are
// accepted as aliases of the signed integer kinds.
func ParseLeafKind(name string) (LeafKind, bool) {
	switch name {
	case "Byte":
		return KindSigned8BitInteger, true
	case "Short":
		return KindSigned16BitInteger, true
	case "Integer":
		return KindSigned32BitInteger, true
	case "Long":
		return KindSigned64BitInteger, true
	}
	for k := KindString; k < kindEnd; k++ {
		if catalog[k].name == name {
			return k, true
		}
	}
	return 0, false
}

// integerBounds returns [-(2^bits)+1, 2^bits-1].
func integerBounds(bits uint) (lo, hi *big.Int) {
	hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	lo = new(big.Int).Neg(hi)
	return lo, hi
}

var (
	defaultMinTime = time.Date(1753, 1, 1, 0, 0, 0, 0, time.UTC)
	defaultMaxTime = time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC)
)
