package zschema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/netip"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"time"
)

var (
	hexRE    = regexp.MustCompile(`^(?:[A-Fa-f0-9]{2})+$`)
	base64RE = regexp.MustCompile(`^(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?$`)
	oidRE    = regexp.MustCompile(`^(\d+\.)+\d+$`)
)

func formatIssue(value, format string) (string, map[string]string) {
	return CodeInvalidFormat, map[string]string{"value": strconv.Quote(value), "format": format}
}

func checkHex(_ *Leaf, s string) (string, map[string]string) {
	if hexRE.MatchString(s) {
		return "", nil
	}
	return formatIssue(s, "hex string")
}

func checkBase64(_ *Leaf, s string) (string, map[string]string) {
	if base64RE.MatchString(s) {
		return "", nil
	}
	return formatIssue(s, "base64 string")
}

func checkOID(_ *Leaf, s string) (string, map[string]string) {
	if oidRE.MatchString(s) {
		return "", nil
	}
	return formatIssue(s, "oid")
}

func checkEnum(l *Leaf, s string) (string, map[string]string) {
	if len(l.values) == 0 || slices.Contains(l.values, s) {
		return "", nil
	}
	return CodeInvalidEnum, map[string]string{"value": strconv.Quote(s)}
}

// parseAddr accepts textual addresses without zones.
func parseAddr(s string) (netip.Addr, bool) {
	a, err := netip.ParseAddr(s)
	if err != nil || a.Zone() != "" {
		return netip.Addr{}, false
	}
	return a, true
}

func checkIP(_ *Leaf, s string) (string, map[string]string) {
	if _, ok := parseAddr(s); ok {
		return "", nil
	}
	return formatIssue(s, "IP address")
}

func checkIPv4(_ *Leaf, s string) (string, map[string]string) {
	if a, ok := parseAddr(s); ok && a.Is4() {
		return "", nil
	}
	return formatIssue(s, "IPv4 address")
}

func checkIPv6(_ *Leaf, s string) (string, map[string]string) {
	if a, ok := parseAddr(s); ok && a.Is6() {
		return "", nil
	}
	return formatIssue(s, "IPv6 address")
}

// maxIntegerExp is the widest binary exponent expanded into a big.Int. Larger
// numbers fall outside every integer kind and are clamped to ±2^maxIntegerExp.
const maxIntegerExp = 66

// asInteger converts Go integer kinds, integral json.Number and integral
// floats. Booleans are never integers.
func asInteger(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return n, true
	case json.Number:
		if b, ok := new(big.Int).SetString(string(n), 10); ok {
			return b, true
		}
		f, _, err := big.ParseFloat(string(n), 10, 256, big.ToNearestEven)
		if err != nil || !f.IsInt() {
			return nil, false
		}
		if f.MantExp(nil) > maxIntegerExp {
			b := new(big.Int).Lsh(big.NewInt(1), maxIntegerExp)
			if f.Sign() < 0 {
				b.Neg(b)
			}
			return b, true
		}
		b, _ := f.Int(nil)
		return b, true
	case float32:
		return floatInteger(float64(n))
	case float64:
		return floatInteger(n)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

func floatInteger(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	b, _ := big.NewFloat(f).Int(nil)
	return b, true
}

func isFloat(v any) bool {
	switch n := v.(type) {
	case float32, float64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case bool:
		return false
	}
	_, ok := asInteger(v)
	return ok
}

// asDateTime converts text, integer epoch seconds and time.Time.
// ok is false when the value has the wrong class; err is set when it has the
// right class but cannot be read as a point in time.
func asDateTime(v any) (t time.Time, ok bool, err error) {
	switch x := v.(type) {
	case time.Time:
		return x, true, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, false, nil
		}
		return *x, true, nil
	case string:
		t, err := parseDateTime(x)
		return t, true, err
	case bool:
		return time.Time{}, false, nil
	}
	n, isInt := asInteger(v)
	if !isInt {
		return time.Time{}, false, nil
	}
	if !n.IsInt64() {
		return time.Time{}, true, fmt.Errorf("epoch %s out of range", n)
	}
	return time.Unix(n.Int64(), 0).UTC(), true, nil
}

// typeName renders a document value's class for messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float32, float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return rv.Type().String()
}

func display(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
