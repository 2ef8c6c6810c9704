package zschema_test

import (
	"testing"

	z "github.com/reoring/zschema"
)

// hostSchema is the scan-record schema most compiler tests share.
func hostSchema(t *testing.T) *z.Record {
	t.Helper()
	heartbleed, err := z.NewSubRecord(z.Definition{
		z.Name("heartbeat_support"):     z.Boolean(z.ProtoIndex(11)),
		z.Name("heartbleed_vulnerable"): z.Boolean(z.Category("Vulnerabilities"), z.ProtoIgnore(true)),
		z.Name("timestamp"):             z.DateTime(z.ProtoIndex(10)),
	}, z.ProtoIndex(77))
	if err != nil {
		t.Fatalf("heartbleed: %v", err)
	}
	p443, err := z.NewSubRecord(z.Definition{
		z.Name("tls"):        z.String(z.ProtoIndex(1)),
		z.Name("heartbleed"): heartbleed,
	}, z.Category("heartbleed"), z.ProtoIndex(3))
	if err != nil {
		t.Fatalf("p443: %v", err)
	}
	host, err := z.NewRecord(z.Definition{
		z.Name("ipstr"): z.IPv4Address(z.Required(true), z.Examples("8.8.8.8"), z.ProtoIndex(1)),
		z.Name("ip"):    z.Unsigned32BitInteger(z.Doc("The IP Address of the host"), z.ProtoIndex(2)),
		z.Port(443):     p443,
		z.Name("tags"):  z.MustListOf(z.String(), z.ProtoIndex(47)),
	})
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	return host
}

func mustIssues(t *testing.T, err error) z.Issues {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	iss, ok := z.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues error, got %T: %v", err, err)
	}
	return iss
}
