package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/zschema/internal/cli"
)

const schemasYAML = `
schemas:
  host:
    doc: a scanned host
    fields:
      ip: {type: Unsigned32BitInteger, doc: "numeric address", proto_index: 1}
      name: {type: String, required: true, proto_index: 2}
      "port:443":
        type: SubRecord
        proto_index: 3
        fields:
          tls: {type: String, proto_index: 1}
  other:
    fields:
      id: {type: String, proto_index: 1}
`

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func setup(t *testing.T) (dir, schemas string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	return dir, writeFile(t, dir, "schemas.yaml", schemasYAML)
}

func TestBigQuery(t *testing.T) {
	_, schemas := setup(t)
	r := run(t, "", "bigquery", schemas+":host")
	require.Equal(t, 0, r.code, r.stderr)

	var fields []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &fields))
	byName := map[string]map[string]any{}
	for _, f := range fields {
		byName[f["name"].(string)] = f
	}
	assert.Equal(t, "INTEGER", byName["ip"]["type"])
	assert.Equal(t, "REQUIRED", byName["name"]["mode"])
	assert.Equal(t, "RECORD", byName["p443"]["type"])
}

func TestSchemaRef(t *testing.T) {
	_, schemas := setup(t)

	r := run(t, "", "bigquery", schemas)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "declares 2 schemas")

	r = run(t, "", "bigquery", schemas+":missing")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "missing")

	r = run(t, "", "proto", filepath.Join(filepath.Dir(schemas), "nope.yaml")+":host")
	assert.Equal(t, 1, r.code)
}

func TestCompileCommands(t *testing.T) {
	_, schemas := setup(t)
	ref := schemas + ":host"

	r := run(t, "", "elasticsearch", ref)
	require.Equal(t, 0, r.code, r.stderr)
	var mapping map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &mapping))
	assert.Contains(t, mapping, "host")

	r = run(t, "", "proto", ref)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "message")
	assert.Contains(t, r.stdout, "uint32 ip = 1;")

	r = run(t, "", "flat", ref)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"443.tls"`)

	r = run(t, "", "docs-bq", ref)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"p443"`)

	r = run(t, "", "docs-es", "--indent", "0", ref)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, 1, strings.Count(r.stdout, "\n"), "compact output is one line")
}

func TestDescribe(t *testing.T) {
	_, schemas := setup(t)

	r := run(t, "", "json", schemas+":host")
	require.Equal(t, 0, r.code, r.stderr)
	var f map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &f))
	assert.Equal(t, "a scanned host", f["schemas"]["host"]["doc"])

	r = run(t, "", "describe", "-o", "yaml", schemas+":host")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "schemas:")
	assert.Contains(t, r.stdout, "port:443")

	r = run(t, "", "describe", "-o", "xml", schemas+":host")
	assert.Equal(t, 1, r.code)
}

func TestTextListTypes(t *testing.T) {
	_, schemas := setup(t)

	r := run(t, "", "text", schemas+":host")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "host Record")
	assert.Contains(t, r.stdout, "ip long (Unsigned32BitInteger) # numeric address")

	r = run(t, "", "text", "--engine", "bq", schemas+":host")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "p443 SubRecord")

	r = run(t, "", "list", schemas)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "host\nother\n", r.stdout)

	r = run(t, "", "types")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "IPv4Address\n")
	assert.Contains(t, r.stdout, "NestedListOf\n")
}

func TestValidate_File(t *testing.T) {
	dir, schemas := setup(t)
	docs := writeFile(t, dir, "docs.json",
		`{"ip": 1, "name": "a", "443": {"tls": "x"}}`+"\n"+
			`{"ip": "x", "name": "b"}`+"\n"+
			`{"ip": 2, "name": null}`+"\n")

	r := run(t, "", "validate", schemas+":host", docs)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, docs+":1: error invalid_type at /ip")
	assert.Contains(t, r.stdout, docs+":2: error required at /name")
	assert.NotContains(t, r.stdout, docs+":0:")
	assert.Contains(t, r.stderr, "2 of 3 documents failed validation")
}

func TestValidate_StdinPolicy(t *testing.T) {
	_, schemas := setup(t)
	in := `{"ip": "x", "name": "b"}`

	r := run(t, in, "validate", schemas+":host")
	assert.Equal(t, 1, r.code)

	r = run(t, in, "validate", "--policy", "warn", schemas+":host", "-")
	assert.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "validation warning")

	r = run(t, in, "validate", "--policy", "ignore", "--jobs", "1", schemas+":host")
	assert.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stderr, "validation warning")
}

func TestValidate_EnvironmentPolicy(t *testing.T) {
	_, schemas := setup(t)
	t.Setenv("ZSCHEMA_POLICY", "ignore")
	r := run(t, `{"ip": "x", "name": "b"}`, "validate", schemas+":host")
	assert.Equal(t, 0, r.code, r.stderr)
}

// lineWriter hands every write to the test as it happens.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestValidate_ReportsBeforeEndOfInput(t *testing.T) {
	_, schemas := setup(t)
	pr, pw := io.Pipe()
	out := make(lineWriter, 16)
	code := make(chan int, 1)
	go func() {
		code <- cli.Run(context.Background(), []string{"validate", "--jobs", "2", schemas + ":host"}, pr, out, io.Discard)
	}()

	for i, doc := range []string{`{"ip": "x", "name": "b"}`, `{"ip": 1, "name": null}`} {
		_, err := io.WriteString(pw, doc+"\n")
		require.NoError(t, err)
		select {
		case line := <-out:
			assert.Contains(t, line, fmt.Sprintf("-:%d: error", i))
		case <-time.After(10 * time.Second):
			t.Fatalf("document %d not reported while the stream is open", i)
		}
	}
	require.NoError(t, pw.Close())
	assert.Equal(t, 1, <-code)
}

func TestValidate_YAML(t *testing.T) {
	dir, schemas := setup(t)
	docs := writeFile(t, dir, "docs.yaml", "ip: 1\nname: a\n---\nip: 2\nname: b\nextra: true\n")

	r := run(t, "", "validate", schemas+":host", docs)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, docs+":1: error")
	assert.Contains(t, r.stdout, "extra")
	assert.NotContains(t, r.stdout, docs+":0:")
}

func TestValidate_Duplicates(t *testing.T) {
	_, schemas := setup(t)
	in := `{"name": "a"}` + "\n" + `{"name": "a", "name": "b"}` + "\n"

	r := run(t, in, "validate", schemas+":host")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "duplicate key")
	assert.Contains(t, r.stderr, "1 of 2 documents failed validation")

	r = run(t, in, "validate", "--duplicates", "warn", schemas+":host")
	assert.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "duplicate key")
}

func TestValidate_MaxDepth(t *testing.T) {
	_, schemas := setup(t)
	r := run(t, `{"443": {"tls": {"a": {"b": 1}}}}`, "validate", "--max-depth", "2", schemas+":host")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "too deep")
}

func TestConfigErrors(t *testing.T) {
	_, schemas := setup(t)
	r := run(t, "", "validate", "--jobs", "0", schemas+":host")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "config")

	r = run(t, "", "validate", "--format", "xml", schemas+":host")
	assert.Equal(t, 1, r.code)
}
