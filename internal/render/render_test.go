package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	z "github.com/reoring/zschema"
	"github.com/reoring/zschema/internal/render"
)

func TestText(t *testing.T) {
	rec := z.MustRecord(z.Definition{
		z.Name("ip"):   z.IPv4Address(z.Required(true), z.Doc("host address")),
		z.Name("kind"): z.Enum([]string{"USER", "HOST"}),
		z.Port(443): z.MustSubRecord(z.Definition{
			z.Name("tls"): z.String(),
		}, z.Category("web")),
		z.Name("tags"): z.MustListOf(z.String()),
	})

	out := render.Text(rec.DocsES("host"), render.Options{})
	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)

	assert.Contains(t, out, "host Record")
	assert.Contains(t, out, "ip ip (IPv4Address) required # host address")
	assert.Contains(t, out, "kind keyword (Enum) {USER|HOST}")
	assert.Contains(t, out, "443 SubRecord [web]")
	assert.Contains(t, out, "tls keyword (String) [web]")

	idx := func(s string) int {
		for i, l := range lines {
			if strings.Contains(l, s) {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("443 SubRecord"), idx("tls keyword"), "children follow their parent")
	assert.Less(t, idx(" ip ip"), idx("kind keyword"), "fields are sorted")
}

func TestText_Empty(t *testing.T) {
	assert.Empty(t, strings.TrimSpace(render.Text(nil, render.Options{})))
}
