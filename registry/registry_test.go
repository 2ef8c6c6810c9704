package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/registry"
)

func record() *zschema.Record {
	return zschema.MustRecord(zschema.Definition{zschema.Name("a"): zschema.String()})
}

func TestRegisterAndGet(t *testing.T) {
	r := registry.New()
	host := record()
	require.NoError(t, r.Register("host", host))

	got, err := r.Get("host")
	require.NoError(t, err)
	assert.Same(t, host, got)

	_, err = r.Get("certificate")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRegisterDuplicate(t *testing.T) {
	var r registry.Registry
	require.NoError(t, r.Register("host", record()))
	err := r.Register("host", record())
	assert.ErrorIs(t, err, registry.ErrDuplicate)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterRejectsEmpty(t *testing.T) {
	r := registry.New()
	assert.Error(t, r.Register("", record()))
	assert.Error(t, r.Register("x", nil))
	assert.Panics(t, func() { r.MustRegister("", record()) })
}

func TestNamesAndAllCopy(t *testing.T) {
	r := registry.New()
	r.MustRegister("b", record())
	r.MustRegister("a", record())
	assert.Equal(t, []string{"a", "b"}, r.Names())

	all := r.All()
	delete(all, "a")
	assert.Equal(t, 2, r.Len(), "All must return a copy")
}

func TestConcurrentRegister(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("s%d", i%10), record())
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, r.Len())
}
