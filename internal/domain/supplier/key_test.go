package supplier

import (
	"testing"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/stretchr/testify/assert"
)

func TestKey_Confirmed(t *testing.T) {
	k := Confirmed("sup-42")

	assert.True(t, k.IsConfirmed())
	assert.False(t, k.IsProvisional())
	assert.Equal(t, "sup-42", k.SupplierID())
	assert.Equal(t, "", k.ProductID())
	assert.Equal(t, "sup-42", k.Wire())
}

func TestKey_Provisional(t *testing.T) {
	k := Provisional("p99")

	assert.True(t, k.IsProvisional())
	assert.False(t, k.IsConfirmed())
	assert.Equal(t, "p99", k.ProductID())
	assert.Equal(t, "", k.SupplierID())
	assert.Equal(t, "product:p99", k.Wire())
}

func TestKey_ZeroValue(t *testing.T) {
	var k Key

	assert.True(t, k.IsZero())
	assert.Equal(t, "", k.Wire())
}

func TestKey_UsableAsMapKey(t *testing.T) {
	m := map[Key]int{
		Confirmed("a"):   1,
		Provisional("a"): 2,
	}

	// Confirmed and provisional keys with the same id must not collide.
	assert.Equal(t, 1, m[Confirmed("a")])
	assert.Equal(t, 2, m[Provisional("a")])
}

func TestDirectory_NilKnowsEverything(t *testing.T) {
	var d *Directory

	assert.True(t, d.Known("anything"))
}

func TestDirectory_Membership(t *testing.T) {
	filter := bloom.NewWithEstimates(1000, 0.001)
	filter.AddString("sup-1")
	filter.AddString("sup-2")
	d := NewDirectory(filter)

	assert.True(t, d.Known("sup-1"))
	assert.True(t, d.Known("sup-2"))
	assert.False(t, d.Known("sup-missing"))
}
