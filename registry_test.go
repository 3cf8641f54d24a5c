package sigill

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedObject struct {
	kind ObjectKind
	log  *[]ObjectKind
}

func (o *recordedObject) Destroy() {
	*o.log = append(*o.log, o.kind)
}

type otherObject struct{}

func (o *otherObject) Destroy() {}

func allKinds() []ObjectKind {
	return []ObjectKind{
		KindShader, KindRenderTarget, KindFrameRing, KindSwapchain,
		KindSurface, KindDevice, KindDebugMessenger,
	}
}

func TestDestroyAllOrderIndependentOfInsertion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		kinds := allKinds()
		rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

		var log []ObjectKind
		r := NewObjectRegistry()
		for _, kind := range kinds {
			r.Set(kind, &recordedObject{kind: kind, log: &log})
		}

		r.DestroyAll()

		assert.Equal(t, allKinds(), log, "teardown must follow kind order regardless of insertion order")
		assert.False(t, r.Has(KindDevice), "registry must be empty after DestroyAll")
	}
}

func TestSetReplaceDestroysPrior(t *testing.T) {
	var log []ObjectKind
	r := NewObjectRegistry()

	r.Set(KindShader, &recordedObject{kind: KindShader, log: &log})
	assert.Empty(t, log)

	r.Set(KindShader, &recordedObject{kind: KindShader, log: &log})
	assert.Equal(t, []ObjectKind{KindShader}, log, "replaced entry must be destroyed")
}

func TestGetAbsentKind(t *testing.T) {
	r := NewObjectRegistry()
	_, ok := Get[*recordedObject](r, KindSwapchain)
	assert.False(t, ok)
}

func TestGetWrongType(t *testing.T) {
	var log []ObjectKind
	r := NewObjectRegistry()
	r.Set(KindShader, &recordedObject{kind: KindShader, log: &log})

	_, ok := Get[*otherObject](r, KindShader)
	assert.False(t, ok, "a stored value of a different type must not be returned")

	got, ok := Get[*recordedObject](r, KindShader)
	assert.True(t, ok)
	assert.Equal(t, KindShader, got.kind)
}

func TestMustGetPanicsWhenAbsent(t *testing.T) {
	r := NewObjectRegistry()
	assert.PanicsWithValue(t, "device must be initialized before being accessed", func() {
		MustGet[*recordedObject](r, KindDevice)
	})
}

func TestRemoveDoesNotDestroy(t *testing.T) {
	var log []ObjectKind
	r := NewObjectRegistry()
	r.Set(KindSurface, &recordedObject{kind: KindSurface, log: &log})

	obj := r.Remove(KindSurface)
	assert.NotNil(t, obj)
	assert.Empty(t, log, "Remove hands ownership to the caller without destroying")
	assert.False(t, r.Has(KindSurface))
}

func TestKindStrings(t *testing.T) {
	for _, kind := range allKinds() {
		assert.NotContains(t, kind.String(), "object-kind(", "every declared kind needs a name")
	}
}
