package cubefield

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneUniform_Bytes(t *testing.T) {
	u := sceneUniform{
		ViewProj: mgl32.Translate3D(1, 2, 3),
		Model:    mgl32.Scale3D(2, 2, 2),
		Color:    [4]float32{0.1, 0.2, 0.3, 0.4},
	}
	b := u.Bytes()
	require.Len(t, b, sceneUniformSize)

	at := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	// column-major: translation lives in elements 12..14
	assert.Equal(t, float32(1), at(12))
	assert.Equal(t, float32(3), at(14))
	assert.Equal(t, float32(2), at(16))
	assert.Equal(t, float32(0.4), at(35))
}

func TestSliceBytes(t *testing.T) {
	assert.Nil(t, sliceBytes([]float32(nil)))

	b := sliceBytes([]uint32{1, 0x01020304})
	require.Len(t, b, 8)
	assert.Equal(t, uint32(0x01020304), binary.LittleEndian.Uint32(b[4:]))
}

type handle struct {
	name string
	log  *[]string
}

func (h handle) Release() {
	*h.log = append(*h.log, h.name)
}

func TestReleaseStack_ReleasesInReverseOrder(t *testing.T) {
	var released []string
	var stack releaseStack
	for _, name := range []string{"surface", "adapter", "device"} {
		stack.push(handle{name: name, log: &released})
	}

	stack.release()
	assert.Equal(t, []string{"device", "adapter", "surface"}, released)

	// a second release is a no-op
	stack.release()
	assert.Len(t, released, 3)
}
