//go:build gocv
// +build gocv

package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"fabric-inspector/internal/domain/entity"
)

func TestDecodeToMat_FailuresReturnZeroMat(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     nil,
		"text":      []byte("this is definitely not a jpeg"),
		"oversized": encodePNG(t, image.NewGray(image.Rect(0, 0, 40, 30))),
	}
	for name, data := range inputs {
		mat, err := decodeToMat(data, 1000)
		require.ErrorIs(t, err, entity.ErrDecode, name)
		require.Equal(t, gocv.Mat{}, mat, name)
	}
}

func TestDecodeToMat_ThreeChannels(t *testing.T) {
	mat, err := decodeToMat(encodePNG(t, image.NewGray(image.Rect(0, 0, 12, 7))), 0)
	require.NoError(t, err)
	defer mat.Close()
	require.Equal(t, 12, mat.Cols())
	require.Equal(t, 7, mat.Rows())
	require.Equal(t, 3, mat.Channels())
}
