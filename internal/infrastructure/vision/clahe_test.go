package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualizeAdaptive_FlatInputStaysFlat(t *testing.T) {
	for _, v := range []uint8{0, 1, 128, 254, 255} {
		src := image.NewGray(image.Rect(0, 0, 45, 33))
		for i := range src.Pix {
			src.Pix[i] = v
		}
		out := equalizeAdaptive(src, DefaultClipLimit, DefaultTileGrid)
		for i := range out.Pix {
			require.Equal(t, out.Pix[0], out.Pix[i], "value %d", v)
		}
	}
}

func TestEqualizeAdaptive_StretchesLowContrast(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(100 + (x+y)%8)})
		}
	}
	out := equalizeAdaptive(src, 40, 2)

	lo, hi := spread(src.Pix)
	outLo, outHi := spread(out.Pix)
	require.Greater(t, int(outHi)-int(outLo), int(hi)-int(lo))
}

func TestEqualizeAdaptive_ClipLimitBoundsAmplification(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(100 + (x+y)%8)})
		}
	}
	loose := equalizeAdaptive(src, 40, 2)
	tight := equalizeAdaptive(src, 1, 2)

	looseLo, looseHi := spread(loose.Pix)
	tightLo, tightHi := spread(tight.Pix)
	require.Less(t, int(tightHi)-int(tightLo), int(looseHi)-int(looseLo))
}

func TestEqualizeAdaptive_SmallerThanGrid(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []uint8{0, 50, 100, 150, 200, 250})
	out := equalizeAdaptive(src, DefaultClipLimit, DefaultTileGrid)
	require.Equal(t, src.Rect, out.Rect)
}

func TestClipHistogram_PreservesMass(t *testing.T) {
	var hist [histBins]int
	hist[10] = 5000
	hist[200] = 300
	clipHistogram(&hist, 100)

	total := 0
	for _, v := range hist {
		total += v
	}
	require.Equal(t, 5300, total)
	require.LessOrEqual(t, hist[10], 100+5300/histBins+1)
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 0, reflect101(5, 1))
	require.Equal(t, 3, reflect101(3, 5))
	require.Equal(t, 3, reflect101(5, 5))
	require.Equal(t, 2, reflect101(6, 5))
	require.Equal(t, 0, reflect101(8, 5))
	require.Equal(t, 1, reflect101(9, 5))
}

func spread(pix []uint8) (lo, hi uint8) {
	lo, hi = 255, 0
	for _, v := range pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
