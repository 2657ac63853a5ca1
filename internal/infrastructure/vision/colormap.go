package vision

import (
	"image"
	"image/color"
	"math"
)

// jetLUT таблица псевдоцвета "jet": тёмно-синий -> голубой -> зелёный -> жёлтый -> тёмно-красный.
var jetLUT = buildJetLUT()

func buildJetLUT() [histBins]color.RGBA {
	var lut [histBins]color.RGBA
	for i := range lut {
		x := float64(i) / float64(histBins-1)
		lut[i] = color.RGBA{
			R: jetChannel(4*x - 3),
			G: jetChannel(4*x - 2),
			B: jetChannel(4*x - 1),
			A: 0xff,
		}
	}
	return lut
}

// jetChannel треугольная компонента jet с плато: 1.5 - |t|, обрезанная до [0, 1].
func jetChannel(t float64) uint8 {
	v := 1.5 - math.Abs(t)
	return saturateUint8(math.Max(0, math.Min(1, v)) * 255)
}

// applyJet переводит серое изображение в трёхканальное через jetLUT.
func applyJet(gray *image.Gray) *image.RGBA {
	b := gray.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+4*b.Dx()]
		for x, v := range src {
			c := jetLUT[v]
			dst[4*x] = c.R
			dst[4*x+1] = c.G
			dst[4*x+2] = c.B
			dst[4*x+3] = c.A
		}
	}
	return out
}
