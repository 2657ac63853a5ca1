package vision

import (
	"image"
	"math"
)

const histBins = 256

// equalizeAdaptive выполняет CLAHE над серым изображением так же, как cv::CLAHE:
// гистограммы считаются по тайлам сетки tiles×tiles (справа и снизу изображение
// дополняется зеркально), гистограмма срезается по clipLimit, а значение пикселя
// билинейно интерполируется между LUT четырёх соседних тайлов.
func equalizeAdaptive(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	if tiles < 1 {
		tiles = 1
	}

	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles
	tileArea := tileW * tileH

	clip := 0
	if clipLimit > 0 {
		clip = maxInt(int(clipLimit*float64(tileArea)/histBins), 1)
	}
	lutScale := float64(histBins-1) / float64(tileArea)

	pix := func(x, y int) uint8 {
		return src.Pix[y*src.Stride+x]
	}

	luts := make([][histBins]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			var hist [histBins]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				sy := reflect101(y, h)
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[pix(reflect101(x, w), sy)]++
				}
			}
			if clip > 0 {
				clipHistogram(&hist, clip)
			}

			lut := &luts[ty*tiles+tx]
			sum := 0
			for i := 0; i < histBins; i++ {
				sum += hist[i]
				lut[i] = saturateUint8(float64(sum) * lutScale)
			}
		}
	}

	invTileW := 1 / float64(tileW)
	invTileH := 1 / float64(tileH)
	for y := 0; y < h; y++ {
		tyf := float64(y)*invTileH - 0.5
		ty1 := int(math.Floor(tyf))
		ty2 := ty1 + 1
		ya := tyf - float64(ty1)
		ty1 = maxInt(ty1, 0)
		ty2 = minInt(ty2, tiles-1)

		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			txf := float64(x)*invTileW - 0.5
			tx1 := int(math.Floor(txf))
			tx2 := tx1 + 1
			xa := txf - float64(tx1)
			tx1 = maxInt(tx1, 0)
			tx2 = minInt(tx2, tiles-1)

			v := pix(x, y)
			top := float64(luts[ty1*tiles+tx1][v])*(1-xa) + float64(luts[ty1*tiles+tx2][v])*xa
			bottom := float64(luts[ty2*tiles+tx1][v])*(1-xa) + float64(luts[ty2*tiles+tx2][v])*xa
			row[x] = saturateUint8(top*(1-ya) + bottom*ya)
		}
	}
	return dst
}

// clipHistogram срезает бины выше clip и равномерно раздаёт излишек.
func clipHistogram(hist *[histBins]int, clip int) {
	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}

	batch := excess / histBins
	residual := excess - batch*histBins
	for i := range hist {
		hist[i] += batch
	}
	if residual > 0 {
		step := maxInt(histBins/residual, 1)
		for i := 0; i < histBins && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// reflect101 отражает индекс за правой границей без повтора крайнего элемента (BORDER_REFLECT_101).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2*n - 2
	i %= period
	if i >= n {
		i = period - i
	}
	return i
}

func saturateUint8(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
