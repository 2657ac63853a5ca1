//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"fabric-inspector/internal/domain/entity"
)

// Extract декодирует изображение, сжимает его до Width×Height билинейной
// интерполяцией и возвращает пиксели в порядке B,G,R, как их видит OpenCV.
func (e *FeatureExtractor) Extract(ctx context.Context, imageData []byte) (entity.FeatureVector, error) {
	_ = ctx
	src, err := decodeImage(imageData, e.MaxPixels)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	features := make(entity.FeatureVector, 0, e.Width*e.Height*entity.FeatureChannels)
	for y := 0; y < e.Height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+4*e.Width]
		for x := 0; x < e.Width; x++ {
			px := row[4*x : 4*x+4]
			features = append(features, float64(px[2]), float64(px[1]), float64(px[0]))
		}
	}
	return features, nil
}

// Enhance строит карту дефектов в исходном разрешении.
func (m *SpectralMapper) Enhance(ctx context.Context, imageData []byte) (image.Image, error) {
	_ = ctx
	src, err := decodeImage(imageData, m.MaxPixels)
	if err != nil {
		return nil, err
	}

	enhanced := equalizeAdaptive(toGray(src), m.ClipLimit, m.TileGrid)
	return applyJet(enhanced), nil
}

// decodeImage декодирует JPEG/PNG и возвращает непрозрачное RGBA-изображение с началом в (0,0).
// Альфа-канал отбрасывается без смешивания, как при IMREAD_COLOR.
func decodeImage(imageData []byte, maxPixels int) (*image.RGBA, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty input", entity.ErrDecode)
	}
	if err := checkRasterSize(imageData, maxPixels); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty raster", entity.ErrDecode)
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst, nil
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst, nil
}

// toGray переводит RGB в яркость с коэффициентами BT.601 в фиксированной точке, как cv::cvtColor.
func toGray(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*b.Dx()]
		out := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range out {
			r, g, bl := int(row[4*x]), int(row[4*x+1]), int(row[4*x+2])
			out[x] = uint8((r*4899 + g*9617 + bl*1868 + 1<<13) >> 14)
		}
	}
	return gray
}
