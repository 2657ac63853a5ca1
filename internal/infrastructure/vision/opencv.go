//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"fabric-inspector/internal/domain/entity"
)

// Extract декодирует изображение, сжимает его до Width×Height билинейной
// интерполяцией и возвращает пиксели в порядке OpenCV (B,G,R).
func (e *FeatureExtractor) Extract(ctx context.Context, imageData []byte) (entity.FeatureVector, error) {
	_ = ctx
	mat, err := decodeToMat(imageData, e.MaxPixels)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(e.Width, e.Height), 0, 0, gocv.InterpolationLinear)

	raw := resized.ToBytes()
	if len(raw) != e.Width*e.Height*entity.FeatureChannels {
		return nil, fmt.Errorf("unexpected resized buffer: %d bytes", len(raw))
	}

	features := make(entity.FeatureVector, len(raw))
	for i, v := range raw {
		features[i] = float64(v)
	}
	return features, nil
}

// Enhance строит карту дефектов в исходном разрешении.
func (m *SpectralMapper) Enhance(ctx context.Context, imageData []byte) (image.Image, error) {
	_ = ctx
	mat, err := decodeToMat(imageData, m.MaxPixels)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	clahe := gocv.NewCLAHEWithParams(m.ClipLimit, image.Pt(m.TileGrid, m.TileGrid))
	defer clahe.Close()

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(gray, &enhanced)

	spectral := gocv.NewMat()
	defer spectral.Close()
	gocv.ApplyColorMap(enhanced, &spectral, gocv.ColormapJet)

	img, err := spectral.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert defect map: %w", err)
	}
	return img, nil
}

// decodeToMat превращает байты изображения в трёхканальный gocv.Mat.
// При ошибке возвращается нулевой Mat, закрывать его не нужно.
func decodeToMat(imageData []byte, maxPixels int) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.Mat{}, fmt.Errorf("%w: empty input", entity.ErrDecode)
	}
	if err := checkRasterSize(imageData, maxPixels); err != nil {
		return gocv.Mat{}, err
	}
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.Mat{}, entity.ErrDecode
}
