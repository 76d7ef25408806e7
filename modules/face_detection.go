package modules

import (
	"fmt"
	"image"
	"sync"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"gocv.io/x/gocv"
)

// FaceRegion is the most prominent detected face: its rectangle in
// original-image coordinates plus the BGR crop taken from the source image.
type FaceRegion struct {
	Rect image.Rectangle
	Face gocv.Mat
}

func (r *FaceRegion) Close() {
	r.Face.Close()
}

// FaceDetector locates the most prominent face in an image using an ordered
// sequence of cascade-classifier strategies. Detection is free of side
// effects; the mutex only serializes access to the shared classifier handle.
type FaceDetector struct {
	params     *config.FaceDetectorParams
	strategies []config.DetectionStrategy

	mu      sync.Mutex
	cascade gocv.CascadeClassifier
}

// NewFaceDetector loads the cascade artifact and fails fast when it is
// missing or structurally invalid.
func NewFaceDetector(params *config.FaceDetectorParams, strategies []config.DetectionStrategy) (*FaceDetector, error) {
	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(params.CascadeFile) {
		cascade.Close()
		return nil, fmt.Errorf("cannot load cascade classifier from %q", params.CascadeFile)
	}

	return &FaceDetector{
		params:     params,
		strategies: strategies,
		cascade:    cascade,
	}, nil
}

func (d *FaceDetector) Close() {
	d.cascade.Close()
}

/*
Detect locates the most prominent face in a BGR image.

Inputs:

  - img (gocv.Mat): input BGR image.

Outputs:

  - region (*FaceRegion): winning face rectangle in original coordinates,
    margin-expanded and clamped, with its crop from the input image.

Returns ErrNoFaceDetected when every strategy yields zero candidates or the
final region falls below the minimum size floor.
*/
func (d *FaceDetector) Detect(img gocv.Mat) (*FaceRegion, error) {
	imgH, imgW := img.Size()[0], img.Size()[1]

	working := img
	scale := 1.0
	longest := imgH
	if imgW > imgH {
		longest = imgW
	}
	if longest > d.params.MaxWorkingSize {
		scale = float64(d.params.MaxWorkingSize) / float64(longest)
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(img, &scaled, image.Pt(
			int(float64(imgW)*scale+0.5),
			int(float64(imgH)*scale+0.5),
		), 0, 0, gocv.InterpolationLinear)
		working = scaled
	}

	var winner image.Rectangle
	winScale := 0.0
	for _, s := range d.strategies {
		frame := working
		frameScale := scale
		if s.FullResolution {
			// Full-resolution retries only apply when detection ran on a
			// downscaled frame.
			if scale == 1.0 {
				continue
			}
			frame = img
			frameScale = 1.0
		}

		candidates := d.runStrategy(frame, s)
		if len(candidates) == 0 {
			continue
		}
		// Candidate order from the classifier is not guaranteed stable; the
		// first of equal-area candidates wins as a deliberately weak tie-break.
		winner = largestRegion(candidates)
		winScale = frameScale
		break
	}
	if winScale == 0.0 {
		return nil, ErrNoFaceDetected
	}

	rect, err := d.finalizeRegion(winner, winScale, imgW, imgH)
	if err != nil {
		return nil, err
	}

	crop := img.Region(rect)
	defer crop.Close()
	return &FaceRegion{Rect: rect, Face: crop.Clone()}, nil
}

// finalizeRegion maps the winning rectangle back to original coordinates,
// applies the margin and rejects regions below the minimum-size floor.
func (d *FaceDetector) finalizeRegion(winner image.Rectangle, winScale float64, imgW, imgH int) (image.Rectangle, error) {
	rect := rescaleRegion(winner, winScale)
	rect = expandAndClamp(rect, imgW, imgH, d.params.MarginFrac)
	if rect.Dx() < d.params.MinRegionPx || rect.Dy() < d.params.MinRegionPx {
		return image.Rectangle{}, ErrNoFaceDetected
	}
	return rect, nil
}

// runStrategy executes one detection attempt: grayscale conversion, optional
// local contrast enhancement, then the cascade sweep with the strategy's
// parameter set.
func (d *FaceDetector) runStrategy(frame gocv.Mat, s config.DetectionStrategy) []image.Rectangle {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	input := gray
	if s.Equalize {
		clahe := gocv.NewCLAHEWithParams(d.params.ClipLimit, image.Pt(d.params.TileGridSize, d.params.TileGridSize))
		defer clahe.Close()
		enhanced := gocv.NewMat()
		defer enhanced.Close()
		clahe.Apply(gray, &enhanced)
		input = enhanced
	}

	maxSize := image.Pt(0, 0)
	if s.MaxSizeFrac > 0 {
		fh, fw := frame.Size()[0], frame.Size()[1]
		maxSize = image.Pt(int(float64(fw)*s.MaxSizeFrac), int(float64(fh)*s.MaxSizeFrac))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cascade.DetectMultiScaleWithParams(
		input,
		s.ScaleFactor,
		s.MinNeighbors,
		0,
		image.Pt(s.MinSize, s.MinSize),
		maxSize,
	)
}

// largestRegion picks the maximum-area rectangle; strictly-greater comparison
// keeps the first of equal-area candidates.
func largestRegion(rects []image.Rectangle) image.Rectangle {
	best := rects[0]
	bestArea := best.Dx() * best.Dy()
	for _, r := range rects[1:] {
		if area := r.Dx() * r.Dy(); area > bestArea {
			best, bestArea = r, area
		}
	}
	return best
}

// rescaleRegion maps a rectangle detected on a downscaled frame back to
// original-image coordinates.
func rescaleRegion(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1.0 {
		return r
	}
	return image.Rect(
		int(float64(r.Min.X)/scale),
		int(float64(r.Min.Y)/scale),
		int(float64(r.Max.X)/scale),
		int(float64(r.Max.Y)/scale),
	)
}

// expandAndClamp grows the rectangle by marginFrac of its longer side on each
// edge, then clamps it to the image bounds.
func expandAndClamp(r image.Rectangle, imgW, imgH int, marginFrac float64) image.Rectangle {
	longest := r.Dx()
	if r.Dy() > longest {
		longest = r.Dy()
	}
	margin := int(float64(longest) * marginFrac)

	out := image.Rect(r.Min.X-margin, r.Min.Y-margin, r.Max.X+margin, r.Max.Y+margin)
	if out.Min.X < 0 {
		out.Min.X = 0
	}
	if out.Min.Y < 0 {
		out.Min.Y = 0
	}
	if out.Max.X > imgW {
		out.Max.X = imgW
	}
	if out.Max.Y > imgH {
		out.Max.Y = imgH
	}
	return out
}
