package utils

import (
	"errors"

	"gocv.io/x/gocv"
)

// DecodeImageToMat decodes an encoded image buffer into a BGR Mat. The caller
// owns the returned Mat and must Close it. Channel order stays BGR; callers
// that need RGB convert explicitly.
//
// IMDecode only errors on an empty buffer; undecodable content comes back as
// an empty Mat, which is rejected here so garbage bytes fail cleanly.
func DecodeImageToMat(buf []byte) (*gocv.Mat, error) {
	mat, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("buffer does not contain a decodable image")
	}
	return &mat, nil
}

// BGRToRGB returns a new Mat with channels reordered from BGR to RGB.
func BGRToRGB(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToRGB)
	return dst
}
