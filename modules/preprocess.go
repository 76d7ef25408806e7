package modules

import (
	"image"

	"gocv.io/x/gocv"
	"gorgonia.org/tensor"
)

/*
PrepareFaceTensor converts a cropped BGR face into the embedding model's input
tensor. Step order is fixed for reproducibility: BGR→RGB, bilinear resize to
size×size, byte values mapped to [-1, 1] via (v - mean) * scale, HWC→CHW
transpose, then a singleton batch dimension.

Inputs:

  - face (gocv.Mat): cropped BGR face image.
  - size (int): model input side length.
  - mean, scale (float64): fixed normalization constants; no per-channel
    statistics are applied beyond them.

Outputs:

  - t (*tensor.Dense): float32 tensor of shape (1, 3, size, size).
*/
func PrepareFaceTensor(face gocv.Mat, size int, mean, scale float64) (*tensor.Dense, error) {
	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(face, &rgb, gocv.ColorBGRToRGB)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(rgb, &resized, image.Point{X: size, Y: size}, 0.0, 0.0, gocv.InterpolationLinear)

	imgTensors := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(size, size, 3),
	)
	for y := range size {
		for x := range size {
			for z := range 3 {
				err := imgTensors.SetAt((float32(resized.GetVecbAt(y, x)[z])-float32(mean))*float32(scale), y, x, z)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	err := imgTensors.T(2, 0, 1)
	if err != nil {
		return nil, err
	}
	newShape := []int{1}
	newShape = append(newShape, imgTensors.Shape()...)
	err = imgTensors.Reshape(newShape...)
	if err != nil {
		return nil, err
	}
	return imgTensors, nil
}
