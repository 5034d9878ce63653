package rimage

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Depth is the stored depth of a pixel, in units of 1/depth-scale meters.
type Depth uint16

// MaxDepth is the largest storable depth value.
const MaxDepth = Depth(math.MaxUint16)

// DepthMap is a row-major field of 16-bit quantized depth samples. Zero conventionally means
// the sensor had no reading at that pixel.
type DepthMap struct {
	width  int
	height int

	data []Depth
}

// NewEmptyDepthMap returns an all-zero depth map of the given size.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]Depth, width*height),
	}
}

// Width returns the horizontal size of the map.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the vertical size of the map.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the rectangle dimensions of the map.
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

func (dm *DepthMap) kxy(x, y int) int {
	return (y * dm.width) + x
}

// Get returns the depth at the given point.
func (dm *DepthMap) Get(p image.Point) Depth {
	return dm.data[dm.kxy(p.X, p.Y)]
}

// GetDepth returns the depth at (x, y).
func (dm *DepthMap) GetDepth(x, y int) Depth {
	return dm.data[dm.kxy(x, y)]
}

// Set sets the depth at (x, y).
func (dm *DepthMap) Set(x, y int, val Depth) {
	dm.data[dm.kxy(x, y)] = val
}

// ToGray16Picture converts the depth map into a 16-bit grayscale image for lossless storage.
func (dm *DepthMap) ToGray16Picture() *image.Gray16 {
	grayImg := image.NewGray16(dm.Bounds())
	for y := 0; y < dm.height; y++ {
		for x := 0; x < dm.width; x++ {
			grayImg.SetGray16(x, y, color.Gray16{Y: uint16(dm.GetDepth(x, y))})
		}
	}
	return grayImg
}

// ConvertImageToDepthMap takes a grayscale image and interprets each sample as a raw depth value.
// 8-bit samples are kept at their integer value rather than being widened to 16 bits.
func ConvertImageToDepthMap(img image.Image) (*DepthMap, error) {
	if img == nil {
		return nil, errors.New("cannot convert nil image to a depth map")
	}
	b := img.Bounds()
	dm := NewEmptyDepthMap(b.Dx(), b.Dy())
	switch ii := img.(type) {
	case *image.Gray16:
		for y := 0; y < dm.height; y++ {
			for x := 0; x < dm.width; x++ {
				dm.Set(x, y, Depth(ii.Gray16At(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	case *image.Gray:
		for y := 0; y < dm.height; y++ {
			for x := 0; x < dm.width; x++ {
				dm.Set(x, y, Depth(ii.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	default:
		for y := 0; y < dm.height; y++ {
			for x := 0; x < dm.width; x++ {
				c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				dm.Set(x, y, Depth(c.Y))
			}
		}
	}
	return dm, nil
}

// Resize returns the map scaled to width x height using nearest neighbor sampling, so every
// output sample is a value that was actually measured.
func (dm *DepthMap) Resize(width, height int) *DepthMap {
	if dm.width == width && dm.height == height {
		out := NewEmptyDepthMap(width, height)
		copy(out.data, dm.data)
		return out
	}
	src := dm.ToGray16Picture()
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := NewEmptyDepthMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, Depth(dst.Gray16At(x, y).Y))
		}
	}
	return out
}

// Meters converts the stored samples back to meters given the png depth scale, i.e. the
// number of stored units per meter.
func (dm *DepthMap) Meters(pngDepthScale float64) []float32 {
	out := make([]float32, len(dm.data))
	for i, d := range dm.data {
		out[i] = float32(DequantizeDepth(d, pngDepthScale))
	}
	return out
}

// QuantizeDepth converts a depth in meters to its stored value by multiplying with the depth
// scale and truncating. Values outside of the storable range are clamped and NaN maps to zero.
func QuantizeDepth(meters, depthScale float64) Depth {
	v := meters * depthScale
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(MaxDepth):
		return MaxDepth
	default:
		return Depth(v)
	}
}

// DequantizeDepth converts a stored depth value back to meters.
func DequantizeDepth(d Depth, depthScale float64) float64 {
	return float64(d) / depthScale
}
