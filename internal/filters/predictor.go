package filters

import "fmt"

// Params holds the /DecodeParms entries that affect FlateDecode. Zero
// fields take their PDF defaults.
type Params struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
}

func (p Params) withDefaults() Params {
	if p.Colors <= 0 {
		p.Colors = 1
	}
	if p.BitsPerComponent <= 0 {
		p.BitsPerComponent = 8
	}
	if p.Columns <= 0 {
		p.Columns = 1
	}
	return p
}

// unpredict reverses a TIFF (2) or PNG (10-15) predictor.
func (p Params) unpredict(data []byte) ([]byte, error) {
	p = p.withDefaults()
	if p.BitsPerComponent != 8 {
		return nil, fmt.Errorf("only 8 bits per component are supported, got %d", p.BitsPerComponent)
	}

	switch {
	case p.Predictor == 2:
		return p.unpredictTIFF(data)
	case p.Predictor >= 10 && p.Predictor <= 15:
		return p.unpredictPNG(data)
	}
	return nil, fmt.Errorf("unsupported predictor")
}

// unpredictTIFF adds each sample to the one a pixel to its left.
func (p Params) unpredictTIFF(data []byte) ([]byte, error) {
	rowSize := p.Columns * p.Colors
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(out); row += rowSize {
		for i := row + p.Colors; i < row+rowSize; i++ {
			out[i] += out[i-p.Colors]
		}
	}
	return out, nil
}

// unpredictPNG decodes rows that each start with a PNG filter type byte.
// The predictor number only says PNG prediction is in use; the per-row byte
// picks the filter.
func (p Params) unpredictPNG(data []byte) ([]byte, error) {
	bpp := p.Colors
	width := p.Columns * p.Colors
	stride := width + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*width)
	prev := make([]byte, width)

	for r := 0; r < rows; r++ {
		filter := data[r*stride]
		in := data[r*stride+1 : (r+1)*stride]
		cur := out[r*width : (r+1)*width]

		for i := range cur {
			var left, upLeft byte
			up := prev[i]
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}

			switch filter {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter %d", r, filter)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth returns whichever of left, up and upper-left is closest to
// left + up - upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
