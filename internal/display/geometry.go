package display

// Window sizing, in the host's layout units.
const (
	MinWidth         = 400
	DefaultImageSize = 512

	// A terminal cell is taken to be 8 units wide and 16 units tall.
	CellWidth  = 8
	CellHeight = 16
)

// Image describes the optional background image shown above the status line.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Geometry is the resolved window size.
type Geometry struct {
	ImageWidth  int
	ImageHeight int
	// Width is both the minimum and maximum window width.
	Width int
}

// NewGeometry resolves the window size: no image means a 0x0 image area, an
// image without a size defaults to 512x512, and the window is never narrower
// than MinWidth.
func NewGeometry(img Image) Geometry {
	if img.Path == "" {
		return Geometry{Width: MinWidth}
	}
	w, h := img.Width, img.Height
	if w <= 0 {
		w = DefaultImageSize
	}
	if h <= 0 {
		h = DefaultImageSize
	}
	return Geometry{ImageWidth: w, ImageHeight: h, Width: max(MinWidth, w)}
}

// Columns is the window width in terminal cells.
func (g Geometry) Columns() int {
	return g.Width / CellWidth
}

// ImageRows is the image height in terminal cells.
func (g Geometry) ImageRows() int {
	return g.ImageHeight / CellHeight
}

// ImageColumns is the image width in terminal cells.
func (g Geometry) ImageColumns() int {
	return g.ImageWidth / CellWidth
}
