package annotation

// Patch is a partial update. Nil fields are left alone and fields that do
// not apply to the target kind are ignored. Numeric fields are clamped to
// the ranges the editor allows.
type Patch struct {
	X        *float64
	Y        *float64
	Lat      *float64
	Lng      *float64
	Label    *string
	Rotation *float64

	// point
	Size              *float64
	Color             *string
	AttachedImageURLs *[]string

	// text and shape box
	Width  *float64
	Height *float64

	// text
	Content           *string
	FontSize          *float64
	FontWeight        *FontWeight
	TextColor         *string
	BackgroundColor   *string
	BackgroundOpacity *float64
	BorderColor       *string
	BorderWidth       *float64

	// shape
	Endpoints   *Endpoints
	StrokeColor *string
	StrokeWidth *float64
	FillColor   *string
	FillOpacity *float64
}

// Apply merges p into a.
func (p Patch) Apply(a Annotation) {
	c := a.Base()
	setF(&c.X, p.X)
	setF(&c.Y, p.Y)
	if p.Lat != nil {
		c.Lat = Ptr(*p.Lat)
	}
	if p.Lng != nil {
		c.Lng = Ptr(*p.Lng)
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
	setF(&c.Rotation, p.Rotation)

	switch v := a.(type) {
	case *Point:
		if p.Size != nil {
			v.Size = clamp(*p.Size, MinPointSize, MaxPointSize)
		}
		setS(&v.Color, p.Color)
		if p.AttachedImageURLs != nil {
			v.AttachedImageURLs = normalizeURLs(*p.AttachedImageURLs)
		}
	case *TextNote:
		setF(&v.Width, p.Width)
		setF(&v.Height, p.Height)
		setS(&v.Content, p.Content)
		if p.FontSize != nil {
			v.FontSize = clamp(*p.FontSize, MinFontSize, MaxFontSize)
		}
		if p.FontWeight != nil {
			v.FontWeight = *p.FontWeight
		}
		setS(&v.TextColor, p.TextColor)
		setS(&v.BackgroundColor, p.BackgroundColor)
		if p.BackgroundOpacity != nil {
			v.BackgroundOpacity = Ptr(clamp(*p.BackgroundOpacity, 0, 1))
		}
		setS(&v.BorderColor, p.BorderColor)
		if p.BorderWidth != nil {
			v.BorderWidth = Ptr(clamp(*p.BorderWidth, 0, MaxBorderWidth))
		}
	case *Shape:
		setF(&v.Width, p.Width)
		setF(&v.Height, p.Height)
		if p.Endpoints != nil && v.ShapeType.HasEndpoints() {
			ep := *p.Endpoints
			v.Endpoints = &ep
		}
		setS(&v.StrokeColor, p.StrokeColor)
		if p.StrokeWidth != nil {
			v.StrokeWidth = clamp(*p.StrokeWidth, MinStrokeWidth, MaxStrokeWidth)
		}
		setS(&v.FillColor, p.FillColor)
		if p.FillOpacity != nil {
			v.FillOpacity = clamp(*p.FillOpacity, 0, 1)
		}
	}
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setS(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func normalizeURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
