package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type pointWire struct {
	Type Kind `json:"type"`
	Common
	Number            int      `json:"number"`
	Size              float64  `json:"size"`
	Color             string   `json:"color"`
	AttachedImageURLs []string `json:"attachedImageUrls,omitempty"`
	// older files carried a single attachment
	AttachedImageURL string `json:"attachedImageUrl,omitempty"`
}

type textWire struct {
	Type Kind `json:"type"`
	Common
	Width             float64    `json:"width"`
	Height            float64    `json:"height"`
	Content           string     `json:"content"`
	FontSize          float64    `json:"fontSize"`
	FontWeight        FontWeight `json:"fontWeight,omitempty"`
	TextColor         string     `json:"textColor,omitempty"`
	BackgroundColor   string     `json:"backgroundColor,omitempty"`
	BackgroundOpacity *float64   `json:"backgroundOpacity,omitempty"`
	BorderColor       string     `json:"borderColor,omitempty"`
	BorderWidth       *float64   `json:"borderWidth,omitempty"`
}

type shapeWire struct {
	Type Kind `json:"type"`
	Common
	ShapeType   ShapeType `json:"shapeType"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	StartX      *float64  `json:"startX,omitempty"`
	StartY      *float64  `json:"startY,omitempty"`
	EndX        *float64  `json:"endX,omitempty"`
	EndY        *float64  `json:"endY,omitempty"`
	StrokeColor string    `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"`
	FillColor   string    `json:"fillColor,omitempty"`
	FillOpacity float64   `json:"fillOpacity"`
}

func (p *Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointWire{
		Type:              KindPoint,
		Common:            p.Common,
		Number:            p.Number,
		Size:              p.Size,
		Color:             p.Color,
		AttachedImageURLs: p.AttachedImageURLs,
	})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var w pointWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	urls := w.AttachedImageURLs
	if len(urls) == 0 && w.AttachedImageURL != "" {
		urls = []string{w.AttachedImageURL}
	}
	*p = Point{
		Common:            w.Common,
		Number:            w.Number,
		Size:              w.Size,
		Color:             w.Color,
		AttachedImageURLs: normalizeURLs(urls),
	}
	return nil
}

func (t *TextNote) MarshalJSON() ([]byte, error) {
	return json.Marshal(textWire{
		Type:              KindText,
		Common:            t.Common,
		Width:             t.Width,
		Height:            t.Height,
		Content:           t.Content,
		FontSize:          t.FontSize,
		FontWeight:        t.FontWeight,
		TextColor:         t.TextColor,
		BackgroundColor:   t.BackgroundColor,
		BackgroundOpacity: t.BackgroundOpacity,
		BorderColor:       t.BorderColor,
		BorderWidth:       t.BorderWidth,
	})
}

func (t *TextNote) UnmarshalJSON(data []byte) error {
	var w textWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = TextNote{
		Common:            w.Common,
		Width:             w.Width,
		Height:            w.Height,
		Content:           w.Content,
		FontSize:          w.FontSize,
		FontWeight:        w.FontWeight,
		TextColor:         w.TextColor,
		BackgroundColor:   w.BackgroundColor,
		BackgroundOpacity: w.BackgroundOpacity,
		BorderColor:       w.BorderColor,
		BorderWidth:       w.BorderWidth,
	}
	return nil
}

func (s *Shape) MarshalJSON() ([]byte, error) {
	w := shapeWire{
		Type:        KindShape,
		Common:      s.Common,
		ShapeType:   s.ShapeType,
		Width:       s.Width,
		Height:      s.Height,
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
		FillColor:   s.FillColor,
		FillOpacity: s.FillOpacity,
	}
	if ep := s.Endpoints; ep != nil {
		w.StartX, w.StartY = Ptr(ep.StartX), Ptr(ep.StartY)
		w.EndX, w.EndY = Ptr(ep.EndX), Ptr(ep.EndY)
	}
	return json.Marshal(w)
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var w shapeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Shape{
		Common:      w.Common,
		ShapeType:   w.ShapeType,
		Width:       w.Width,
		Height:      w.Height,
		StrokeColor: w.StrokeColor,
		StrokeWidth: w.StrokeWidth,
		FillColor:   w.FillColor,
		FillOpacity: w.FillOpacity,
	}
	if w.StartX != nil && w.StartY != nil && w.EndX != nil && w.EndY != nil {
		s.Endpoints = &Endpoints{StartX: *w.StartX, StartY: *w.StartY, EndX: *w.EndX, EndY: *w.EndY}
	}
	return nil
}

// Decode reads a single annotation, dispatching on its type field.
func Decode(data []byte) (Annotation, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var a Annotation
	switch head.Type {
	case KindPoint:
		a = &Point{}
	case KindText:
		a = &TextNote{}
	case KindShape:
		a = &Shape{}
	default:
		return nil, fmt.Errorf("unknown annotation type %q", head.Type)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return a, nil
}

// List is an ordered annotation collection; later entries paint on top.
type List []Annotation

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Annotation(l))
}

func (l *List) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out List
	for i, msg := range raw {
		a, err := Decode(msg)
		if err != nil {
			return fmt.Errorf("annotation %d: %w", i, err)
		}
		out = append(out, a)
	}
	*l = out
	return nil
}
