package geom

import "testing"

func TestResizeBoxFloor(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 60, H: 50}
	for _, h := range []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW} {
		got := ResizeBox(r, h, 500, 500)
		got = ResizeBox(got, h, -500, -500)
		got = ResizeBox(got, h, 500, 500)
		if got.W < MinResize || got.H < MinResize {
			t.Fatalf("%v collapsed to %+v", h, got)
		}
	}
	if got := ResizeBox(r, HandleE, -1000, 0); got.W != MinResize {
		t.Fatalf("east handle width %v", got.W)
	}
}

func TestResizeBoxWestAnchorsEast(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 60, H: 50}
	got := ResizeBox(r, HandleW, 15, 0)
	if got.X+got.W != 160 || got.W != 45 {
		t.Fatalf("west resize %+v", got)
	}
	got = ResizeBox(r, HandleNW, 100, 100)
	if got.X+got.W != 160 || got.Y+got.H != 150 || got.W != MinResize || got.H != MinResize {
		t.Fatalf("north-west resize %+v", got)
	}
}

func TestMoveEndpoint(t *testing.T) {
	box := BoxFrom(Pt(50, 200), Pt(250, 50))
	seg := Segment{Start: Pt(50, 200).Sub(box.Origin()), End: Pt(250, 50).Sub(box.Origin())}
	if box != (Rect{50, 50, 200, 150}) || seg.Start != Pt(0, 150) || seg.End != Pt(200, 0) {
		t.Fatalf("unexpected line geometry %+v %+v", box, seg)
	}
	box, seg = MoveEndpoint(box, seg, HandleStart, 0, -150)
	if box != (Rect{50, 50, 200, MinResize}) {
		t.Fatalf("box %+v", box)
	}
	if seg.Start != Pt(0, 0) || seg.End != Pt(200, 0) {
		t.Fatalf("segment %+v", seg)
	}
}

func TestHandleString(t *testing.T) {
	if HandleSE.String() != "se" || HandleRotate.String() != "rotate" {
		t.Fatalf("names %v %v", HandleSE, HandleRotate)
	}
}
