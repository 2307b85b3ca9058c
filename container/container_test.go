package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/ir"
)

func testArtifact() *Artifact {
	b := ir.NewRegistryBuilder()
	pathID := b.Register(ir.Path{Contours: []ir.Contour{{
		Closed: true,
		Vertices: []ir.Vertex{
			{Point: luma.Pt(0, 0)},
			{Point: luma.Pt(10, 0)},
			{Point: luma.Pt(10, 10)},
		},
	}}})

	anim := &ir.Animation{
		Meta:     ir.Meta{Width: 320, Height: 240, FrameRate: 30, OutPoint: 60, Source: "demo"},
		RootComp: "root",
		Comps: map[ir.CompID]*ir.Composition{
			"root": {ID: "root", Width: 320, Height: 240, Layers: []*ir.Layer{
				{
					ID: 1, Name: "badge", Index: 1, Type: ir.LayerShape,
					Transform: ir.IdentityTransform(),
					Timing:    ir.Timing{OutPoint: 60},
					Content:   ir.ShapeContent{Fills: []ir.ShapeFill{{Path: pathID, Color: [4]float64{1, 0, 0, 1}, Opacity: 1}}},
					ToggleID:  "toggle.badge",
				},
				{
					ID: 2, Name: "photo", Index: 2, Type: ir.LayerImage,
					Transform: ir.IdentityTransform(),
					Timing:    ir.Timing{OutPoint: 60},
					Content:   ir.ImageContent{Asset: "img_0"},
					Matte:     &ir.MatteBinding{Source: 1, Mode: ir.MatteLuma},
				},
			}},
			"child": {ID: "child", Width: 100, Height: 100, Layers: []*ir.Layer{
				{
					ID: 1, Name: "inner", Index: 1, Type: ir.LayerNull,
					Transform: ir.IdentityTransform(),
					Timing:    ir.Timing{OutPoint: 60},
					Content:   ir.NoContent{},
				},
			}},
		},
		Assets: map[ir.AssetID]ir.AssetInfo{
			"img_0": {Path: "images/photo.png", Width: 64, Height: 64},
		},
		Binding: &ir.BindingDescriptor{Layer: 2, Comp: "root", Asset: "img_0"},
	}
	return New(anim, b.Freeze())
}

func TestRoundTrip(t *testing.T) {
	a := testArtifact()
	data, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Anim.Meta != a.Anim.Meta {
		t.Errorf("meta = %+v, want %+v", got.Anim.Meta, a.Anim.Meta)
	}
	if len(got.Anim.Comps) != 2 {
		t.Fatalf("comps = %d", len(got.Anim.Comps))
	}

	root := got.Anim.Root()
	if root == nil || len(root.Layers) != 2 {
		t.Fatalf("root = %+v", root)
	}
	shape, ok := root.Layers[0].Content.(ir.ShapeContent)
	if !ok || len(shape.Fills) != 1 {
		t.Errorf("layer 0 content = %+v", root.Layers[0].Content)
	}
	if root.Layers[1].Matte == nil || root.Layers[1].Matte.Mode != ir.MatteLuma {
		t.Errorf("layer 1 matte = %+v", root.Layers[1].Matte)
	}
	if _, ok := got.Anim.Comps["child"].Layers[0].Content.(ir.NoContent); !ok {
		t.Errorf("null layer content = %T", got.Anim.Comps["child"].Layers[0].Content)
	}

	if got.Registry.Len() != 1 {
		t.Errorf("registry len = %d", got.Registry.Len())
	}
	if p, ok := got.Registry.Lookup(shape.Fills[0].Path); !ok || len(p.Contours[0].Vertices) != 3 {
		t.Errorf("restored path = %+v, %v", p, ok)
	}

	if got.Anim.Binding == nil || got.Anim.Binding.Asset != "img_0" {
		t.Errorf("binding = %+v", got.Anim.Binding)
	}
	if info := got.Anim.Assets["img_0"]; info.Path != "images/photo.png" {
		t.Errorf("asset info = %+v", info)
	}

	if got.Runtime.Engine != luma.EngineVersion {
		t.Errorf("engine = %q", got.Runtime.Engine)
	}
	ref, ok := got.Runtime.Toggles["toggle.badge"]
	if !ok || ref.Comp != "root" || ref.Layer != 1 {
		t.Errorf("toggle = %+v, %v", ref, ok)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a := testArtifact()
	first, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}

	// Re-marshal both the same artifact and its decoded copy; map
	// iteration order must not leak into the bytes.
	again, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, again) {
		t.Error("marshaling the same artifact twice produced different bytes")
	}

	decoded, err := Unmarshal(first)
	if err != nil {
		t.Fatal(err)
	}
	redone, err := Marshal(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, redone) {
		t.Error("decode and re-marshal produced different bytes")
	}
}

func TestHeaderLayout(t *testing.T) {
	data, err := Marshal(testArtifact())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data[0:4], magic[:]) {
		t.Errorf("magic = %q", data[0:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != Version {
		t.Errorf("version = %d", v)
	}
	if hl := binary.LittleEndian.Uint16(data[6:8]); hl != headerLen {
		t.Errorf("header len = %d", hl)
	}
	if pl := binary.LittleEndian.Uint32(data[8:12]); int(pl) != len(data)-headerLen {
		t.Errorf("payload len = %d, data = %d", pl, len(data))
	}
	if cs := binary.LittleEndian.Uint32(data[12:16]); cs != engineChecksum() {
		t.Errorf("checksum = %#x", cs)
	}

	h, err := ReadHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != Version || h.HeaderLen != headerLen {
		t.Errorf("header = %+v", h)
	}
}

func TestRejectsBadMagic(t *testing.T) {
	data, _ := Marshal(testArtifact())
	data[0] = 'X'
	_, err := Unmarshal(data)
	var merr *MagicError
	if !errors.As(err, &merr) {
		t.Fatalf("got %v, want *MagicError", err)
	}
}

func TestRejectsVersionMismatch(t *testing.T) {
	newer, _ := Marshal(testArtifact())
	binary.LittleEndian.PutUint16(newer[4:6], Version+1)
	_, err := Unmarshal(newer)
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *VersionError", err)
	}
	if !verr.TooNew() {
		t.Error("newer version not reported as too new")
	}

	older, _ := Marshal(testArtifact())
	binary.LittleEndian.PutUint16(older[4:6], 0)
	_, err = Unmarshal(older)
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *VersionError", err)
	}
	if verr.TooNew() {
		t.Error("older version reported as too new")
	}
}

func TestRejectsChecksumMismatch(t *testing.T) {
	data, _ := Marshal(testArtifact())
	data[12] ^= 0xff
	_, err := Unmarshal(data)
	var cerr *ChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want *ChecksumError", err)
	}
}

func TestRejectsTruncated(t *testing.T) {
	data, _ := Marshal(testArtifact())
	for _, n := range []int{0, 8, 15, headerLen + 5} {
		if _, err := Unmarshal(data[:n]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Unmarshal(%d bytes) = %v, want ErrTruncated", n, err)
		}
	}
}

func TestRejectsShortHeaderLen(t *testing.T) {
	data, _ := Marshal(testArtifact())
	binary.LittleEndian.PutUint16(data[6:8], 8)
	_, err := Unmarshal(data)
	var herr *HeaderError
	if !errors.As(err, &herr) {
		t.Fatalf("got %v, want *HeaderError", err)
	}
}

func TestRejectsCorruptPayload(t *testing.T) {
	data, _ := Marshal(testArtifact())
	data[headerLen] = 'X'
	_, err := Unmarshal(data)
	var perr *PayloadError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *PayloadError", err)
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testArtifact()); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Anim.Meta.Width != 320 {
		t.Errorf("read meta = %+v", got.Anim.Meta)
	}
}
