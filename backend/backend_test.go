package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/composite"
	"github.com/lumakit/luma/ir"
)

func testRegistry() (*ir.PathRegistry, ir.PathID) {
	b := ir.NewRegistryBuilder()
	id := b.Register(ir.Path{Contours: []ir.Contour{{
		Closed: true,
		Vertices: []ir.Vertex{
			{Point: luma.Pt(0, 0)},
			{Point: luma.Pt(4, 0)},
			{Point: luma.Pt(4, 4)},
			{Point: luma.Pt(0, 4)},
		},
	}}})
	return b.Freeze(), id
}

func TestSoftwareRegisteredByDefault(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software executor not registered")
	}
	if !slices.Contains(Available(), BackendSoftware) {
		t.Errorf("Available() = %v, missing %q", Available(), BackendSoftware)
	}
}

func TestGet(t *testing.T) {
	reg, _ := testRegistry()
	e := Get(BackendSoftware, reg)
	if e == nil {
		t.Fatal("Get(software) = nil")
	}
	if e.Name() != BackendSoftware {
		t.Errorf("Name() = %q", e.Name())
	}
	if Get("no-such-backend", reg) != nil {
		t.Error("Get of unknown name returned an executor")
	}
}

func TestDefaultFallsBackToSoftware(t *testing.T) {
	reg, _ := testRegistry()
	e := Default(reg)
	if e == nil {
		t.Fatal("Default() = nil with software registered")
	}
}

func TestRegisterUnregister(t *testing.T) {
	const name = "fake"
	Register(name, func(registry *ir.PathRegistry) Executor {
		return NewSoftware(registry)
	})
	t.Cleanup(func() { Unregister(name) })

	if !IsRegistered(name) {
		t.Error("registered name not found")
	}
	Unregister(name)
	if IsRegistered(name) {
		t.Error("unregistered name still found")
	}
}

func TestExecuteBeforeInit(t *testing.T) {
	reg, id := testRegistry()
	e := NewSoftware(reg)
	_, err := e.Execute([]command.Command{
		command.DrawPath{Path: id, Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
	}, 8, 8)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Execute before Init = %v, want ErrNotInitialized", err)
	}
}

func TestSoftwareExecute(t *testing.T) {
	reg, id := testRegistry()
	e := NewSoftware(reg)
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)

	buf, err := e.Execute([]command.Command{
		command.DrawPath{Path: id, Color: [4]float64{0, 1, 0, 1}, Opacity: 1},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, a := buf.At(2, 2); g < 0.99 || a < 0.99 {
		t.Errorf("pixel inside geometry = g %g a %g", g, a)
	}
	if _, _, _, a := buf.At(6, 6); a != 0 {
		t.Errorf("pixel outside geometry has alpha %g", a)
	}
}

func TestInitIdempotent(t *testing.T) {
	reg, _ := testRegistry()
	e := NewSoftware(reg)
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if err := e.Init(); err != nil {
		t.Fatalf("second Init = %v", err)
	}
	e.Close()
	e.Close()
}

func TestSetAssetBeforeInitIsFlushed(t *testing.T) {
	reg, _ := testRegistry()
	e := NewSoftware(reg)

	img := composite.NewBuffer(2, 2)
	img.Set(0, 0, 1, 0, 0, 1)
	img.Set(1, 0, 1, 0, 0, 1)
	img.Set(0, 1, 1, 0, 0, 1)
	img.Set(1, 1, 1, 0, 0, 1)
	e.SetAsset("img", img)

	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)

	buf, err := e.Execute([]command.Command{
		command.DrawImage{Asset: "img", Opacity: 1},
	}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, a := buf.At(0, 0); r < 0.99 || a < 0.99 {
		t.Errorf("asset pixel = r %g a %g, want opaque red", r, a)
	}
}

func TestInitDefault(t *testing.T) {
	reg, _ := testRegistry()
	e, err := InitDefault(reg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	if e.Name() == "" {
		t.Error("default executor has empty name")
	}
}
