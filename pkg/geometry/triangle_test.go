package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// xyTriangle lies in the z=0 plane with its normal pointing to -Z,
// so rays travelling along +Z hit its front face
func xyTriangle(cullMode CullMode) *Triangle {
	return NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 0, 0),
		cullMode, 1,
	)
}

func TestTriangle_NormalFromWinding(t *testing.T) {
	triangle := xyTriangle(NoCulling)
	if !triangle.Normal.ApproxEqual(core.NewVec3(0, 0, -1), tolerance) {
		t.Errorf("Expected normal (0,0,-1), got %v", triangle.Normal)
	}
}

func TestTriangle_TestClosest(t *testing.T) {
	triangle := xyTriangle(NoCulling)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"hits interior", core.NewRay(core.NewVec3(0.25, 0.25, -1), core.UnitZ), true, 1.0},
		{"hits edge", core.NewRay(core.NewVec3(0.5, 0, -1), core.UnitZ), true, 1.0},
		{"hits vertex", core.NewRay(core.NewVec3(0, 0, -1), core.UnitZ), true, 1.0},
		{"outside hypotenuse", core.NewRay(core.NewVec3(0.75, 0.75, -1), core.UnitZ), false, 0},
		{"outside left of v0", core.NewRay(core.NewVec3(-0.1, 0.5, -1), core.UnitZ), false, 0},
		{"parallel", core.NewRay(core.NewVec3(0.25, 0.25, -1), core.UnitX), false, 0},
		{"behind", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.UnitZ), false, 0},
		{"beyond Max", core.NewBoundedRay(core.NewVec3(0.25, 0.25, -1), core.UnitZ, 0, 0.5), false, 0},
		{"from the back face", core.NewRay(core.NewVec3(0.25, 0.25, 2), core.UnitZ.Negate()), true, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := core.NewHitRecord()
			isHit := triangle.TestClosest(tt.ray, &hit)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				if hit.DidHit {
					t.Error("A miss must not touch the hit record")
				}
				return
			}

			if math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.Normal != triangle.Normal {
				t.Errorf("Expected face normal %v, got %v", triangle.Normal, hit.Normal)
			}
			if hit.MaterialIndex != 1 {
				t.Errorf("Expected material index 1, got %d", hit.MaterialIndex)
			}
		})
	}
}

func TestTriangle_CullModes(t *testing.T) {
	// frontRay approaches the side the normal points toward, backRay the other side
	frontRay := core.NewRay(core.NewVec3(0.25, 0.25, -1), core.UnitZ)
	backRay := core.NewRay(core.NewVec3(0.25, 0.25, 1), core.UnitZ.Negate())

	tests := []struct {
		cullMode       CullMode
		frontClosest   bool
		backClosest    bool
		frontOcclusion bool
		backOcclusion  bool
	}{
		{NoCulling, true, true, true, true},
		{FrontFaceCulling, false, true, true, false},
		{BackFaceCulling, true, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.cullMode.String(), func(t *testing.T) {
			triangle := xyTriangle(tt.cullMode)

			front := core.NewHitRecord()
			if got := triangle.TestClosest(frontRay, &front); got != tt.frontClosest {
				t.Errorf("front closest: expected %t, got %t", tt.frontClosest, got)
			}
			back := core.NewHitRecord()
			if got := triangle.TestClosest(backRay, &back); got != tt.backClosest {
				t.Errorf("back closest: expected %t, got %t", tt.backClosest, got)
			}
			if got := triangle.TestOcclusion(frontRay); got != tt.frontOcclusion {
				t.Errorf("front occlusion: expected %t, got %t", tt.frontOcclusion, got)
			}
			if got := triangle.TestOcclusion(backRay); got != tt.backOcclusion {
				t.Errorf("back occlusion: expected %t, got %t", tt.backOcclusion, got)
			}
		})
	}
}

func TestCullMode_OcclusionIsInverse(t *testing.T) {
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0.2, 0.3, -4), core.NewVec3(0.01, -0.02, 1).Normalize()),
		core.NewRay(core.NewVec3(0.2, 0.3, 4), core.NewVec3(0.01, -0.02, -1).Normalize()),
	}

	for _, ray := range rays {
		front := xyTriangle(FrontFaceCulling)
		back := xyTriangle(BackFaceCulling)

		// Occlusion under front culling behaves like closest-hit under back culling, and vice versa
		hitBack := core.NewHitRecord()
		if front.TestOcclusion(ray) != back.TestClosest(ray, &hitBack) {
			t.Errorf("front-culled occlusion should match back-culled closest for %+v", ray)
		}
		hitFront := core.NewHitRecord()
		if back.TestOcclusion(ray) != front.TestClosest(ray, &hitFront) {
			t.Errorf("back-culled occlusion should match front-culled closest for %+v", ray)
		}
	}

	if FrontFaceCulling.ForOcclusion() != BackFaceCulling ||
		BackFaceCulling.ForOcclusion() != FrontFaceCulling ||
		NoCulling.ForOcclusion() != NoCulling {
		t.Error("ForOcclusion should swap front and back and leave NoCulling alone")
	}
}

func TestParseCullMode(t *testing.T) {
	for _, mode := range []CullMode{NoCulling, FrontFaceCulling, BackFaceCulling} {
		parsed, err := ParseCullMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("Round trip of %v failed: %v, %v", mode, parsed, err)
		}
	}
	if mode, err := ParseCullMode(""); err != nil || mode != NoCulling {
		t.Errorf("Empty cull mode should default to none, got %v, %v", mode, err)
	}
	if _, err := ParseCullMode("sideways"); err == nil {
		t.Error("Expected error for unknown cull mode")
	}
}

func TestTriangle_DegenerateNeverHits(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(2, 2, 0), NoCulling, 0)
	ray := core.NewRay(core.NewVec3(1, 1, -1), core.UnitZ)

	if triangle.TestOcclusion(ray) {
		t.Error("Zero-area triangle should never be hit")
	}
}
