package core

import "math"

// HitRecord tracks the nearest intersection found so far along a ray.
// A record belongs to exactly one query; it is never shared between goroutines.
type HitRecord struct {
	DidHit        bool    // Whether any primitive tightened the record
	T             float64 // Parameter t of the nearest hit, +Inf when nothing was hit
	Point         Vec3    // Point of intersection
	Normal        Vec3    // Unit surface normal at the intersection
	MaterialIndex int     // Index into the scene's material list
}

// NewHitRecord returns an empty record with T at +Inf
func NewHitRecord() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// Tighten overwrites the record when t is strictly closer than the current hit.
// Returns true if the record changed.
func (h *HitRecord) Tighten(t float64, point, normal Vec3, materialIndex int) bool {
	if t >= h.T {
		return false
	}
	h.DidHit = true
	h.T = t
	h.Point = point
	h.Normal = normal
	h.MaterialIndex = materialIndex
	return true
}
