// Package skeleton is the pose engine: skeleton definitions read from JSON,
// posable skeleton instances, keyframed animations and a track-based
// animation state.
//
// Coordinates are y-up with counter-clockwise rotations in degrees. Bone
// world matrices use the [a, b, c, d, tx, ty] affine layout.
//
// Typical per-frame use:
//
//	state.Update(dt)
//	state.Apply(sk)
//	sk.UpdateWorldTransform()
package skeleton
