package skeleton

import "math"

const degRad = math.Pi / 180

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// localTransform computes a bone's local affine matrix. Returns
// [a, b, c, d, tx, ty] with newX = a*x + c*y + tx, newY = b*x + d*y + ty.
//
// Angles are in degrees, counter-clockwise, in a y-up space. Shear rotates
// each axis independently before scaling:
//
//	x axis: angle rotation+shearX, length scaleX
//	y axis: angle rotation+90+shearY, length scaleY
func localTransform(x, y, rotation, scaleX, scaleY, shearX, shearY float64) [6]float64 {
	rx := (rotation + shearX) * degRad
	ry := (rotation + 90 + shearY) * degRad
	return [6]float64{
		math.Cos(rx) * scaleX,
		math.Sin(rx) * scaleX,
		math.Cos(ry) * scaleY,
		math.Sin(ry) * scaleY,
		x,
		y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies m to (x, y).
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
