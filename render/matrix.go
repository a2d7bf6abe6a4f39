package render

// Matrix4 is a column-major 4x4 matrix, laid out the way shader uniforms
// expect it.
type Matrix4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho2D returns an orthographic projection mapping the rectangle
// (x, y)-(x+width, y+height), y up, onto normalized device coordinates
// [-1, 1] on both axes.
func Ortho2D(x, y, width, height float32) Matrix4 {
	return Ortho(x, x+width, y, y+height, 1, -1)
}

// Ortho returns a general orthographic projection.
func Ortho(left, right, bottom, top, near, far float32) Matrix4 {
	m := Identity4()
	xOrth := 2 / (right - left)
	yOrth := 2 / (top - bottom)
	zOrth := -2 / (far - near)
	m[0] = xOrth
	m[5] = yOrth
	m[10] = zOrth
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m
}

// Project transforms the point (x, y, 0, 1) and returns its x and y.
func (m Matrix4) Project(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}
