package scene

// Vector3 is a 3D vector or point.
type Vector3 struct {
	X, Y, Z float32
}

// Components returns the vector as x, y, z.
func (v Vector3) Components() []float32 { return []float32{v.X, v.Y, v.Z} }

// Color3 is an RGB color.
type Color3 struct {
	R, G, B float32
}

// Components returns the color as r, g, b.
func (c Color3) Components() []float32 { return []float32{c.R, c.G, c.B} }

// Color4 is an RGBA color.
type Color4 struct {
	R, G, B, A float32
}

// Components returns the color as r, g, b, a.
func (c Color4) Components() []float32 { return []float32{c.R, c.G, c.B, c.A} }

// Quaternion is a rotation.
type Quaternion struct {
	W, X, Y, Z float32
}

// Components returns the quaternion as w, x, y, z.
func (q Quaternion) Components() []float32 { return []float32{q.W, q.X, q.Y, q.Z} }

// Matrix4 is a 4x4 row-major matrix; m[row][col].
type Matrix4 [4][4]float32

// Identity returns the 4x4 identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Flatten returns the sixteen elements in row-major order.
func (m Matrix4) Flatten() []float32 {
	out := make([]float32, 0, 16)
	for row := 0; row < 4; row++ {
		out = append(out, m[row][:]...)
	}
	return out
}

// MatrixFromSlice builds a matrix from sixteen row-major values. It reports
// false when the slice has the wrong length.
func MatrixFromSlice(v []float32) (Matrix4, bool) {
	var m Matrix4
	if len(v) != 16 {
		return m, false
	}
	for i, f := range v {
		m[i/4][i%4] = f
	}
	return m, true
}
