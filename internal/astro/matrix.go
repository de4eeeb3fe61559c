package astro

import "math"

// Matrix3 is a row-major 3x3 rotation matrix. It is the currency for
// orientation values handed to observers: multiplying an equatorial
// vector by a site's matrix yields coordinates in that site's local frame.
type Matrix3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Matrix3 {
	return Matrix3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// RotationX returns the rotation matrix about the X axis by angle radians.
func RotationX(angle float64) Matrix3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

// RotationZ returns the rotation matrix about the Z axis by angle radians.
func RotationZ(angle float64) Matrix3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

// MulVec applies the matrix to a vector.
func (m Matrix3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the matrix product m * n.
func (m Matrix3) Mul(n Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// Transpose returns the transposed matrix. For a pure rotation this is
// the inverse.
func (m Matrix3) Transpose() Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}
