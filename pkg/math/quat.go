package math

import "math"

// Quat represents a rotation quaternion. W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion from a normalized axis and angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler builds a rotation from XYZ Euler angles (radians), applied X then Y then Z.
func QuatFromEuler(x, y, z float32) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, x)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, y)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, z)
	return qz.Mul(qy).Mul(qx)
}

// Normalize returns a unit quaternion, or identity for degenerate input.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	inv := 1 / length
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Mul combines rotations: the result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// ToMat4 converts the quaternion to a rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx, xy, xz, xw := q.X*q.X, q.X*q.Y, q.X*q.Z, q.X*q.W
	yy, yz, yw := q.Y*q.Y, q.Y*q.Z, q.Y*q.W
	zz, zw := q.Z*q.Z, q.Z*q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
