package math

import "github.com/go-gl/mathgl/mgl32"

// NewMat4EulerXYZ creates a rotation matrix applying x, then y, then z in
// the order they appear in a column vector product: Rx · Ry · Rz.
func NewMat4EulerXYZ(xRadians, yRadians, zRadians float32) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(xRadians)
	ry := mgl32.HomogRotate3DY(yRadians)
	rz := mgl32.HomogRotate3DZ(zRadians)
	return rx.Mul4(ry).Mul4(rz)
}

// PivotTransform builds T(position) · T(pivot) · Rx · Ry · Rz · T(-pivot).
// The rotation happens around pivot while the whole frame is still moved by
// position in the parent space.
func PivotTransform(position, pivot, rotation mgl32.Vec3) mgl32.Mat4 {
	toPivot := mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z())
	fromPivot := mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())
	translation := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	return translation.
		Mul4(toPivot).
		Mul4(NewMat4EulerXYZ(rotation.X(), rotation.Y(), rotation.Z())).
		Mul4(fromPivot)
}
