package math

// DepthPerLayer is the Z offset between two adjacent 2D layers. It only
// biases depth-buffer ordering inside a batch.
const DepthPerLayer = 0.01

// SetTranslation overwrites the translation column, leaving the rotation
// and scale terms untouched.
func (m *Mat4) SetTranslation(x, y, z float32) {
	m[12] = x
	m[13] = y
	m[14] = z
}

// Translation returns the translation column.
func (m Mat4) Translation() [3]float32 {
	return [3]float32{m[12], m[13], m[14]}
}

// RotateAroundZ post-multiplies m by a rotation around Z (m = m * Rz).
// Called after SetTranslation it rotates around the translated origin.
func (m *Mat4) RotateAroundZ(angle float32) {
	*m = m.Mul(RotateZ(angle))
}

// RotateAroundY post-multiplies m by a rotation around Y (m = m * Ry).
func (m *Mat4) RotateAroundY(angle float32) {
	*m = m.Mul(RotateY(angle))
}

// LayerDepth maps a 2D layer to its Z offset.
func LayerDepth(layer float32) float32 {
	return layer * DepthPerLayer
}

// Translation2D returns a pure translation to (x, y) at the depth of layer.
func Translation2D(x, y, layer float32) Mat4 {
	m := Identity()
	m.SetTranslation(x, y, LayerDepth(layer))
	return m
}

// Model2D builds the model matrix of a 2D primitive: translate to (x, y)
// at the layer depth, then rotate around Z. The order is fixed; swapping
// it would rotate around the screen origin instead.
func Model2D(x, y, layer, rotation float32) Mat4 {
	m := Translation2D(x, y, layer)
	if rotation != 0 {
		m.RotateAroundZ(rotation)
	}
	return m
}
