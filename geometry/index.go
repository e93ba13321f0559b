// Package geometry is the codec's data model: PointCloud, Mesh, and the
// PointAttribute values attached to them.
//
// Attribute owners never hold a pointer back into their PointCloud. The
// point count and the point-to-value map are supplied explicitly
// wherever an algorithm needs them, avoiding cyclic ownership between
// an attribute and its cloud.
package geometry

// PointIndex identifies one of the N points of a PointCloud.
type PointIndex int32

// FaceIndex identifies one of the F triangular faces of a Mesh.
type FaceIndex int32

// CornerIndex identifies one of the 3F corners of a Mesh's corner table.
type CornerIndex int32

// AttributeValueIndex identifies one of the M raw values stored by a
// PointAttribute (M <= N; see PointAttribute.IsMapped).
type AttributeValueIndex int32

// VertexIndex identifies a vertex in the EdgeBreaker traversal order. It is
// numerically equal to the PointIndex the traversal assigns it but kept as
// a distinct type so connectivity code cannot accidentally be handed a raw
// PointIndex.
type VertexIndex int32

// InvalidCorner is the sentinel corner returned for boundary edges.
const InvalidCorner CornerIndex = -1

// InvalidIndex is the generic "no value" sentinel, shared by all newtype
// index kinds above (they all convert to it cleanly since -1 is out of
// range for every one of them).
const InvalidIndex = -1
