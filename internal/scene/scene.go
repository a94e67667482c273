// Package scene holds the in-memory scene graph handed to the exporter.
//
// The graph is produced by an importer and is treated as read-only by every
// consumer in this module. Counts are implied by slice lengths; index
// references (mesh indices on nodes, material indices on meshes) are assumed
// valid.
package scene

// Flags is the scene-level bitmask set by the importer.
type Flags uint32

const (
	FlagsIncomplete        Flags = 0x1
	FlagsValidated         Flags = 0x2
	FlagsValidationWarning Flags = 0x4
	FlagsNonVerboseFormat  Flags = 0x8
	FlagsTerrain           Flags = 0x10
	FlagsAllowShared       Flags = 0x20
)

// Scene is the root of an imported scene graph.
type Scene struct {
	Flags      Flags
	RootNode   *Node
	Meshes     []*Mesh
	Materials  []*Material
	Animations []*Animation
	Textures   []*Texture
	Lights     []*Light
	Cameras    []*Camera
}

// HasMeshes reports whether the scene carries any mesh.
func (s *Scene) HasMeshes() bool { return len(s.Meshes) > 0 }

// HasMaterials reports whether the scene carries any material.
func (s *Scene) HasMaterials() bool { return len(s.Materials) > 0 }

// HasAnimations reports whether the scene carries any animation.
func (s *Scene) HasAnimations() bool { return len(s.Animations) > 0 }

// HasTextures reports whether the scene carries any embedded texture.
func (s *Scene) HasTextures() bool { return len(s.Textures) > 0 }

// HasLights reports whether the scene carries any light.
func (s *Scene) HasLights() bool { return len(s.Lights) > 0 }

// HasCameras reports whether the scene carries any camera.
func (s *Scene) HasCameras() bool { return len(s.Cameras) > 0 }

// Node is one element of the node hierarchy.
type Node struct {
	Name           string
	Transformation Matrix4
	// Meshes indexes into Scene.Meshes.
	Meshes   []uint32
	Children []*Node
}

// Face is a single polygon given as indices into the mesh's vertex arrays.
type Face struct {
	Indices []uint32
}

// VertexWeight binds one vertex to a bone.
type VertexWeight struct {
	VertexID uint32
	Weight   float32
}

// Bone is a single deformation bone of a mesh. The bone refers to its node by
// name only.
type Bone struct {
	Name         string
	OffsetMatrix Matrix4
	Weights      []VertexWeight
}

// PrimitiveType is a bitmask of the primitive kinds present in a mesh.
type PrimitiveType uint32

const (
	PrimitivePoint    PrimitiveType = 0x1
	PrimitiveLine     PrimitiveType = 0x2
	PrimitiveTriangle PrimitiveType = 0x4
	PrimitivePolygon  PrimitiveType = 0x8
)

const (
	MaxTextureCoords = 8
	MaxColorSets     = 8
)

// Mesh is a chunk of geometry with a single material.
type Mesh struct {
	Name           string
	MaterialIndex  uint32
	PrimitiveTypes PrimitiveType
	Vertices       []Vector3
	Normals        []Vector3
	Tangents       []Vector3
	Bitangents     []Vector3
	// TextureCoords and Colors are filled from channel 0 upwards; the first
	// nil channel ends the list.
	TextureCoords   [MaxTextureCoords][]Vector3
	NumUVComponents [MaxTextureCoords]uint32
	Colors          [MaxColorSets][]Color4
	Bones           []*Bone
	Faces           []Face
}

// HasNormals reports whether the mesh carries per-vertex normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Vertices) > 0 && len(m.Normals) > 0
}

// HasTangentsAndBitangents reports whether the mesh carries a tangent space.
func (m *Mesh) HasTangentsAndBitangents() bool {
	return len(m.Vertices) > 0 && len(m.Tangents) > 0 && len(m.Bitangents) > 0
}

// NumUVChannels returns the number of contiguous texture coordinate channels.
func (m *Mesh) NumUVChannels() int {
	n := 0
	for n < MaxTextureCoords && m.TextureCoords[n] != nil {
		n++
	}
	return n
}

// NumColorChannels returns the number of contiguous vertex color channels.
func (m *Mesh) NumColorChannels() int {
	n := 0
	for n < MaxColorSets && m.Colors[n] != nil {
		n++
	}
	return n
}

// HasBones reports whether the mesh is skinned.
func (m *Mesh) HasBones() bool { return len(m.Bones) > 0 }

// Texel is one decoded pixel of an embedded texture.
type Texel struct {
	B, G, R, A uint8
}

// Texture is an embedded texture. A zero Height marks compressed file data
// (png, jpg, ...) of Width bytes stored in CompressedData.
type Texture struct {
	Width          uint32
	Height         uint32
	FormatHint     string
	Texels         []Texel
	CompressedData []byte
}

// IsCompressed reports whether the texture holds undecoded file data.
func (t *Texture) IsCompressed() bool { return t.Height == 0 }

// LightSourceType enumerates the supported light kinds.
type LightSourceType uint32

const (
	LightUndefined LightSourceType = iota
	LightDirectional
	LightPoint
	LightSpot
	LightAmbient
	LightArea
)

var lightSourceNames = map[LightSourceType]string{
	LightUndefined:   "undefined",
	LightDirectional: "directional",
	LightPoint:       "point",
	LightSpot:        "spot",
	LightAmbient:     "ambient",
	LightArea:        "area",
}

func (t LightSourceType) String() string {
	if s, ok := lightSourceNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseLightSourceType maps a light type name to its tag.
func ParseLightSourceType(s string) (LightSourceType, bool) {
	for t, name := range lightSourceNames {
		if name == s {
			return t, true
		}
	}
	return LightUndefined, false
}

// Light is a light source attached to the node of the same name.
type Light struct {
	Name                 string
	Type                 LightSourceType
	Position             Vector3
	Direction            Vector3
	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32
	ColorDiffuse         Color3
	ColorSpecular        Color3
	ColorAmbient         Color3
	AngleInnerCone       float32
	AngleOuterCone       float32
}

// Camera is a viewpoint attached to the node of the same name.
type Camera struct {
	Name          string
	Position      Vector3
	Up            Vector3
	LookAt        Vector3
	HorizontalFOV float32
	ClipPlaneNear float32
	ClipPlaneFar  float32
	Aspect        float32
}

// AnimBehaviour describes how an animation channel behaves outside its keys.
type AnimBehaviour uint32

const (
	AnimBehaviourDefault AnimBehaviour = iota
	AnimBehaviourConstant
	AnimBehaviourLinear
	AnimBehaviourRepeat
)

// VectorKey is a timed 3D value (position or scaling).
type VectorKey struct {
	Time  float64
	Value Vector3
}

// QuatKey is a timed rotation.
type QuatKey struct {
	Time  float64
	Value Quaternion
}

// NodeAnim animates the node named NodeName.
type NodeAnim struct {
	NodeName     string
	PositionKeys []VectorKey
	RotationKeys []QuatKey
	ScalingKeys  []VectorKey
	PreState     AnimBehaviour
	PostState    AnimBehaviour
}

// Animation is a named set of node channels.
type Animation struct {
	Name           string
	Duration       float64
	TicksPerSecond float64
	Channels       []*NodeAnim
}
