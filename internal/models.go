package internal

import (
	"gopkg.in/yaml.v3"
)

// RawScene is a scene description as written in a .yaml or .json file
type RawScene struct {
	Flags      uint32         `yaml:"flags"`
	RootNode   *RawNode       `yaml:"rootnode"`
	Meshes     []RawMesh      `yaml:"meshes"`
	Materials  []RawMaterial  `yaml:"materials"`
	Animations []RawAnimation `yaml:"animations"`
	Textures   []RawTexture   `yaml:"textures"`
	Lights     []RawLight     `yaml:"lights"`
	Cameras    []RawCamera    `yaml:"cameras"`
}

// RawNode represents a node; a missing transformation means identity
type RawNode struct {
	Name           string    `yaml:"name"`
	Transformation []float32 `yaml:"transformation,omitempty"` // 16 values, row-major
	Meshes         []uint32  `yaml:"meshes,omitempty"`
	Children       []RawNode `yaml:"children,omitempty"`
}

// RawMesh represents a mesh. Vectors are [x, y, z], colors [r, g, b, a].
type RawMesh struct {
	Name            string        `yaml:"name"`
	MaterialIndex   uint32        `yaml:"materialindex"`
	PrimitiveTypes  uint32        `yaml:"primitivetypes,omitempty"` // inferred from faces when zero
	Vertices        [][]float32   `yaml:"vertices"`
	Normals         [][]float32   `yaml:"normals,omitempty"`
	Tangents        [][]float32   `yaml:"tangents,omitempty"`
	Bitangents      [][]float32   `yaml:"bitangents,omitempty"`
	TextureCoords   [][][]float32 `yaml:"texturecoords,omitempty"`
	NumUVComponents []uint32      `yaml:"numuvcomponents,omitempty"`
	Colors          [][][]float32 `yaml:"colors,omitempty"`
	Bones           []RawBone     `yaml:"bones,omitempty"`
	Faces           [][]uint32    `yaml:"faces"`
}

// RawBone represents a bone; weights are [vertex, weight] pairs
type RawBone struct {
	Name         string      `yaml:"name"`
	OffsetMatrix []float32   `yaml:"offsetmatrix,omitempty"`
	Weights      [][]float32 `yaml:"weights"`
}

// RawMaterial represents a material
type RawMaterial struct {
	Properties []RawProperty `yaml:"properties"`
}

// RawProperty represents a material property. Type is one of float, double,
// string, int or buffer; buffer values are hex strings.
type RawProperty struct {
	Key      string    `yaml:"key"`
	Semantic uint32    `yaml:"semantic,omitempty"`
	Index    uint32    `yaml:"index,omitempty"`
	Type     string    `yaml:"type"`
	Value    yaml.Node `yaml:"value"`
}

// RawTexture represents an embedded texture. Compressed textures (height 0)
// carry hex data; the others carry one [r, g, b, a] texel per pixel.
type RawTexture struct {
	Width      uint32  `yaml:"width"`
	Height     uint32  `yaml:"height"`
	FormatHint string  `yaml:"formathint,omitempty"`
	Data       string  `yaml:"data,omitempty"`
	Texels     [][]int `yaml:"texels,omitempty"`
}

// RawLight represents a light source; Type is a name such as "point"
type RawLight struct {
	Name                 string    `yaml:"name"`
	Type                 string    `yaml:"type"`
	Position             []float32 `yaml:"position,omitempty"`
	Direction            []float32 `yaml:"direction,omitempty"`
	AttenuationConstant  float32   `yaml:"attenuationconstant"`
	AttenuationLinear    float32   `yaml:"attenuationlinear"`
	AttenuationQuadratic float32   `yaml:"attenuationquadratic"`
	DiffuseColor         []float32 `yaml:"diffusecolor,omitempty"`
	SpecularColor        []float32 `yaml:"specularcolor,omitempty"`
	AmbientColor         []float32 `yaml:"ambientcolor,omitempty"`
	AngleInnerCone       float32   `yaml:"angleinnercone,omitempty"`
	AngleOuterCone       float32   `yaml:"angleoutercone,omitempty"`
}

// RawCamera represents a camera
type RawCamera struct {
	Name          string    `yaml:"name"`
	Position      []float32 `yaml:"position,omitempty"`
	Up            []float32 `yaml:"up,omitempty"`
	LookAt        []float32 `yaml:"lookat,omitempty"`
	HorizontalFOV float32   `yaml:"horizontalfov"`
	ClipPlaneNear float32   `yaml:"clipplanenear"`
	ClipPlaneFar  float32   `yaml:"clipplanefar"`
	Aspect        float32   `yaml:"aspect"`
}

// RawAnimation represents an animation
type RawAnimation struct {
	Name           string       `yaml:"name"`
	Duration       float64      `yaml:"duration"`
	TicksPerSecond float64      `yaml:"tickspersecond"`
	Channels       []RawChannel `yaml:"channels"`
}

// RawChannel represents the keys of one animated node
type RawChannel struct {
	Name         string   `yaml:"name"`
	PreState     uint32   `yaml:"prestate,omitempty"`
	PostState    uint32   `yaml:"poststate,omitempty"`
	PositionKeys []RawKey `yaml:"positionkeys,omitempty"`
	RotationKeys []RawKey `yaml:"rotationkeys,omitempty"` // value is [w, x, y, z]
	ScalingKeys  []RawKey `yaml:"scalingkeys,omitempty"`
}

// RawKey represents one animation key
type RawKey struct {
	Time  float64   `yaml:"time"`
	Value []float32 `yaml:"value"`
}
