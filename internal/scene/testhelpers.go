package scene

// CreateTestNode creates a node with an identity transform
func CreateTestNode(name string, children ...*Node) *Node {
	return &Node{
		Name:           name,
		Transformation: Identity(),
		Children:       children,
	}
}

// CreateTestMesh creates a single triangle mesh with normals
func CreateTestMesh(name string) *Mesh {
	return &Mesh{
		Name:           name,
		MaterialIndex:  0,
		PrimitiveTypes: PrimitiveTriangle,
		Vertices: []Vector3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Normals: []Vector3{
			{X: 0, Y: 0, Z: 1},
			{X: 0, Y: 0, Z: 1},
			{X: 0, Y: 0, Z: 1},
		},
		Faces: []Face{{Indices: []uint32{0, 1, 2}}},
	}
}

// CreateTestMaterial creates a material with a name and a diffuse color
func CreateTestMaterial(name string) *Material {
	return &Material{
		Properties: []*MaterialProperty{
			{Key: KeyName, Value: String(name)},
			{Key: KeyColorDiffuse, Value: Floats{0.8, 0.1, 0.1}},
			{Key: KeyTwoSided, Value: Ints{1}},
		},
	}
}

// CreateTestScene creates a scene with one mesh referenced from a child node
func CreateTestScene() *Scene {
	child := CreateTestNode("Triangle")
	child.Meshes = []uint32{0}
	return &Scene{
		RootNode:  CreateTestNode("Root", child),
		Meshes:    []*Mesh{CreateTestMesh("Triangle")},
		Materials: []*Material{CreateTestMaterial("Red")},
	}
}

// CreateFullTestScene creates a scene that exercises every entity kind
func CreateFullTestScene() *Scene {
	sc := CreateTestScene()

	mesh := sc.Meshes[0]
	mesh.Tangents = []Vector3{{X: 1}, {X: 1}, {X: 1}}
	mesh.Bitangents = []Vector3{{Y: 1}, {Y: 1}, {Y: 1}}
	mesh.TextureCoords[0] = []Vector3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	mesh.NumUVComponents[0] = 2
	mesh.Colors[0] = []Color4{{R: 1, A: 1}, {G: 1, A: 1}, {B: 1, A: 1}}
	mesh.Bones = []*Bone{{
		Name:         "Triangle",
		OffsetMatrix: Identity(),
		Weights:      []VertexWeight{{VertexID: 0, Weight: 1}, {VertexID: 1, Weight: 0.5}},
	}}

	sc.Materials[0].Properties = append(sc.Materials[0].Properties,
		&MaterialProperty{Key: KeyTextureFile, Semantic: TextureTypeDiffuse, Value: String("*0")},
		&MaterialProperty{Key: "$raw.blob", Value: Buffer{0xde, 0xad, 0xbe, 0xef}},
		&MaterialProperty{Key: KeyShininess, Value: Doubles{32}},
	)

	sc.Textures = []*Texture{
		{Width: 4, Height: 0, FormatHint: "png", CompressedData: []byte{0x89, 'P', 'N', 'G'}},
		{Width: 2, Height: 1, FormatHint: "rgba8888", Texels: []Texel{
			{R: 255, G: 0, B: 0, A: 255},
			{R: 0, G: 255, B: 0, A: 128},
		}},
	}
	sc.Lights = []*Light{
		{Name: "Sun", Type: LightDirectional, Direction: Vector3{Z: -1}, AttenuationConstant: 1, ColorDiffuse: Color3{1, 1, 1}},
		{Name: "Bulb", Type: LightPoint, Position: Vector3{Y: 2}, AttenuationConstant: 1, AttenuationLinear: 0.1},
		{Name: "Spot", Type: LightSpot, Position: Vector3{Y: 3}, Direction: Vector3{Y: -1}, AngleInnerCone: 0.5, AngleOuterCone: 0.75},
	}
	sc.Cameras = []*Camera{
		{Name: "Cam", Up: Vector3{Y: 1}, LookAt: Vector3{Z: -1}, HorizontalFOV: 0.785, ClipPlaneNear: 0.1, ClipPlaneFar: 1000, Aspect: 1.5},
	}
	sc.Animations = []*Animation{{
		Name:           "Spin",
		Duration:       10,
		TicksPerSecond: 25,
		Channels: []*NodeAnim{{
			NodeName:     "Triangle",
			PositionKeys: []VectorKey{{Time: 0, Value: Vector3{}}, {Time: 10, Value: Vector3{X: 1}}},
			RotationKeys: []QuatKey{{Time: 0, Value: Quaternion{W: 1}}},
			PostState:    AnimBehaviourRepeat,
		}},
	}}
	return sc
}
