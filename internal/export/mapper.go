package export

import (
	"context"
	"fmt"

	"github.com/iksnae/scene2json/internal/scene"
)

// UnknownPropertyTypeError reports a material property whose value is not one
// of the known kinds.
type UnknownPropertyTypeError struct {
	Key   string
	Value scene.PropertyValue
}

func (e *UnknownPropertyTypeError) Error() string {
	return fmt.Sprintf("material property %q: unknown value type %T", e.Key, e.Value)
}

// CycleError reports a node that is its own ancestor.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("node %q is its own ancestor", e.Node)
}

// SceneSerializer walks a scene graph and streams it through a Writer.
//
// Every entity kind has one handler; the handlers are composed in a fixed
// key order. Nodes shared between several parents are emitted again under
// each parent; only cycles are rejected. The scene is never modified.
type SceneSerializer struct {
	w      *Writer
	ctx    context.Context
	onPath map[*scene.Node]struct{}
}

// NewSceneSerializer creates a serializer that writes to w.
func NewSceneSerializer(ctx context.Context, w *Writer) *SceneSerializer {
	return &SceneSerializer{
		w:      w,
		ctx:    ctx,
		onPath: make(map[*scene.Node]struct{}),
	}
}

// Serialize writes the scene as one JSON object. It does not close the
// writer.
func (s *SceneSerializer) Serialize(sc *scene.Scene) error {
	if err := s.writeScene(sc); err != nil {
		return err
	}
	return s.w.Err()
}

// writeList emits key followed by an array holding one entry per item. The
// context is checked before each item.
func writeList[T any](s *SceneSerializer, key string, items []T, fn func(T) error) error {
	s.w.Key(key)
	s.w.StartArray(false)
	for _, item := range items {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	s.w.EndArray()
	return s.w.Err()
}

func (s *SceneSerializer) writeScene(sc *scene.Scene) error {
	s.w.StartObject(false)

	if sc.RootNode != nil {
		s.w.Key("rootnode")
		if err := s.writeNode(sc.RootNode, false); err != nil {
			return err
		}
	}

	s.w.Key("flags")
	s.w.SimpleUint(uint64(sc.Flags))

	if sc.HasMeshes() {
		if err := writeList(s, "meshes", sc.Meshes, s.writeMesh); err != nil {
			return err
		}
	}
	if sc.HasMaterials() {
		if err := writeList(s, "materials", sc.Materials, s.writeMaterial); err != nil {
			return err
		}
	}
	if sc.HasAnimations() {
		if err := writeList(s, "animations", sc.Animations, s.writeAnimation); err != nil {
			return err
		}
	}
	if sc.HasLights() {
		if err := writeList(s, "lights", sc.Lights, s.writeLight); err != nil {
			return err
		}
	}
	if sc.HasCameras() {
		if err := writeList(s, "cameras", sc.Cameras, s.writeCamera); err != nil {
			return err
		}
	}
	if sc.HasTextures() {
		if err := writeList(s, "textures", sc.Textures, s.writeTexture); err != nil {
			return err
		}
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeNode(n *scene.Node, isElement bool) error {
	if _, ok := s.onPath[n]; ok {
		return &CycleError{Node: n.Name}
	}
	s.onPath[n] = struct{}{}
	defer delete(s.onPath, n)

	s.w.StartObject(isElement)

	s.w.Key("name")
	s.w.SimpleString(n.Name)

	s.w.Key("transformation")
	s.w.SimpleFloats(n.Transformation.Flatten()...)

	if len(n.Meshes) > 0 {
		s.w.Key("meshes")
		s.w.StartArray(false)
		for _, idx := range n.Meshes {
			s.w.ElementUint(uint64(idx))
		}
		s.w.EndArray()
	}

	if len(n.Children) > 0 {
		err := writeList(s, "children", n.Children, func(c *scene.Node) error {
			return s.writeNode(c, true)
		})
		if err != nil {
			return err
		}
	}

	s.w.EndObject()
	return s.w.Err()
}

// writeVectors emits key and the vectors as one flat array of triplets.
func (s *SceneSerializer) writeVectors(key string, vs []scene.Vector3) {
	s.w.Key(key)
	s.w.StartArray(false)
	for _, v := range vs {
		s.w.ElementFloat(v.X)
		s.w.ElementFloat(v.Y)
		s.w.ElementFloat(v.Z)
	}
	s.w.EndArray()
}

func (s *SceneSerializer) writeMesh(m *scene.Mesh) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(m.Name)

	s.w.Key("materialindex")
	s.w.SimpleUint(uint64(m.MaterialIndex))

	s.w.Key("primitivetypes")
	s.w.SimpleUint(uint64(m.PrimitiveTypes))

	s.writeVectors("vertices", m.Vertices)

	if m.HasNormals() {
		s.writeVectors("normals", m.Normals)
	}

	if m.HasTangentsAndBitangents() {
		s.writeVectors("tangents", m.Tangents)
		s.writeVectors("bitangents", m.Bitangents)
	}

	if n := m.NumUVChannels(); n > 0 {
		s.w.Key("numuvcomponents")
		s.w.StartArray(false)
		for i := 0; i < n; i++ {
			s.w.ElementUint(uint64(m.NumUVComponents[i]))
		}
		s.w.EndArray()

		s.w.Key("texturecoords")
		s.w.StartArray(false)
		for i := 0; i < n; i++ {
			s.w.StartArray(true)
			for _, uv := range m.TextureCoords[i] {
				s.w.ElementFloat(uv.X)
				s.w.ElementFloat(uv.Y)
				s.w.ElementFloat(uv.Z)
			}
			s.w.EndArray()
		}
		s.w.EndArray()
	}

	if n := m.NumColorChannels(); n > 0 {
		s.w.Key("colors")
		s.w.StartArray(false)
		for i := 0; i < n; i++ {
			s.w.StartArray(true)
			for _, c := range m.Colors[i] {
				s.w.ElementFloat(c.R)
				s.w.ElementFloat(c.G)
				s.w.ElementFloat(c.B)
				s.w.ElementFloat(c.A)
			}
			s.w.EndArray()
		}
		s.w.EndArray()
	}

	if m.HasBones() {
		if err := writeList(s, "bones", m.Bones, s.writeBone); err != nil {
			return err
		}
	}

	s.w.Key("faces")
	s.w.StartArray(false)
	for _, f := range m.Faces {
		s.writeFace(f)
	}
	s.w.EndArray()

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeFace(f scene.Face) {
	s.w.StartArray(true)
	for _, idx := range f.Indices {
		s.w.ElementUint(uint64(idx))
	}
	s.w.EndArray()
}

func (s *SceneSerializer) writeBone(b *scene.Bone) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(b.Name)

	s.w.Key("offsetmatrix")
	s.w.SimpleFloats(b.OffsetMatrix.Flatten()...)

	s.w.Key("weights")
	s.w.StartArray(false)
	for _, vw := range b.Weights {
		s.w.StartArray(true)
		s.w.ElementUint(uint64(vw.VertexID))
		s.w.ElementFloat(vw.Weight)
		s.w.EndArray()
	}
	s.w.EndArray()

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeMaterial(mat *scene.Material) error {
	s.w.StartObject(true)

	s.w.Key("properties")
	s.w.StartArray(false)
	for _, p := range mat.Properties {
		if err := s.writeProperty(mat, p); err != nil {
			return err
		}
	}
	s.w.EndArray()

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeProperty(mat *scene.Material, p *scene.MaterialProperty) error {
	s.w.StartObject(true)

	s.w.Key("key")
	s.w.SimpleString(p.Key)

	s.w.Key("semantic")
	s.w.SimpleUint(uint64(p.Semantic))

	s.w.Key("index")
	s.w.SimpleUint(uint64(p.Index))

	s.w.Key("type")
	s.w.SimpleUint(uint64(p.Type()))

	s.w.Key("value")
	switch v := p.Value.(type) {
	case scene.Floats:
		if len(v) == 1 {
			s.w.SimpleFloat(v[0])
		} else {
			s.w.StartArray(false)
			for _, f := range v {
				s.w.ElementFloat(f)
			}
			s.w.EndArray()
		}
	case scene.Doubles:
		if len(v) == 1 {
			s.w.SimpleFloat64(v[0])
		} else {
			s.w.StartArray(false)
			for _, f := range v {
				s.w.ElementFloat64(f)
			}
			s.w.EndArray()
		}
	case scene.Ints:
		if len(v) == 1 {
			s.w.SimpleInt(int64(v[0]))
		} else {
			s.w.StartArray(false)
			for _, i := range v {
				s.w.ElementInt(int64(i))
			}
			s.w.EndArray()
		}
	case scene.String:
		str, ok := mat.GetString(p.Key, p.Semantic, p.Index)
		if !ok {
			str = string(v)
		}
		s.w.SimpleString(str)
	case scene.Buffer:
		s.w.SimpleBytes(v)
	default:
		return &UnknownPropertyTypeError{Key: p.Key, Value: p.Value}
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeTexture(t *scene.Texture) error {
	s.w.StartObject(true)

	s.w.Key("width")
	s.w.SimpleUint(uint64(t.Width))

	s.w.Key("height")
	s.w.SimpleUint(uint64(t.Height))

	s.w.Key("formathint")
	s.w.SimpleString(t.FormatHint)

	s.w.Key("data")
	if t.IsCompressed() {
		if uint64(len(t.CompressedData)) < uint64(t.Width) {
			return fmt.Errorf("compressed texture of %d bytes has only %d", t.Width, len(t.CompressedData))
		}
		s.w.SimpleBytes(t.CompressedData[:t.Width])
	} else {
		if uint64(len(t.Texels)) < uint64(t.Width)*uint64(t.Height) {
			return fmt.Errorf("texture %dx%d has only %d texels", t.Width, t.Height, len(t.Texels))
		}
		s.w.StartArray(false)
		for y := uint32(0); y < t.Height; y++ {
			if err := s.ctx.Err(); err != nil {
				return err
			}
			s.w.StartArray(true)
			row := t.Texels[y*t.Width : (y+1)*t.Width]
			for _, tx := range row {
				s.w.ElementInts(int64(tx.R), int64(tx.G), int64(tx.B), int64(tx.A))
			}
			s.w.EndArray()
		}
		s.w.EndArray()
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeLight(l *scene.Light) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(l.Name)

	s.w.Key("type")
	s.w.SimpleUint(uint64(l.Type))

	if l.Type == scene.LightSpot || l.Type == scene.LightUndefined {
		s.w.Key("angleinnercone")
		s.w.SimpleFloat(l.AngleInnerCone)

		s.w.Key("angleoutercone")
		s.w.SimpleFloat(l.AngleOuterCone)
	}

	s.w.Key("attenuationconstant")
	s.w.SimpleFloat(l.AttenuationConstant)

	s.w.Key("attenuationlinear")
	s.w.SimpleFloat(l.AttenuationLinear)

	s.w.Key("attenuationquadratic")
	s.w.SimpleFloat(l.AttenuationQuadratic)

	s.w.Key("diffusecolor")
	s.w.SimpleFloats(l.ColorDiffuse.Components()...)

	s.w.Key("specularcolor")
	s.w.SimpleFloats(l.ColorSpecular.Components()...)

	s.w.Key("ambientcolor")
	s.w.SimpleFloats(l.ColorAmbient.Components()...)

	if l.Type != scene.LightPoint {
		s.w.Key("direction")
		s.w.SimpleFloats(l.Direction.Components()...)
	}

	if l.Type != scene.LightDirectional {
		s.w.Key("position")
		s.w.SimpleFloats(l.Position.Components()...)
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeCamera(c *scene.Camera) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(c.Name)

	s.w.Key("aspect")
	s.w.SimpleFloat(c.Aspect)

	s.w.Key("clipplanefar")
	s.w.SimpleFloat(c.ClipPlaneFar)

	s.w.Key("clipplanenear")
	s.w.SimpleFloat(c.ClipPlaneNear)

	s.w.Key("horizontalfov")
	s.w.SimpleFloat(c.HorizontalFOV)

	s.w.Key("up")
	s.w.SimpleFloats(c.Up.Components()...)

	s.w.Key("lookat")
	s.w.SimpleFloats(c.LookAt.Components()...)

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeAnimation(a *scene.Animation) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(a.Name)

	s.w.Key("tickspersecond")
	s.w.SimpleFloat64(a.TicksPerSecond)

	s.w.Key("duration")
	s.w.SimpleFloat64(a.Duration)

	if err := writeList(s, "channels", a.Channels, s.writeChannel); err != nil {
		return err
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeChannel(c *scene.NodeAnim) error {
	s.w.StartObject(true)

	s.w.Key("name")
	s.w.SimpleString(c.NodeName)

	s.w.Key("prestate")
	s.w.SimpleUint(uint64(c.PreState))

	s.w.Key("poststate")
	s.w.SimpleUint(uint64(c.PostState))

	if len(c.PositionKeys) > 0 {
		s.writeVectorKeys("positionkeys", c.PositionKeys)
	}

	if len(c.RotationKeys) > 0 {
		s.w.Key("rotationkeys")
		s.w.StartArray(false)
		for _, k := range c.RotationKeys {
			s.w.StartArray(true)
			s.w.ElementFloat64(k.Time)
			s.w.ElementFloats(k.Value.Components()...)
			s.w.EndArray()
		}
		s.w.EndArray()
	}

	if len(c.ScalingKeys) > 0 {
		s.writeVectorKeys("scalingkeys", c.ScalingKeys)
	}

	s.w.EndObject()
	return s.w.Err()
}

func (s *SceneSerializer) writeVectorKeys(key string, keys []scene.VectorKey) {
	s.w.Key(key)
	s.w.StartArray(false)
	for _, k := range keys {
		s.w.StartArray(true)
		s.w.ElementFloat64(k.Time)
		s.w.ElementFloats(k.Value.Components()...)
		s.w.EndArray()
	}
	s.w.EndArray()
}
