package internal

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/scene2json/internal/scene"
	"gopkg.in/yaml.v3"
)

// Importer reads a scene from a file
type Importer interface {
	Import(ctx context.Context, path string) (*scene.Scene, error)
	Extensions() []string
}

// DescriptionImporter reads YAML or JSON scene descriptions
type DescriptionImporter struct{}

// Extensions returns the file extensions handled by this importer
func (DescriptionImporter) Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// NewImporter returns the importer for the file's extension
func NewImporter(path string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	imp := DescriptionImporter{}
	for _, e := range imp.Extensions() {
		if ext == e {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unsupported input format %q (supported: .yaml, .yml, .json)", ext)
}

// ImportFile imports the scene at path with the matching importer
func ImportFile(ctx context.Context, path string) (*scene.Scene, error) {
	imp, err := NewImporter(path)
	if err != nil {
		return nil, &ImportError{Path: path, Op: "open", Err: err}
	}
	return imp.Import(ctx, path)
}

// Import reads and converts the description at path
func (DescriptionImporter) Import(ctx context.Context, path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImportError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ImportError{Path: path, Op: "read", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseSceneDescription(path, data)
}

// ParseSceneDescription decodes a YAML or JSON description. source names the
// input in errors.
func ParseSceneDescription(source string, data []byte) (*scene.Scene, error) {
	var raw RawScene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &ImportError{Path: source, Op: "decode", Err: err}
	}
	if raw.RootNode == nil {
		return nil, &ParseError{Source: source, Key: "rootnode", Err: errors.New("missing root node")}
	}

	c := &converter{source: source}
	sc := c.convert(&raw)
	if c.err != nil {
		return nil, c.err
	}
	LogDebug("Imported %s: %d meshes, %d materials", source, len(sc.Meshes), len(sc.Materials))
	return sc, nil
}

// converter turns a RawScene into a scene.Scene, keeping the first error
type converter struct {
	source string
	err    error
}

func (c *converter) fail(key string, format string, args ...interface{}) {
	if c.err == nil {
		c.err = &ParseError{Source: c.source, Key: key, Err: fmt.Errorf(format, args...)}
	}
}

func (c *converter) failErr(key string, err error) {
	if c.err == nil {
		c.err = &ParseError{Source: c.source, Key: key, Err: err}
	}
}

func (c *converter) convert(raw *RawScene) *scene.Scene {
	sc := &scene.Scene{Flags: scene.Flags(raw.Flags)}

	for i := range raw.Meshes {
		sc.Meshes = append(sc.Meshes, c.mesh(fmt.Sprintf("meshes[%d]", i), &raw.Meshes[i]))
	}
	for i := range raw.Materials {
		sc.Materials = append(sc.Materials, c.material(fmt.Sprintf("materials[%d]", i), &raw.Materials[i]))
	}
	for i := range raw.Animations {
		sc.Animations = append(sc.Animations, c.animation(fmt.Sprintf("animations[%d]", i), &raw.Animations[i]))
	}
	for i := range raw.Textures {
		sc.Textures = append(sc.Textures, c.texture(fmt.Sprintf("textures[%d]", i), &raw.Textures[i]))
	}
	for i := range raw.Lights {
		sc.Lights = append(sc.Lights, c.light(fmt.Sprintf("lights[%d]", i), &raw.Lights[i]))
	}
	for i := range raw.Cameras {
		sc.Cameras = append(sc.Cameras, c.camera(fmt.Sprintf("cameras[%d]", i), &raw.Cameras[i]))
	}

	sc.RootNode = c.node("rootnode", raw.RootNode, len(sc.Meshes))

	for i, m := range sc.Meshes {
		if len(sc.Materials) > 0 && int(m.MaterialIndex) >= len(sc.Materials) {
			c.fail(fmt.Sprintf("meshes[%d].materialindex", i), "material %d out of range (%d materials)", m.MaterialIndex, len(sc.Materials))
		}
	}
	return sc
}

func (c *converter) matrix(key string, v []float32) scene.Matrix4 {
	if len(v) == 0 {
		return scene.Identity()
	}
	m, ok := scene.MatrixFromSlice(v)
	if !ok {
		c.fail(key, "matrix needs 16 values, got %d", len(v))
	}
	return m
}

func (c *converter) vec3(key string, v []float32) scene.Vector3 {
	if len(v) == 0 {
		return scene.Vector3{}
	}
	if len(v) != 3 {
		c.fail(key, "vector needs 3 values, got %d", len(v))
		return scene.Vector3{}
	}
	return scene.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (c *converter) vec3s(key string, vs [][]float32) []scene.Vector3 {
	if len(vs) == 0 {
		return nil
	}
	out := make([]scene.Vector3, len(vs))
	for i, v := range vs {
		out[i] = c.vec3(fmt.Sprintf("%s[%d]", key, i), v)
	}
	return out
}

func (c *converter) color3(key string, v []float32) scene.Color3 {
	if len(v) == 0 {
		return scene.Color3{}
	}
	if len(v) != 3 {
		c.fail(key, "color needs 3 values, got %d", len(v))
		return scene.Color3{}
	}
	return scene.Color3{R: v[0], G: v[1], B: v[2]}
}

func (c *converter) node(key string, raw *RawNode, numMeshes int) *scene.Node {
	n := &scene.Node{
		Name:           raw.Name,
		Transformation: c.matrix(key+".transformation", raw.Transformation),
		Meshes:         raw.Meshes,
	}
	for _, idx := range raw.Meshes {
		if int(idx) >= numMeshes {
			c.fail(key+".meshes", "mesh %d out of range (%d meshes)", idx, numMeshes)
		}
	}
	for i := range raw.Children {
		n.Children = append(n.Children, c.node(fmt.Sprintf("%s.children[%d]", key, i), &raw.Children[i], numMeshes))
	}
	return n
}

func (c *converter) mesh(key string, raw *RawMesh) *scene.Mesh {
	m := &scene.Mesh{
		Name:          raw.Name,
		MaterialIndex: raw.MaterialIndex,
		Vertices:      c.vec3s(key+".vertices", raw.Vertices),
		Normals:       c.vec3s(key+".normals", raw.Normals),
		Tangents:      c.vec3s(key+".tangents", raw.Tangents),
		Bitangents:    c.vec3s(key+".bitangents", raw.Bitangents),
	}
	nv := len(m.Vertices)

	sameLength := func(name string, n int) {
		if n != 0 && n != nv {
			c.fail(key+"."+name, "has %d entries for %d vertices", n, nv)
		}
	}
	sameLength("normals", len(m.Normals))
	sameLength("tangents", len(m.Tangents))
	sameLength("bitangents", len(m.Bitangents))
	if (len(m.Tangents) == 0) != (len(m.Bitangents) == 0) {
		c.fail(key+".tangents", "tangents and bitangents must be given together")
	}

	if len(raw.TextureCoords) > scene.MaxTextureCoords {
		c.fail(key+".texturecoords", "at most %d channels, got %d", scene.MaxTextureCoords, len(raw.TextureCoords))
	}
	for ch := 0; ch < len(raw.TextureCoords) && ch < scene.MaxTextureCoords; ch++ {
		chKey := fmt.Sprintf("%s.texturecoords[%d]", key, ch)
		coords := make([]scene.Vector3, len(raw.TextureCoords[ch]))
		for i, uv := range raw.TextureCoords[ch] {
			if len(uv) < 1 || len(uv) > 3 {
				c.fail(fmt.Sprintf("%s[%d]", chKey, i), "texture coordinate needs 1 to 3 values, got %d", len(uv))
				continue
			}
			var v [3]float32
			copy(v[:], uv)
			coords[i] = scene.Vector3{X: v[0], Y: v[1], Z: v[2]}
		}
		if len(coords) == 0 {
			c.fail(chKey, "empty texture coordinate channel")
		}
		sameLength(fmt.Sprintf("texturecoords[%d]", ch), len(coords))
		m.TextureCoords[ch] = coords
		m.NumUVComponents[ch] = 2
		if ch < len(raw.NumUVComponents) {
			m.NumUVComponents[ch] = raw.NumUVComponents[ch]
		}
	}

	if len(raw.Colors) > scene.MaxColorSets {
		c.fail(key+".colors", "at most %d channels, got %d", scene.MaxColorSets, len(raw.Colors))
	}
	for ch := 0; ch < len(raw.Colors) && ch < scene.MaxColorSets; ch++ {
		chKey := fmt.Sprintf("%s.colors[%d]", key, ch)
		colors := make([]scene.Color4, len(raw.Colors[ch]))
		for i, col := range raw.Colors[ch] {
			if len(col) != 4 {
				c.fail(fmt.Sprintf("%s[%d]", chKey, i), "color needs 4 values, got %d", len(col))
				continue
			}
			colors[i] = scene.Color4{R: col[0], G: col[1], B: col[2], A: col[3]}
		}
		if len(colors) == 0 {
			c.fail(chKey, "empty color channel")
		}
		sameLength(fmt.Sprintf("colors[%d]", ch), len(colors))
		m.Colors[ch] = colors
	}

	for i := range raw.Bones {
		m.Bones = append(m.Bones, c.bone(fmt.Sprintf("%s.bones[%d]", key, i), &raw.Bones[i], nv))
	}

	var inferred scene.PrimitiveType
	for i, idx := range raw.Faces {
		faceKey := fmt.Sprintf("%s.faces[%d]", key, i)
		if len(idx) == 0 {
			c.fail(faceKey, "empty face")
		}
		for _, v := range idx {
			if int(v) >= nv {
				c.fail(faceKey, "vertex %d out of range (%d vertices)", v, nv)
			}
		}
		switch len(idx) {
		case 1:
			inferred |= scene.PrimitivePoint
		case 2:
			inferred |= scene.PrimitiveLine
		case 3:
			inferred |= scene.PrimitiveTriangle
		default:
			inferred |= scene.PrimitivePolygon
		}
		m.Faces = append(m.Faces, scene.Face{Indices: idx})
	}
	m.PrimitiveTypes = scene.PrimitiveType(raw.PrimitiveTypes)
	if m.PrimitiveTypes == 0 {
		m.PrimitiveTypes = inferred
	}
	return m
}

func (c *converter) bone(key string, raw *RawBone, numVertices int) *scene.Bone {
	b := &scene.Bone{
		Name:         raw.Name,
		OffsetMatrix: c.matrix(key+".offsetmatrix", raw.OffsetMatrix),
	}
	for i, w := range raw.Weights {
		wKey := fmt.Sprintf("%s.weights[%d]", key, i)
		if len(w) != 2 {
			c.fail(wKey, "weight needs [vertex, weight], got %d values", len(w))
			continue
		}
		vid := uint32(w[0])
		if float32(vid) != w[0] || int(vid) >= numVertices {
			c.fail(wKey, "invalid vertex %v (%d vertices)", w[0], numVertices)
			continue
		}
		b.Weights = append(b.Weights, scene.VertexWeight{VertexID: vid, Weight: w[1]})
	}
	return b
}

// propertySlot identifies a material property; each slot holds one value
type propertySlot struct {
	key      string
	semantic uint32
	index    uint32
}

func (c *converter) material(key string, raw *RawMaterial) *scene.Material {
	mat := &scene.Material{}
	seen := make(map[propertySlot]int)
	for i := range raw.Properties {
		pKey := fmt.Sprintf("%s.properties[%d]", key, i)
		p := &raw.Properties[i]
		slot := propertySlot{key: p.Key, semantic: p.Semantic, index: p.Index}
		if first, ok := seen[slot]; ok {
			c.fail(pKey, "duplicate of properties[%d] (key %q, semantic %d, index %d)", first, p.Key, p.Semantic, p.Index)
			continue
		}
		seen[slot] = i
		value, err := decodePropertyValue(p)
		if err != nil {
			c.failErr(pKey, err)
			continue
		}
		mat.Properties = append(mat.Properties, &scene.MaterialProperty{
			Key:      p.Key,
			Semantic: scene.TextureType(p.Semantic),
			Index:    p.Index,
			Value:    value,
		})
	}
	return mat
}

// decodePropertyValue decodes a property's value according to its type tag.
// A scalar and a one-element list are equivalent for numeric types.
func decodePropertyValue(p *RawProperty) (scene.PropertyValue, error) {
	typ, err := scene.ParsePropertyType(p.Type)
	if err != nil {
		return nil, err
	}
	if p.Value.Kind == 0 {
		return nil, fmt.Errorf("property %q has no value", p.Key)
	}

	switch typ {
	case scene.PropertyFloat:
		var v []float32
		if err := decodeScalarOrList(&p.Value, &v); err != nil {
			return nil, err
		}
		return scene.Floats(v), nil
	case scene.PropertyDouble:
		var v []float64
		if err := decodeScalarOrList(&p.Value, &v); err != nil {
			return nil, err
		}
		return scene.Doubles(v), nil
	case scene.PropertyInteger:
		var v []int32
		if err := decodeScalarOrList(&p.Value, &v); err != nil {
			return nil, err
		}
		return scene.Ints(v), nil
	case scene.PropertyString:
		var s string
		if err := p.Value.Decode(&s); err != nil {
			return nil, err
		}
		return scene.String(s), nil
	case scene.PropertyBuffer:
		var s string
		if err := p.Value.Decode(&s); err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("buffer: %w", err)
		}
		return scene.Buffer(b), nil
	}
	return nil, fmt.Errorf("%w: %s", scene.ErrUnknownPropertyType, p.Type)
}

func decodeScalarOrList[T any](node *yaml.Node, out *[]T) error {
	if node.Kind == yaml.SequenceNode {
		if err := node.Decode(out); err != nil {
			return err
		}
		if len(*out) == 0 {
			return errors.New("empty value list")
		}
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*out = []T{v}
	return nil
}

func (c *converter) texture(key string, raw *RawTexture) *scene.Texture {
	t := &scene.Texture{
		Width:      raw.Width,
		Height:     raw.Height,
		FormatHint: raw.FormatHint,
	}
	if t.IsCompressed() {
		data, err := hex.DecodeString(raw.Data)
		if err != nil {
			c.failErr(key+".data", err)
			return t
		}
		if t.Width == 0 {
			t.Width = uint32(len(data))
		}
		if uint32(len(data)) < t.Width {
			c.fail(key+".data", "%d bytes for width %d", len(data), t.Width)
		}
		t.CompressedData = data
		return t
	}

	if uint64(len(raw.Texels)) != uint64(t.Width)*uint64(t.Height) {
		c.fail(key+".texels", "%d texels for %dx%d", len(raw.Texels), t.Width, t.Height)
		return t
	}
	t.Texels = make([]scene.Texel, len(raw.Texels))
	for i, px := range raw.Texels {
		if len(px) != 4 {
			c.fail(fmt.Sprintf("%s.texels[%d]", key, i), "texel needs [r, g, b, a], got %d values", len(px))
			continue
		}
		for _, v := range px {
			if v < 0 || v > 255 {
				c.fail(fmt.Sprintf("%s.texels[%d]", key, i), "channel value %d out of range", v)
			}
		}
		t.Texels[i] = scene.Texel{R: uint8(px[0]), G: uint8(px[1]), B: uint8(px[2]), A: uint8(px[3])}
	}
	return t
}

func (c *converter) light(key string, raw *RawLight) *scene.Light {
	typ, ok := scene.ParseLightSourceType(raw.Type)
	if !ok {
		c.fail(key+".type", "unknown light type %q", raw.Type)
	}
	return &scene.Light{
		Name:                 raw.Name,
		Type:                 typ,
		Position:             c.vec3(key+".position", raw.Position),
		Direction:            c.vec3(key+".direction", raw.Direction),
		AttenuationConstant:  raw.AttenuationConstant,
		AttenuationLinear:    raw.AttenuationLinear,
		AttenuationQuadratic: raw.AttenuationQuadratic,
		ColorDiffuse:         c.color3(key+".diffusecolor", raw.DiffuseColor),
		ColorSpecular:        c.color3(key+".specularcolor", raw.SpecularColor),
		ColorAmbient:         c.color3(key+".ambientcolor", raw.AmbientColor),
		AngleInnerCone:       raw.AngleInnerCone,
		AngleOuterCone:       raw.AngleOuterCone,
	}
}

func (c *converter) camera(key string, raw *RawCamera) *scene.Camera {
	cam := &scene.Camera{
		Name:          raw.Name,
		Position:      c.vec3(key+".position", raw.Position),
		Up:            c.vec3(key+".up", raw.Up),
		LookAt:        c.vec3(key+".lookat", raw.LookAt),
		HorizontalFOV: raw.HorizontalFOV,
		ClipPlaneNear: raw.ClipPlaneNear,
		ClipPlaneFar:  raw.ClipPlaneFar,
		Aspect:        raw.Aspect,
	}
	if len(raw.Up) == 0 {
		cam.Up = scene.Vector3{Y: 1}
	}
	if len(raw.LookAt) == 0 {
		cam.LookAt = scene.Vector3{Z: 1}
	}
	return cam
}

func (c *converter) animation(key string, raw *RawAnimation) *scene.Animation {
	a := &scene.Animation{
		Name:           raw.Name,
		Duration:       raw.Duration,
		TicksPerSecond: raw.TicksPerSecond,
	}
	for i := range raw.Channels {
		a.Channels = append(a.Channels, c.channel(fmt.Sprintf("%s.channels[%d]", key, i), &raw.Channels[i]))
	}
	return a
}

func (c *converter) channel(key string, raw *RawChannel) *scene.NodeAnim {
	ch := &scene.NodeAnim{
		NodeName:  raw.Name,
		PreState:  c.behaviour(key+".prestate", raw.PreState),
		PostState: c.behaviour(key+".poststate", raw.PostState),
	}
	ch.PositionKeys = c.vectorKeys(key+".positionkeys", raw.PositionKeys)
	ch.ScalingKeys = c.vectorKeys(key+".scalingkeys", raw.ScalingKeys)
	for i, k := range raw.RotationKeys {
		if len(k.Value) != 4 {
			c.fail(fmt.Sprintf("%s.rotationkeys[%d]", key, i), "quaternion needs [w, x, y, z], got %d values", len(k.Value))
			continue
		}
		ch.RotationKeys = append(ch.RotationKeys, scene.QuatKey{
			Time:  k.Time,
			Value: scene.Quaternion{W: k.Value[0], X: k.Value[1], Y: k.Value[2], Z: k.Value[3]},
		})
	}
	return ch
}

func (c *converter) vectorKeys(key string, raw []RawKey) []scene.VectorKey {
	var keys []scene.VectorKey
	for i, k := range raw {
		keys = append(keys, scene.VectorKey{
			Time:  k.Time,
			Value: c.vec3(fmt.Sprintf("%s[%d]", key, i), k.Value),
		})
	}
	return keys
}

func (c *converter) behaviour(key string, v uint32) scene.AnimBehaviour {
	if v > uint32(scene.AnimBehaviourRepeat) {
		c.fail(key, "unknown behaviour %d", v)
	}
	return scene.AnimBehaviour(v)
}
