package scene

import (
	"errors"
	"fmt"
)

// PropertyType is the type tag of a material property value.
type PropertyType uint32

const (
	PropertyFloat   PropertyType = 0x1
	PropertyDouble  PropertyType = 0x2
	PropertyString  PropertyType = 0x3
	PropertyInteger PropertyType = 0x4
	PropertyBuffer  PropertyType = 0x5
)

var propertyTypeNames = map[string]PropertyType{
	"float":   PropertyFloat,
	"double":  PropertyDouble,
	"string":  PropertyString,
	"int":     PropertyInteger,
	"integer": PropertyInteger,
	"buffer":  PropertyBuffer,
}

// ErrUnknownPropertyType is returned for a type tag outside the closed set.
var ErrUnknownPropertyType = errors.New("unknown material property type")

// ParsePropertyType maps a type name (float, double, string, int, buffer) to
// its tag.
func ParsePropertyType(name string) (PropertyType, error) {
	if t, ok := propertyTypeNames[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPropertyType, name)
}

// TextureType is the semantic of a texture-related material property.
// Zero is used for properties unrelated to textures.
type TextureType uint32

const (
	TextureTypeNone TextureType = iota
	TextureTypeDiffuse
	TextureTypeSpecular
	TextureTypeAmbient
	TextureTypeEmissive
	TextureTypeHeight
	TextureTypeNormals
	TextureTypeShininess
	TextureTypeOpacity
	TextureTypeDisplacement
	TextureTypeLightmap
	TextureTypeReflection
	TextureTypeUnknown
)

// PropertyValue is the typed payload of a material property. The set of
// implementations is closed: Floats, Doubles, Ints, String and Buffer.
type PropertyValue interface {
	Type() PropertyType
	Len() int
	isPropertyValue()
}

// Floats is a float property; a single element is a scalar.
type Floats []float32

// Doubles is a double precision property; a single element is a scalar.
type Doubles []float64

// Ints is an integer property; a single element is a scalar.
type Ints []int32

// String is a string property.
type String string

// Buffer is an opaque binary property.
type Buffer []byte

func (Floats) Type() PropertyType  { return PropertyFloat }
func (Doubles) Type() PropertyType { return PropertyDouble }
func (Ints) Type() PropertyType    { return PropertyInteger }
func (String) Type() PropertyType  { return PropertyString }
func (Buffer) Type() PropertyType  { return PropertyBuffer }

func (v Floats) Len() int  { return len(v) }
func (v Doubles) Len() int { return len(v) }
func (v Ints) Len() int    { return len(v) }
func (v String) Len() int  { return len(v) }
func (v Buffer) Len() int  { return len(v) }

func (Floats) isPropertyValue()  {}
func (Doubles) isPropertyValue() {}
func (Ints) isPropertyValue()    {}
func (String) isPropertyValue()  {}
func (Buffer) isPropertyValue()  {}

// MaterialProperty is one keyed entry of a material.
type MaterialProperty struct {
	Key      string
	Semantic TextureType
	Index    uint32
	Value    PropertyValue
}

// Type returns the property's type tag, or zero when it has no value.
func (p *MaterialProperty) Type() PropertyType {
	if p.Value == nil {
		return 0
	}
	return p.Value.Type()
}

// Common property keys.
const (
	KeyName           = "?mat.name"
	KeyColorDiffuse   = "$clr.diffuse"
	KeyColorSpecular  = "$clr.specular"
	KeyShininess      = "$mat.shininess"
	KeyOpacity        = "$mat.opacity"
	KeyTextureFile    = "$tex.file"
	KeyTwoSided       = "$mat.twosided"
	KeyShadingModel   = "$mat.shadingm"
	KeyTextureUVWSrc  = "$tex.uvwsrc"
	KeyTextureMapping = "$tex.mapping"
)

// Material is an ordered list of properties.
type Material struct {
	Properties []*MaterialProperty
}

// Property finds the property with the given key, semantic and index.
func (m *Material) Property(key string, semantic TextureType, index uint32) (*MaterialProperty, bool) {
	for _, p := range m.Properties {
		if p.Key == key && p.Semantic == semantic && p.Index == index {
			return p, true
		}
	}
	return nil, false
}

// GetString resolves a string property.
func (m *Material) GetString(key string, semantic TextureType, index uint32) (string, bool) {
	p, ok := m.Property(key, semantic, index)
	if !ok {
		return "", false
	}
	s, ok := p.Value.(String)
	return string(s), ok
}

// Name returns the material name, if set.
func (m *Material) Name() string {
	s, _ := m.GetString(KeyName, TextureTypeNone, 0)
	return s
}
