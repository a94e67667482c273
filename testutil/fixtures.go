package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MinimalSceneYAML describes a scene with only a root node
const MinimalSceneYAML = `rootnode:
  name: Root
`

// SampleSceneYAML describes a scene with every entity kind
const SampleSceneYAML = `flags: 0
rootnode:
  name: Root
  children:
    - name: Triangle
      transformation: [1,0,0,2, 0,1,0,0, 0,0,1,0, 0,0,0,1]
      meshes: [0]
meshes:
  - name: Triangle
    materialindex: 0
    vertices: [[0,0,0], [1,0,0], [0,1,0]]
    normals: [[0,0,1], [0,0,1], [0,0,1]]
    texturecoords:
      - [[0,0], [1,0], [0,1]]
    numuvcomponents: [2]
    colors:
      - [[1,0,0,1], [0,1,0,1], [0,0,1,1]]
    bones:
      - name: Triangle
        weights: [[0, 1], [1, 0.5]]
    faces: [[0,1,2]]
materials:
  - properties:
      - {key: "?mat.name", type: string, value: Red}
      - {key: "$clr.diffuse", type: float, value: [0.8, 0.1, 0.1]}
      - {key: "$mat.twosided", type: int, value: 1}
      - {key: "$mat.shininess", type: double, value: 32}
      - {key: "$tex.file", semantic: 1, type: string, value: "*0"}
      - {key: "$raw.blob", type: buffer, value: "deadbeef"}
textures:
  - {width: 4, height: 0, formathint: png, data: "89504e47"}
  - width: 2
    height: 1
    formathint: rgba8888
    texels: [[255,0,0,255], [0,255,0,128]]
lights:
  - {name: Sun, type: directional, direction: [0,0,-1], attenuationconstant: 1, diffusecolor: [1,1,1]}
  - {name: Bulb, type: point, position: [0,2,0], attenuationconstant: 1, attenuationlinear: 0.1}
  - {name: Spot, type: spot, position: [0,3,0], direction: [0,-1,0], angleinnercone: 0.5, angleoutercone: 0.75}
cameras:
  - {name: Cam, up: [0,1,0], lookat: [0,0,-1], horizontalfov: 0.785, clipplanenear: 0.1, clipplanefar: 1000, aspect: 1.5}
animations:
  - name: Spin
    duration: 10
    tickspersecond: 25
    channels:
      - name: Triangle
        poststate: 3
        positionkeys:
          - {time: 0, value: [0,0,0]}
          - {time: 10, value: [1,0,0]}
        rotationkeys:
          - {time: 0, value: [1,0,0,0]}
`

// WriteSceneFixture writes a scene description into dir and returns its path
func WriteSceneFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
