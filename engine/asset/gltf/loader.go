// Package gltf decodes glTF 2.0 files (.gltf and .glb) into scene and animation assets.
package gltf

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
)

// loader is the implementation of asset.Loader for glTF files.
type loader struct{}

var _ asset.Loader = &loader{}

// NewLoader creates the glTF loader. Register it for both ".glb" and ".gltf".
//
// A decoded file exposes:
//   - the default scene (or scene 0) as the unlabeled root asset
//   - "SceneN" as *scene.SceneAsset
//   - "AnimationN" as *animation.Clip
//   - scenes and animations under their glTF names, unless a name collides with an index label
//
// Returns:
//   - asset.Loader: the loader
func NewLoader() asset.Loader {
	return &loader{}
}

func (l *loader) Load(path string, data []byte, read asset.ReadFunc) (*asset.Decoded, error) {
	p, err := parse(path, data, read)
	if err != nil {
		return nil, err
	}

	out := &asset.Decoded{Labeled: make(map[string]any)}
	named := make(map[string]any)

	ex := newSceneExtractor(p)
	if err := ex.prepare(); err != nil {
		return nil, err
	}
	for i, s := range p.doc.Scenes {
		sa, err := ex.scene(i)
		if err != nil {
			return nil, err
		}
		out.Labeled[fmt.Sprintf("Scene%d", i)] = sa
		if s.Name != "" {
			named[s.Name] = sa
		}
	}

	for i := range p.doc.Animations {
		clip, err := p.clip(i)
		if err != nil {
			return nil, err
		}
		out.Labeled[fmt.Sprintf("Animation%d", i)] = clip
		if name := p.doc.Animations[i].Name; name != "" {
			named[name] = clip
		}
	}

	for name, v := range named {
		if _, taken := out.Labeled[name]; !taken {
			out.Labeled[name] = v
		}
	}

	if len(p.doc.Scenes) > 0 {
		def := 0
		if p.doc.Scene != nil && *p.doc.Scene >= 0 && *p.doc.Scene < len(p.doc.Scenes) {
			def = *p.doc.Scene
		}
		out.Root = out.Labeled[fmt.Sprintf("Scene%d", def)]
	}
	return out, nil
}
