package gltf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// sceneExtractor converts the document's node hierarchy, meshes, skins and materials into
// scene assets. Shared data is decoded once and reused by every scene of the document.
type sceneExtractor struct {
	p *parser

	nodes      []scene.Node
	primitives []scene.Primitive
	meshPrims  [][]int // primitive indices per glTF mesh
	skins      []scene.Skin
	materials  []scene.StandardMaterial
	images     map[int]*scene.Image
}

func newSceneExtractor(p *parser) *sceneExtractor {
	return &sceneExtractor{p: p, images: make(map[int]*scene.Image)}
}

// prepare decodes everything scenes share.
func (e *sceneExtractor) prepare() error {
	for i := range e.p.doc.Materials {
		m, err := e.material(i)
		if err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		e.materials = append(e.materials, m)
	}

	e.meshPrims = make([][]int, len(e.p.doc.Meshes))
	for mi, m := range e.p.doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != nil && *prim.Mode != modeTriangles {
				continue
			}
			mesh, err := e.mesh(prim)
			if err != nil {
				return fmt.Errorf("mesh %d (%s) primitive %d: %w", mi, m.Name, pi, err)
			}
			material := -1
			if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(e.materials) {
				material = *prim.Material
			}
			e.meshPrims[mi] = append(e.meshPrims[mi], len(e.primitives))
			e.primitives = append(e.primitives, scene.Primitive{Mesh: mesh, Material: material})
		}
	}

	for i, s := range e.p.doc.Skins {
		sk, err := e.skin(s)
		if err != nil {
			return fmt.Errorf("skin %d: %w", i, err)
		}
		e.skins = append(e.skins, sk)
	}

	return e.buildNodes()
}

// buildNodes converts every node and links parents from the children lists.
func (e *sceneExtractor) buildNodes() error {
	doc := e.p.doc
	e.nodes = make([]scene.Node, len(doc.Nodes))
	for i := range e.nodes {
		e.nodes[i].Parent = -1
	}
	for i, n := range doc.Nodes {
		t, r, s := nodeTRS(n)
		e.nodes[i].Name = n.Name
		e.nodes[i].Translation, e.nodes[i].Rotation, e.nodes[i].Scale = t, r, s
		e.nodes[i].Skin = -1
		if n.Skin != nil && *n.Skin >= 0 && *n.Skin < len(e.skins) {
			e.nodes[i].Skin = *n.Skin
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
			if e.nodes[c].Parent >= 0 {
				return fmt.Errorf("node %d has two parents", c)
			}
			e.nodes[c].Parent = i
		}
	}
	return nil
}

// scene builds the asset for scene index si. Only nodes reachable from the scene roots carry
// geometry; every node stays present so animation curves can address nodes by glTF index.
func (e *sceneExtractor) scene(si int) (*scene.SceneAsset, error) {
	doc := e.p.doc
	if si < 0 || si >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", si)
	}

	nodes := make([]scene.Node, len(e.nodes))
	copy(nodes, e.nodes)

	var visit func(i int) error
	visit = func(i int) error {
		if i < 0 || i >= len(doc.Nodes) {
			return fmt.Errorf("scene %d: node %d out of range", si, i)
		}
		if m := doc.Nodes[i].Mesh; m != nil && *m >= 0 && *m < len(e.meshPrims) {
			nodes[i].Primitives = e.meshPrims[*m]
		}
		for _, c := range doc.Nodes[i].Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range doc.Scenes[si].Nodes {
		if err := visit(root); err != nil {
			return nil, err
		}
	}

	return &scene.SceneAsset{
		Name:       doc.Scenes[si].Name,
		Nodes:      nodes,
		Primitives: e.primitives,
		Skins:      e.skins,
		Materials:  e.materials,
	}, nil
}

// mesh reads one triangle primitive.
func (e *sceneExtractor) mesh(prim gltfPrimitive) (*scene.Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("%w: primitive has no POSITION", ErrInvalidAccessor)
	}
	positions, err := e.p.vec3s(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	m := &scene.Mesh{Positions: positions}

	if prim.Indices != nil {
		if m.Indices, err = e.p.uints(*prim.Indices, typeScalar); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("%w: index %d beyond %d vertices", ErrInvalidAccessor, idx, len(positions))
		}
	}

	if i, ok := prim.Attributes["NORMAL"]; ok {
		if m.Normals, err = e.p.vec3s(i); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	} else {
		m.Normals = smoothNormals(positions, m.Indices)
	}

	if i, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if m.UVs, err = e.p.vec2s(i); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	} else {
		m.UVs = make([]mgl32.Vec2, len(positions))
	}

	ji, hasJoints := prim.Attributes["JOINTS_0"]
	wi, hasWeights := prim.Attributes["WEIGHTS_0"]
	if hasJoints && hasWeights {
		if m.Joints, err = e.p.joints(ji); err != nil {
			return nil, fmt.Errorf("joints: %w", err)
		}
		if m.Weights, err = e.p.vec4s(wi); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}

	if len(m.Normals) != len(positions) || len(m.UVs) != len(positions) {
		return nil, fmt.Errorf("%w: attribute counts differ from %d positions", ErrInvalidAccessor, len(positions))
	}
	return m, nil
}

// smoothNormals averages the face normals around each vertex.
func smoothNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}

func (e *sceneExtractor) skin(s gltfSkin) (scene.Skin, error) {
	for _, j := range s.Joints {
		if j < 0 || j >= len(e.p.doc.Nodes) {
			return scene.Skin{}, fmt.Errorf("joint node %d out of range", j)
		}
	}
	sk := scene.Skin{Joints: s.Joints}
	if s.InverseBindMatrices == nil {
		sk.InverseBind = make([]mgl32.Mat4, len(s.Joints))
		for i := range sk.InverseBind {
			sk.InverseBind[i] = mgl32.Ident4()
		}
		return sk, nil
	}
	ibm, err := e.p.mat4s(*s.InverseBindMatrices)
	if err != nil {
		return scene.Skin{}, fmt.Errorf("inverse bind matrices: %w", err)
	}
	if len(ibm) < len(s.Joints) {
		return scene.Skin{}, fmt.Errorf("%w: %d inverse bind matrices for %d joints", ErrInvalidAccessor, len(ibm), len(s.Joints))
	}
	sk.InverseBind = ibm
	return sk, nil
}

func (e *sceneExtractor) material(i int) (scene.StandardMaterial, error) {
	m := scene.NewMaterial(1, 1, 1)
	pbr := e.p.doc.Materials[i].PbrMetallicRoughness
	if pbr == nil {
		return m, nil
	}
	if pbr.BaseColorFactor != nil {
		m.BaseColor = mgl32.Vec4(*pbr.BaseColorFactor)
	}
	if pbr.BaseColorTexture != nil {
		img, err := e.texture(pbr.BaseColorTexture.Index)
		if err != nil {
			return m, fmt.Errorf("base color texture: %w", err)
		}
		m.BaseColorTexture = img
	}
	return m, nil
}

// texture decodes the image behind texture index ti into RGBA8.
func (e *sceneExtractor) texture(ti int) (*scene.Image, error) {
	doc := e.p.doc
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil, fmt.Errorf("texture %d has no source image", ti)
	}
	src := *doc.Textures[ti].Source
	if img, ok := e.images[src]; ok {
		return img, nil
	}
	if src < 0 || src >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", src)
	}

	var data []byte
	var err error
	if ref := doc.Images[src]; ref.BufferView != nil {
		data, err = e.p.bufferViewBytes(*ref.BufferView)
	} else {
		data, err = e.p.loadURI(ref.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", src, err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image %d: failed to decode: %w", src, err)
	}
	bounds := decoded.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)

	img := &scene.Image{Width: bounds.Dx(), Height: bounds.Dy(), Pixels: rgba.Pix}
	e.images[src] = img
	return img, nil
}

// nodeTRS returns the local transform of a node, decomposing its matrix when present.
func nodeTRS(n gltfNode) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t, r, s := mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}
	if n.Matrix != nil {
		m := mgl32.Mat4(*n.Matrix)
		t = m.Col(3).Vec3()
		s = mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
		rot := mgl32.Ident4()
		for c := 0; c < 3; c++ {
			if s[c] != 0 {
				rot.SetCol(c, m.Col(c).Mul(1/s[c]))
			}
		}
		rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
		return t, mgl32.Mat4ToQuat(rot).Normalize(), s
	}
	if n.Translation != nil {
		t = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		q := *n.Rotation
		r = mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize()
	}
	if n.Scale != nil {
		s = mgl32.Vec3(*n.Scale)
	}
	return t, r, s
}
