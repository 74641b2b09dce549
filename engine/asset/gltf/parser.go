package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/go-gl/mathgl/mgl32"
)

// Errors returned by the parser. Decoding errors wrap one of these.
var (
	ErrInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	ErrInvalidGLBMagic    = errors.New("invalid GLB magic number")
	ErrInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	ErrMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	ErrInvalidBufferURI   = errors.New("invalid buffer URI")
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")
	ErrInvalidAccessor    = errors.New("invalid accessor")
)

// parser holds one decoded document with its buffers loaded.
type parser struct {
	dir  string
	read asset.ReadFunc
	doc  *gltfDocument
	bin  []byte
}

// parse decodes a .gltf or .glb file. External URIs resolve relative to the file's directory
// through read.
func parse(file string, data []byte, read asset.ReadFunc) (*parser, error) {
	p := &parser{dir: path.Dir(file), read: read}

	var jsonData []byte
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic {
		var err error
		if jsonData, p.bin, err = splitGLB(data); err != nil {
			return nil, err
		}
	} else {
		jsonData = data
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidGLTFVersion, doc.Asset.Version)
	}
	p.doc = &doc

	if err := p.loadBuffers(); err != nil {
		return nil, fmt.Errorf("failed to load buffers: %w", err)
	}
	return p, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) ([]byte, []byte, error) {
	if len(data) < 12 {
		return nil, nil, fmt.Errorf("%w: file too small", ErrInvalidGLBMagic)
	}

	r := bytes.NewReader(data)
	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, nil, ErrInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidGLBVersion, header.Version)
	}
	if int(header.Length) < len(data) && header.Length >= 12 {
		r = bytes.NewReader(data[12:header.Length])
	}

	var jsonData, binData []byte
	for {
		var chunk glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, nil, fmt.Errorf("chunk length %d exceeds remaining %d bytes", chunk.ChunkLength, r.Len())
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case glbChunkJSON:
			jsonData = body
		case glbChunkBIN:
			binData = body
		}
	}

	if jsonData == nil {
		return nil, nil, ErrMissingJSONChunk
	}
	return jsonData, binData, nil
}

// loadBuffers fills every buffer from the GLB BIN chunk, a data URI or a sibling file.
func (p *parser) loadBuffers() error {
	for i := range p.doc.Buffers {
		buf := &p.doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.bin != nil:
			buf.data = p.bin
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			data, err := p.loadURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}
		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w: have %d bytes, want %d", i, ErrBufferSizeMismatch, len(buf.data), buf.ByteLength)
		}
	}
	return nil
}

// loadURI resolves a data URI or a path relative to the document.
func (p *parser) loadURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}
	rel, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBufferURI, uri)
	}
	return p.read(path.Join(p.dir, rel))
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, ErrInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidBufferURI, header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// bufferViewBytes returns the bytes of buffer view i.
func (p *parser) bufferViewBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(p.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view index %d out of range", i)
	}
	bv := &p.doc.BufferViews[i]
	if bv.Buffer < 0 || bv.Buffer >= len(p.doc.Buffers) {
		return nil, fmt.Errorf("buffer view %d: buffer index %d out of range", i, bv.Buffer)
	}
	data := p.doc.Buffers[bv.Buffer].data
	if bv.ByteOffset+bv.ByteLength > len(data) {
		return nil, fmt.Errorf("buffer view %d: %w", i, ErrBufferSizeMismatch)
	}
	return data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// --- Accessor Data Reading ---

// elements calls fn with the bytes of every element of accessor i, honoring the view stride.
// Accessors without a buffer view yield zeroed elements.
func (p *parser) elements(i int, wantType string, fn func(acc *gltfAccessor, elem []byte)) error {
	if i < 0 || i >= len(p.doc.Accessors) {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidAccessor, i)
	}
	acc := &p.doc.Accessors[i]
	if acc.Type != wantType {
		return fmt.Errorf("%w: accessor %d is %s, want %s", ErrInvalidAccessor, i, acc.Type, wantType)
	}
	if acc.Sparse != nil {
		return fmt.Errorf("%w: accessor %d is sparse", ErrInvalidAccessor, i)
	}
	size := componentSize(acc.ComponentType)
	if size == 0 {
		return fmt.Errorf("%w: accessor %d has component type %d", ErrInvalidAccessor, i, acc.ComponentType)
	}
	elemSize := size * componentCount(acc.Type)

	if acc.BufferView == nil {
		zero := make([]byte, elemSize)
		for n := 0; n < acc.Count; n++ {
			fn(acc, zero)
		}
		return nil
	}

	view, err := p.bufferViewBytes(*acc.BufferView)
	if err != nil {
		return err
	}
	stride := elemSize
	if bv := p.doc.BufferViews[*acc.BufferView]; bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	if acc.Count > 0 && acc.ByteOffset+(acc.Count-1)*stride+elemSize > len(view) {
		return fmt.Errorf("%w: accessor %d overruns its buffer view", ErrInvalidAccessor, i)
	}
	for n := 0; n < acc.Count; n++ {
		off := acc.ByteOffset + n*stride
		fn(acc, view[off:off+elemSize])
	}
	return nil
}

// floats reads accessor i as float components. Integer components are normalized when the
// accessor says so.
func (p *parser) floats(i int, wantType string) ([]float32, error) {
	var out []float32
	err := p.elements(i, wantType, func(acc *gltfAccessor, elem []byte) {
		size := componentSize(acc.ComponentType)
		for c := 0; c+size <= len(elem); c += size {
			out = append(out, decodeFloat(elem[c:], acc.ComponentType, acc.Normalized))
		}
	})
	return out, err
}

// uints reads accessor i as unsigned integer components.
func (p *parser) uints(i int, wantType string) ([]uint32, error) {
	var out []uint32
	var bad int
	err := p.elements(i, wantType, func(acc *gltfAccessor, elem []byte) {
		size := componentSize(acc.ComponentType)
		for c := 0; c+size <= len(elem); c += size {
			switch acc.ComponentType {
			case componentUnsignedByte:
				out = append(out, uint32(elem[c]))
			case componentUnsignedShort:
				out = append(out, uint32(binary.LittleEndian.Uint16(elem[c:])))
			case componentUnsignedInt:
				out = append(out, binary.LittleEndian.Uint32(elem[c:]))
			default:
				bad = acc.ComponentType
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if bad != 0 {
		return nil, fmt.Errorf("%w: accessor %d has non-integer component type %d", ErrInvalidAccessor, i, bad)
	}
	return out, nil
}

func (p *parser) scalars(i int) ([]float32, error) {
	return p.floats(i, typeScalar)
}

func (p *parser) vec2s(i int) ([]mgl32.Vec2, error) {
	f, err := p.floats(i, typeVec2)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec2, len(f)/2)
	for n := range out {
		out[n] = mgl32.Vec2{f[n*2], f[n*2+1]}
	}
	return out, nil
}

func (p *parser) vec3s(i int) ([]mgl32.Vec3, error) {
	f, err := p.floats(i, typeVec3)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec3, len(f)/3)
	for n := range out {
		out[n] = mgl32.Vec3{f[n*3], f[n*3+1], f[n*3+2]}
	}
	return out, nil
}

func (p *parser) vec4s(i int) ([]mgl32.Vec4, error) {
	f, err := p.floats(i, typeVec4)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec4, len(f)/4)
	for n := range out {
		out[n] = mgl32.Vec4{f[n*4], f[n*4+1], f[n*4+2], f[n*4+3]}
	}
	return out, nil
}

func (p *parser) mat4s(i int) ([]mgl32.Mat4, error) {
	f, err := p.floats(i, typeMat4)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Mat4, len(f)/16)
	for n := range out {
		copy(out[n][:], f[n*16:n*16+16])
	}
	return out, nil
}

func (p *parser) joints(i int) ([][4]uint32, error) {
	u, err := p.uints(i, typeVec4)
	if err != nil {
		return nil, err
	}
	out := make([][4]uint32, len(u)/4)
	for n := range out {
		out[n] = [4]uint32{u[n*4], u[n*4+1], u[n*4+2], u[n*4+3]}
	}
	return out, nil
}

// --- Helper Functions ---

func decodeFloat(b []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case componentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case componentUnsignedByte:
		if normalized {
			return float32(b[0]) / 255
		}
		return float32(b[0])
	case componentByte:
		if normalized {
			return float32(math.Max(float64(int8(b[0]))/127, -1))
		}
		return float32(int8(b[0]))
	case componentUnsignedShort:
		v := binary.LittleEndian.Uint16(b)
		if normalized {
			return float32(v) / 65535
		}
		return float32(v)
	case componentShort:
		v := int16(binary.LittleEndian.Uint16(b))
		if normalized {
			return float32(math.Max(float64(v)/32767, -1))
		}
		return float32(v)
	case componentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// componentSize returns the byte size of a component type.
func componentSize(componentType int) int {
	switch componentType {
	case componentByte, componentUnsignedByte:
		return 1
	case componentShort, componentUnsignedShort:
		return 2
	case componentUnsignedInt, componentFloat:
		return 4
	default:
		return 0
	}
}

// componentCount returns the number of components for an accessor type.
func componentCount(accessorType string) int {
	switch accessorType {
	case typeScalar:
		return 1
	case typeVec2:
		return 2
	case typeVec3:
		return 3
	case typeVec4:
		return 4
	case typeMat4:
		return 16
	default:
		return 0
	}
}
