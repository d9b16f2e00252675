// Package scene holds the in-memory scene: camera, lights, material, meshes,
// textures and the model instances that place meshes in the world.
//
// The package is CPU-only. GPU objects are attached to meshes and textures
// through the Geometry and Sampler interfaces by whoever owns the GL context.
package scene

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/Faultbox/penumbra/internal/assets"
	"github.com/Faultbox/penumbra/pkg/encoding"
	"github.com/Faultbox/penumbra/pkg/formats"
	"github.com/Faultbox/penumbra/pkg/math"
)

// Scene load errors.
var (
	ErrUnknownMesh      = errors.New("unknown mesh id")
	ErrUnknownTexture   = errors.New("unknown texture id")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrDegenerateLight  = errors.New("light cannot face the origin")
	ErrDegenerateCamera = errors.New("camera gaze is zero or parallel to up")
	ErrZeroAxis         = errors.New("rotation axis is zero")
	ErrBadFrustum       = errors.New("near/far planes out of order")
	ErrBadFov           = errors.New("field of view must be between 0 and 180 degrees")
	ErrMissingField     = errors.New("missing field")
	ErrEmptyMesh        = errors.New("mesh has no triangles")
)

// NoTexture marks a model drawn without a color texture.
const NoTexture = -1

// Geometry is the GPU side of a mesh.
type Geometry interface {
	Draw()
	Release()
}

// Sampler is the GPU side of a texture.
type Sampler interface {
	Bind(unit uint32)
	Release()
}

// Mesh is a named vertex stream shared by any number of models.
type Mesh struct {
	ID       string
	Path     string
	Vertices []formats.Vertex
	Buffer   Geometry
}

// Texture is a named color image.
type Texture struct {
	ID      string
	Path    string
	Image   *image.RGBA
	Sampler Sampler
}

// Material holds the Blinn-Phong coefficients shared by the whole scene.
type Material struct {
	Ambient   math.Vec3 // ambient light intensity
	Ka        math.Vec3
	Kd        math.Vec3
	Ks        math.Vec3
	Shininess float32
}

// Model places a mesh in the world. Mesh and Texture index Scene.Meshes and
// Scene.Textures; Texture is NoTexture when the model is untextured.
type Model struct {
	Mesh        int
	Texture     int
	RotationDeg float32
	Axis        math.Vec3
	Scale       math.Vec3
	Translate   math.Vec3
}

// World returns T * S * R: the mesh is rotated, then scaled, then translated.
func (m Model) World() math.Mat4 {
	r := math.Identity()
	if m.RotationDeg != 0 {
		r = math.RotationAbout(math.Radians(m.RotationDeg), m.Axis).Mat4()
	}
	return math.Translate(m.Translate).Mul(math.Scale(m.Scale)).Mul(r)
}

// Scene owns every mesh, texture, light and model. Models refer to meshes and
// textures by index, so a mesh shared by many models exists once.
type Scene struct {
	Camera   Orientation
	Material Material
	Lights   []Light
	Meshes   []Mesh
	Textures []Texture
	Models   []Model

	meshIndex    map[string]int
	textureIndex map[string]int
}

// Load reads a scene document and every mesh and image it references.
// Relative file names resolve against the document's directory.
func Load(path string, shadow ShadowParams) (*Scene, error) {
	return LoadWith(path, shadow, assets.NewManager())
}

// LoadWith is Load reading files through m, so scenes loaded with the same
// manager share decoded meshes and images.
func LoadWith(path string, shadow ShadowParams, m *assets.Manager) (*Scene, error) {
	desc, err := ReadDescription(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := Build(desc, filepath.Dir(path), shadow, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build assembles a scene from a parsed document. The camera comes first
// because lights take its up vector; meshes and textures come before models
// so every model reference can be checked. Any failure aborts the build.
// A nil manager reads every file afresh.
func Build(d *Description, baseDir string, shadow ShadowParams, m *assets.Manager) (*Scene, error) {
	if m == nil {
		m = assets.NewManager()
	}
	s := &Scene{
		meshIndex:    make(map[string]int),
		textureIndex: make(map[string]int),
	}

	if err := s.buildCamera(d); err != nil {
		return nil, err
	}
	if err := s.buildMaterial(d); err != nil {
		return nil, err
	}
	if err := s.buildLights(d, shadow); err != nil {
		return nil, err
	}
	if err := s.buildMeshes(d, baseDir, m); err != nil {
		return nil, err
	}
	if err := s.buildTextures(d, baseDir, m); err != nil {
		return nil, err
	}
	if err := s.buildModels(d); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) buildCamera(d *Description) error {
	eye, err := triple("eye", d.Eye)
	if err != nil {
		return err
	}
	gaze, err := triple("gaze", d.Gaze)
	if err != nil {
		return err
	}
	up, err := triple("top", d.Up)
	if err != nil {
		return err
	}
	fovY, err := required("fovy", d.FovY)
	if err != nil {
		return err
	}
	if fovY <= 0 || fovY >= 180 {
		return fmt.Errorf("fovy: %w: %v", ErrBadFov, fovY)
	}
	near, err := required("zNear", d.ZNear)
	if err != nil {
		return err
	}
	far, err := required("zFar", d.ZFar)
	if err != nil {
		return err
	}
	if near <= 0 || far <= near {
		return fmt.Errorf("zNear/zFar: %w: %v, %v", ErrBadFrustum, near, far)
	}

	s.Camera = NewOrientation(eye, gaze, up, fovY, near, far)
	if s.Camera.Gaze == (math.Vec3{}) || up.Normalize().Cross(s.Camera.Gaze).Length() < 1e-6 {
		return fmt.Errorf("gaze: %w", ErrDegenerateCamera)
	}
	return nil
}

func (s *Scene) buildMaterial(d *Description) error {
	fields := []struct {
		name string
		src  string
		dst  *math.Vec3
	}{
		{"Ia", d.Ambient, &s.Material.Ambient},
		{"Ka", d.Ka, &s.Material.Ka},
		{"Kd", d.Kd, &s.Material.Kd},
		{"Ks", d.Ks, &s.Material.Ks},
	}
	for _, f := range fields {
		v, err := triple(f.name, f.src)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	p, err := required("p", d.Shininess)
	if err != nil {
		return err
	}
	s.Material.Shininess = float32(p)
	return nil
}

func (s *Scene) buildLights(d *Description, shadow ShadowParams) error {
	s.Lights = make([]Light, 0, len(d.Lights))
	for i, ld := range d.Lights {
		field := fmt.Sprintf("lights[%d]", i)
		pos, err := triple(field+".position", ld.Position)
		if err != nil {
			return err
		}
		intensity, err := triple(field+".intensity", ld.Intensity)
		if err != nil {
			return err
		}
		light := NewLight(pos, intensity, s.Camera.Up, shadow)
		if light.degenerate() {
			return fmt.Errorf("%s.position: %w", field, ErrDegenerateLight)
		}
		s.Lights = append(s.Lights, light)
	}
	return nil
}

func (s *Scene) buildMeshes(d *Description, baseDir string, m *assets.Manager) error {
	s.Meshes = make([]Mesh, 0, len(d.Objects))
	for i, od := range d.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		if _, dup := s.meshIndex[od.ID]; dup {
			return fmt.Errorf("%s.id: %w: %q", field, ErrDuplicateID, od.ID)
		}
		path := resolvePath(baseDir, od.Filename)
		verts, err := m.Mesh(path)
		if err != nil {
			return fmt.Errorf("%s.filename: %w", field, err)
		}
		if len(verts) == 0 {
			return fmt.Errorf("%s.filename: %w: %s", field, ErrEmptyMesh, path)
		}
		s.meshIndex[od.ID] = len(s.Meshes)
		s.Meshes = append(s.Meshes, Mesh{ID: od.ID, Path: path, Vertices: verts})
	}
	return nil
}

func (s *Scene) buildTextures(d *Description, baseDir string, m *assets.Manager) error {
	s.Textures = make([]Texture, 0, len(d.Textures))
	for i, td := range d.Textures {
		field := fmt.Sprintf("textures[%d]", i)
		if _, dup := s.textureIndex[td.ID]; dup {
			return fmt.Errorf("%s.id: %w: %q", field, ErrDuplicateID, td.ID)
		}
		path := resolvePath(baseDir, td.Filename)
		img, err := m.Image(path)
		if err != nil {
			return fmt.Errorf("%s.filename: %w", field, err)
		}
		s.textureIndex[td.ID] = len(s.Textures)
		s.Textures = append(s.Textures, Texture{ID: td.ID, Path: path, Image: img})
	}
	return nil
}

func (s *Scene) buildModels(d *Description) error {
	s.Models = make([]Model, 0, len(d.Models))
	for i, md := range d.Models {
		field := fmt.Sprintf("models[%d]", i)

		mesh, ok := s.meshIndex[md.ObjectID]
		if !ok {
			return fmt.Errorf("%s.object_id: %w: %q", field, ErrUnknownMesh, md.ObjectID)
		}
		tex := NoTexture
		if md.TextureID != "" {
			if tex, ok = s.textureIndex[md.TextureID]; !ok {
				return fmt.Errorf("%s.tex_id: %w: %q", field, ErrUnknownTexture, md.TextureID)
			}
		}

		deg, err := required(field+".rotation_deg", md.RotationDeg)
		if err != nil {
			return err
		}
		axis, err := triple(field+".rotation_axis", md.RotationAxis)
		if err != nil {
			return err
		}
		if deg != 0 && axis == (math.Vec3{}) {
			return fmt.Errorf("%s.rotation_axis: %w", field, ErrZeroAxis)
		}
		scale, err := triple(field+".scale", md.Scale)
		if err != nil {
			return err
		}
		translate, err := triple(field+".translate", md.Translate)
		if err != nil {
			return err
		}

		s.Models = append(s.Models, Model{
			Mesh:        mesh,
			Texture:     tex,
			RotationDeg: deg,
			Axis:        axis,
			Scale:       scale,
			Translate:   translate,
		})
	}
	return nil
}

// MeshByID returns the mesh registered under id.
func (s *Scene) MeshByID(id string) (*Mesh, bool) {
	i, ok := s.meshIndex[id]
	if !ok {
		return nil, false
	}
	return &s.Meshes[i], true
}

// TextureByID returns the texture registered under id.
func (s *Scene) TextureByID(id string) (*Texture, bool) {
	i, ok := s.textureIndex[id]
	if !ok {
		return nil, false
	}
	return &s.Textures[i], true
}

// SetLightPosition moves light i. Its shadow layer is stale afterwards.
func (s *Scene) SetLightPosition(i int, p math.Vec3) {
	s.Lights[i].SetPosition(p)
}

// Triangles returns the number of triangles drawn per pass over all models.
func (s *Scene) Triangles() int {
	n := 0
	for _, m := range s.Models {
		n += len(s.Meshes[m.Mesh].Vertices) / 3
	}
	return n
}

// required returns *v, or ErrMissingField naming field when the key was absent.
func required[T any](field string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", field, ErrMissingField)
	}
	return *v, nil
}

func triple(field, src string) (math.Vec3, error) {
	v, err := formats.ParseTriple(src)
	if err != nil {
		return math.Vec3{}, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func resolvePath(baseDir, name string) string {
	name = filepath.FromSlash(encoding.NormalizePath(name))
	if filepath.IsAbs(name) || baseDir == "" {
		return name
	}
	return filepath.Join(baseDir, name)
}
