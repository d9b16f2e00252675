package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/penumbra/pkg/encoding"
)

// Description is the on-disk scene document. Vector fields are strings of
// three space-separated numbers ("0.9 0.9 0.9"). Scalar fields are pointers
// so a missing key can be told apart from a zero.
type Description struct {
	Eye   string  `json:"eye" yaml:"eye"`
	Gaze  string  `json:"gaze" yaml:"gaze"`
	Up    string  `json:"top" yaml:"top"`
	FovY  *float32 `json:"fovy" yaml:"fovy"`
	ZNear *float32 `json:"zNear" yaml:"zNear"`
	ZFar  *float32 `json:"zFar" yaml:"zFar"`

	Ambient   string `json:"Ia" yaml:"Ia"`
	Ka        string `json:"Ka" yaml:"Ka"`
	Kd        string `json:"Kd" yaml:"Kd"`
	Ks        string `json:"Ks" yaml:"Ks"`
	Shininess *int   `json:"p" yaml:"p"`

	Lights   []LightDescription `json:"lights" yaml:"lights"`
	Objects  []AssetDescription `json:"objects" yaml:"objects"`
	Textures []AssetDescription `json:"textures" yaml:"textures"`
	Models   []ModelDescription `json:"models" yaml:"models"`
}

// LightDescription is one entry of the lights array.
type LightDescription struct {
	Position  string `json:"position" yaml:"position"`
	Intensity string `json:"intensity" yaml:"intensity"`
}

// AssetDescription names a mesh or texture file.
type AssetDescription struct {
	ID       string `json:"id" yaml:"id"`
	Filename string `json:"filename" yaml:"filename"`
}

// ModelDescription places a mesh in the world.
type ModelDescription struct {
	ObjectID     string   `json:"object_id" yaml:"object_id"`
	TextureID    string   `json:"tex_id,omitempty" yaml:"tex_id,omitempty"`
	RotationDeg  *float32 `json:"rotation_deg" yaml:"rotation_deg"`
	RotationAxis string   `json:"rotation_axis" yaml:"rotation_axis"`
	Scale        string   `json:"scale" yaml:"scale"`
	Translate    string   `json:"translate" yaml:"translate"`
}

// ReadDescription reads a scene document. Files ending in .yaml or .yml are
// YAML; anything else is JSON. Byte order marks are honoured.
func ReadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if data, err = encoding.ToUTF8(data); err != nil {
		return nil, fmt.Errorf("decoding scene text: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeDescription(data, FormatYAML)
	default:
		return DecodeDescription(data, FormatJSON)
	}
}

// Format selects the document syntax.
type Format int

// Supported document formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// DecodeDescription parses a scene document from data.
func DecodeDescription(data []byte, format Format) (*Description, error) {
	var d Description
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &d, nil
}
