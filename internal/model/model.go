package model

import "fmt"

// Format identifies the pixel format of a copy surface.
type Format string

// Pixel format constants.
const (
	FormatNV12     Format = "nv12"
	FormatP010     Format = "p010"
	FormatP016     Format = "p016"
	FormatYUY2     Format = "yuy2"
	FormatY210     Format = "y210"
	FormatAYUV     Format = "ayuv"
	FormatARGB8888 Format = "argb8888"
	FormatRGBP     Format = "rgbp"
	FormatR8       Format = "r8"
)

// ParseFormat validates a pixel format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatNV12, FormatP010, FormatP016, FormatYUY2, FormatY210,
		FormatAYUV, FormatARGB8888, FormatRGBP, FormatR8:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown pixel format %q", s)
	}
}

// TileMode identifies the memory layout of a surface.
type TileMode string

// Tile mode constants. Everything except TileLinear is a hardware tiled layout.
const (
	TileLinear TileMode = "linear"
	TileX      TileMode = "tile-x"
	TileY      TileMode = "tile-y"
	Tile4      TileMode = "tile-4"
	Tile64     TileMode = "tile-64"
)

// Linear reports whether the surface uses a linear (non-tiled) layout.
func (t TileMode) Linear() bool { return t == TileLinear }

// ParseTileMode validates a tile mode string. An empty string resolves to
// TileLinear.
func ParseTileMode(s string) (TileMode, error) {
	switch TileMode(s) {
	case "":
		return TileLinear, nil
	case TileLinear, TileX, TileY, Tile4, Tile64:
		return TileMode(s), nil
	default:
		return "", fmt.Errorf("unknown tile mode %q", s)
	}
}

// Compression identifies the memory-compression state of a surface's backing
// memory.
type Compression string

// Compression mode constants.
const (
	CompressionDisabled Compression = "disabled"
	CompressionMC       Compression = "mc" // media compressed
	CompressionRC       Compression = "rc" // render compressed
)

// Active reports whether any memory compression is in effect.
func (c Compression) Active() bool { return c != "" && c != CompressionDisabled }

// ParseCompression validates a compression mode string. An empty string
// resolves to CompressionDisabled.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "":
		return CompressionDisabled, nil
	case CompressionDisabled, CompressionMC, CompressionRC:
		return Compression(s), nil
	default:
		return "", fmt.Errorf("unknown compression mode %q", s)
	}
}

// Protection identifies the content-protection mode of a surface.
type Protection string

// Protection mode constants.
const (
	ProtectionClear     Protection = "clear"
	ProtectionProtected Protection = "protected"
)

// Engine identifies a hardware copy engine.
type Engine string

// Copy engine constants.
const (
	EngineVebox  Engine = "vebox"
	EngineBlt    Engine = "blt"
	EngineRender Engine = "render"
)

// Engines lists all copy engines in a stable order.
var Engines = []Engine{EngineVebox, EngineBlt, EngineRender}

// Policy selects the preference ordering used when more than one engine is
// capable of a copy.
type Policy string

// Copy policy constants. PolicyDefault is an alias of PolicyPerformance.
const (
	PolicyDefault     Policy = "default"
	PolicyPerformance Policy = "performance"
	PolicyBalanced    Policy = "balanced"
	PolicyPowerSaving Policy = "powersaving"
)

// ParsePolicy validates a policy string. An empty string resolves to
// PolicyDefault.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyDefault, nil
	case PolicyDefault, PolicyPerformance, PolicyBalanced, PolicyPowerSaving:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown copy policy %q", s)
	}
}

// ForceMode pins engine selection regardless of policy. It is a diagnostic
// knob, populated only in debug configurations; production builds leave it at
// ForceNone.
type ForceMode string

// Force mode constants. ForceBypass aborts the whole copy so callers can
// validate that engine bypass is treated as a first-class failure.
const (
	ForceNone        ForceMode = ""
	ForcePerformance ForceMode = "performance"
	ForceBalanced    ForceMode = "balanced"
	ForcePowerSaving ForceMode = "powersaving"
	ForceBypass      ForceMode = "bypass"
)

// CapabilitySet records which engines can perform a given copy. Evaluation
// starts from the set of available engines and only clears flags.
type CapabilitySet struct {
	Vebox  bool `json:"vebox"`
	Blt    bool `json:"blt"`
	Render bool `json:"render"`
}

// Any reports whether at least one engine remains capable.
func (c CapabilitySet) Any() bool { return c.Vebox || c.Blt || c.Render }

// Surface is an immutable snapshot of one surface's copy-relevant state,
// gathered from the resource provider at copy time. It carries no ownership of
// the underlying allocation.
type Surface struct {
	Format      Format      `json:"format"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Pitch       int         `json:"pitch"`
	Tile        TileMode    `json:"tile"`
	Compression Compression `json:"compression"`
	Protection  Protection  `json:"protection"`
	Aux         bool        `json:"aux"`
}
