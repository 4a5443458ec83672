package cartography

// Fill is one visual state of a feature.
type Fill struct {
	Fill    string
	Outline string
}

// FeatureStyle holds the three visual states of a map feature.
type FeatureStyle struct {
	Default Fill
	Hover   Fill
	Pressed Fill
}

// DefaultStyle is the atlas palette.
var DefaultStyle = FeatureStyle{
	Default: Fill{Fill: "rgba(148, 163, 184, 0.35)", Outline: "none"},
	Hover:   Fill{Fill: "rgba(94, 234, 212, 0.55)", Outline: "none"},
	Pressed: Fill{Fill: "rgba(56, 189, 248, 0.55)", Outline: "none"},
}

// Marker appearance: a solid core inside a translucent halo.
const (
	MarkerCoreRadius  = 5
	MarkerCoreFill    = "#facc15"
	MarkerCoreOpacity = 0.95
	MarkerHaloRadius  = 11
	MarkerHaloFill    = "rgba(250, 204, 21, 0.35)"
)
