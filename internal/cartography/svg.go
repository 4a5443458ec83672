package cartography

import (
	"fmt"
	"html/template"
	"io"
)

var svgTemplate = template.Must(template.New("map").Funcs(template.FuncMap{
	"num": fmtNum,
	"css": func(s string) template.CSS { return template.CSS(s) },
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" class="atlas-map" viewBox="0 0 {{num .Width}} {{num .Height}}" width="{{num .Width}}" height="{{num .Height}}" data-zoom="{{num .Camera.Zoom}}" data-center="{{num .Camera.Center.Lon}},{{num .Camera.Center.Lat}}">
<style>
.geo{fill:{{css .Style.Default.Fill}};outline:{{css .Style.Default.Outline}}}
.geo:hover{fill:{{css .Style.Hover.Fill}};outline:{{css .Style.Hover.Outline}}}
.geo:active{fill:{{css .Style.Pressed.Fill}};outline:{{css .Style.Pressed.Outline}}}
</style>
<g class="zoomable" transform="{{.Transform.SVG}}">
{{- range .Features}}
<path class="geo" data-key="{{.Key}}" d="{{.D}}"><title>{{.Name}}</title></path>
{{- end}}
{{- with .Marker}}
<g class="marker" transform="translate({{num .X}} {{num .Y}})">
<g transform="translate(0 {{num $.MarkerOffset}})">
<circle r="{{$.CoreRadius}}" fill="{{$.CoreFill}}" opacity="{{$.CoreOpacity}}"></circle>
<circle r="{{$.HaloRadius}}" fill="{{$.HaloFill}}"></circle>
</g>
</g>
{{- end}}
</g>
</svg>
`))

type svgData struct {
	Scene
	MarkerOffset float64
	CoreRadius   int
	CoreFill     string
	CoreOpacity  float64
	HaloRadius   int
	HaloFill     string
}

// WriteSVG draws the scene as a standalone SVG document.
func (s Scene) WriteSVG(w io.Writer) error {
	err := svgTemplate.Execute(w, svgData{
		Scene:        s,
		MarkerOffset: MarkerOffset,
		CoreRadius:   MarkerCoreRadius,
		CoreFill:     MarkerCoreFill,
		CoreOpacity:  MarkerCoreOpacity,
		HaloRadius:   MarkerHaloRadius,
		HaloFill:     MarkerHaloFill,
	})
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}
