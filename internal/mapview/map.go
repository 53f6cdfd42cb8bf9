// Package mapview builds an embeddable Leaflet map fragment from marker
// coordinates and popup HTML.
package mapview

import (
	"bytes"
	"fmt"
	"html/template"
	"sync/atomic"
)

const (
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultIconSize    = 50
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is a single point on the map. Tooltip is plain text; Popup is
// trusted HTML.
type Marker struct {
	Location
	Tooltip  string        `json:"tooltip"`
	IconURL  string        `json:"icon_url"`
	IconSize int           `json:"icon_size"`
	Popup    template.HTML `json:"popup"`
}

type Map struct {
	id          string
	center      Location
	zoom        int
	tileURL     string
	attribution string
	markers     []Marker
}

var mapSeq atomic.Uint64

func New(center Location, zoom int) *Map {
	return &Map{
		id:          fmt.Sprintf("pokemon-map-%d", mapSeq.Add(1)),
		center:      center,
		zoom:        zoom,
		tileURL:     DefaultTileURL,
		attribution: DefaultAttribution,
	}
}

func (m *Map) ID() string { return m.id }

func (m *Map) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// AddMarker appends mk. The tooltip is HTML-escaped here because Leaflet
// renders tooltip strings as HTML.
func (m *Map) AddMarker(mk Marker) {
	if mk.IconSize <= 0 {
		mk.IconSize = DefaultIconSize
	}
	mk.Tooltip = template.HTMLEscapeString(mk.Tooltip)
	m.markers = append(m.markers, mk)
}

var fragment = template.Must(template.New("map").Parse(`<div id="{{.ID}}" class="pokemon-map" style="width:100%;height:100%;"></div>
<script>
(function () {
  var map = L.map({{.ID}}).setView([{{.Center.Lat}}, {{.Center.Lon}}], {{.Zoom}});
  L.tileLayer({{.TileURL}}, {attribution: {{.Attribution}}, maxZoom: 19}).addTo(map);
  var markers = {{.Markers}};
  markers.forEach(function (m) {
    var options = {};
    if (m.icon_url) {
      options.icon = L.icon({iconUrl: m.icon_url, iconSize: [m.icon_size, m.icon_size]});
    }
    var marker = L.marker([m.lat, m.lon], options).addTo(map);
    marker.bindTooltip(m.tooltip);
    marker.bindPopup(m.popup);
  });
})();
</script>`))

// HTML renders the map as a div plus an inline script. The page must load
// Leaflet's CSS and JS.
func (m *Map) HTML() (template.HTML, error) {
	markers := m.markers
	if markers == nil {
		markers = []Marker{}
	}

	data := struct {
		ID          string
		Center      Location
		Zoom        int
		TileURL     string
		Attribution string
		Markers     []Marker
	}{
		ID:          m.id,
		Center:      m.center,
		Zoom:        m.zoom,
		TileURL:     m.tileURL,
		Attribution: m.attribution,
		Markers:     markers,
	}

	var buf bytes.Buffer
	if err := fragment.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render map: %w", err)
	}
	return template.HTML(buf.String()), nil
}
