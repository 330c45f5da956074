// Package geo implements the 3D WGS84 geometry types used by storage
// entities (geo_location columns) and their WKT serialization for
// ST_GeomFromText(...) embedding by internal/sqlgen.
//
// All coordinates are longitude, latitude, altitude (x, y, z), SRID 4326,
// matching the PostGIS *Z family of well-known text shapes.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SRID is the coordinate reference system every geometry column in this
// service is declared against.
const SRID = 4326

// coordPrecision is the number of significant digits used when formatting
// a coordinate into WKT.
const coordPrecision = 15

// PointZ is a single longitude/latitude/altitude coordinate.
type PointZ struct {
	X float64 // longitude
	Y float64 // latitude
	Z float64 // altitude, meters
}

// LineStringZ is an ordered sequence of points.
type LineStringZ struct {
	Points []PointZ
}

// PolygonZ is a sequence of rings; the first ring is the exterior boundary.
type PolygonZ struct {
	Rings []LineStringZ
}

// ValidateLongitude reports whether x is a valid WGS84 longitude.
func ValidateLongitude(x float64) bool { return x >= -180 && x <= 180 }

// ValidateLatitude reports whether y is a valid WGS84 latitude.
func ValidateLatitude(y float64) bool { return y >= -90 && y <= 90 }

// formatCoord renders a coordinate at coordPrecision significant digits
// with Go's 'g' format, which trims trailing zeros; magnitudes below 1e-4
// (e.g. 0.00001) come out in exponent form ("1e-05").
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', coordPrecision, 64)
}

// pointBody renders "x y z" with no wrapping parens.
func pointBody(p PointZ) string {
	return fmt.Sprintf("%s %s %s", formatCoord(p.X), formatCoord(p.Y), formatCoord(p.Z))
}

// WKT renders a PointZ as POINTZ(x y z).
func (p PointZ) WKT() string {
	return fmt.Sprintf("POINTZ(%s)", pointBody(p))
}

// ringBody renders "(x1 y1 z1, x2 y2 z2, ...)".
func ringBody(l LineStringZ) string {
	parts := make([]string, len(l.Points))
	for i, p := range l.Points {
		parts[i] = pointBody(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// WKT renders a LineStringZ as LINESTRINGZ(x1 y1 z1, x2 y2 z2, ...).
func (l LineStringZ) WKT() string {
	parts := make([]string, len(l.Points))
	for i, p := range l.Points {
		parts[i] = pointBody(p)
	}
	return "LINESTRINGZ(" + strings.Join(parts, ", ") + ")"
}

// WKT renders a PolygonZ as POLYGONZ((ring1), (ring2), ...).
func (poly PolygonZ) WKT() string {
	parts := make([]string, len(poly.Rings))
	for i, r := range poly.Rings {
		parts[i] = ringBody(r)
	}
	return "POLYGONZ(" + strings.Join(parts, ", ") + ")"
}

// BBox is an axis-aligned 2D bounding box over longitude/latitude, ignoring
// altitude. It backs the in-memory search fallback's approximate spatial
// predicates (GeoIntersect/GeoWithin/GeoDisjoint), which have no spatial
// index to consult the way the PostGIS-backed path does.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyBBox() BBox {
	return BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (b BBox) extend(p PointZ) BBox {
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
	return b
}

// BBox returns the degenerate bounding box of a single point.
func (p PointZ) BBox() BBox {
	return BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// BBox returns the bounding box enclosing every point of the line.
func (l LineStringZ) BBox() BBox {
	b := emptyBBox()
	for _, p := range l.Points {
		b = b.extend(p)
	}
	return b
}

// BBox returns the bounding box enclosing every ring of the polygon.
func (poly PolygonZ) BBox() BBox {
	b := emptyBBox()
	for _, r := range poly.Rings {
		for _, p := range r.Points {
			b = b.extend(p)
		}
	}
	return b
}

// Intersects reports whether b and o overlap.
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX && b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Within reports whether b is fully enclosed by o.
func (b BBox) Within(o BBox) bool {
	return b.MinX >= o.MinX && b.MaxX <= o.MaxX && b.MinY >= o.MinY && b.MaxY <= o.MaxY
}

// Closed reports whether the ring's first and last points coincide.
func (l LineStringZ) Closed() bool {
	if len(l.Points) == 0 {
		return false
	}
	first, last := l.Points[0], l.Points[len(l.Points)-1]
	return first == last
}

// GeomFromText wraps a WKT literal in the ST_GeomFromText(...) call the SQL
// synthesizer inlines for geometry columns, at the service's fixed SRID.
func GeomFromText(wkt string) string {
	return fmt.Sprintf("ST_GeomFromText('%s', %d)", wkt, SRID)
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MarshalJSON renders a PointZ as {"x":...,"y":...,"z":...}, the wire
// shape entity payloads use for geometry columns.
func (p PointZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPoint{X: p.X, Y: p.Y, Z: p.Z})
}

// UnmarshalJSON parses the {"x","y","z"} wire shape.
func (p *PointZ) UnmarshalJSON(data []byte) error {
	var jp jsonPoint
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	p.X, p.Y, p.Z = jp.X, jp.Y, jp.Z
	return nil
}

type jsonLineString struct {
	Points []PointZ `json:"points"`
}

// MarshalJSON renders a LineStringZ as {"points":[{"x","y","z"}, ...]}.
func (l LineStringZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLineString{Points: l.Points})
}

// UnmarshalJSON parses the {"points":[...]} wire shape.
func (l *LineStringZ) UnmarshalJSON(data []byte) error {
	var jl jsonLineString
	if err := json.Unmarshal(data, &jl); err != nil {
		return err
	}
	l.Points = jl.Points
	return nil
}

type jsonPolygon struct {
	Rings []LineStringZ `json:"rings"`
}

// MarshalJSON renders a PolygonZ as {"rings":[{"points":[...]}]}.
func (poly PolygonZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPolygon{Rings: poly.Rings})
}

// UnmarshalJSON parses the {"rings":[...]} wire shape.
func (poly *PolygonZ) UnmarshalJSON(data []byte) error {
	var jp jsonPolygon
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	poly.Rings = jp.Rings
	return nil
}
