package svg

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stagescape/radial/internal/adapters/catalog"
	"github.com/stagescape/radial/internal/domain/chart"
	"github.com/stagescape/radial/internal/domain/curve"
	"github.com/stagescape/radial/internal/domain/interp"
	"github.com/stagescape/radial/internal/domain/layout"
	"github.com/stagescape/radial/internal/domain/playback"
	"github.com/stagescape/radial/internal/domain/sector"
	"github.com/stagescape/radial/pkg/metrics"
)

// Default renderer configuration constants.
const (
	defaultCanvasSize = 420.0
	defaultRadius     = 160.0
	defaultGhostTrail = 3

	outlineWidth      = 2.0
	spokeOpacity      = 0.25
	ghostBaseOpacity  = 0.35
	labelFontSize     = 12.0
	labelLineHeight   = 13.0
	labelHaloWidth    = 3.0
	areaPanelGap      = 24.0
	areaTierOpacity   = 0.28
	areaStrokeOpacity = 0.8
)

// Renderer turns engine geometry into standalone SVG documents. It is
// stateless across renders: every call derives fresh points, sectors
// and paths, and assigns gradient IDs under a namespace unique to that
// call so documents from different renders never collide when inlined
// into the same page.
type Renderer struct {
	store   catalog.Store
	builder *sector.Builder

	canvas  float64
	radius  float64
	tension float64
	ghost   int
	slices  int
}

// NewRenderer creates a renderer over the catalog's instrument.
func NewRenderer(store catalog.Store, opts ...Option) *Renderer {
	r := &Renderer{
		store:   store,
		canvas:  defaultCanvasSize,
		radius:  defaultRadius,
		tension: curve.DefaultTension,
		ghost:   defaultGhostTrail,
		slices:  0, // 0 keeps the sector package default
	}
	for _, opt := range opts {
		opt(r)
	}
	var sopts []sector.Option
	if r.slices > 0 {
		sopts = append(sopts, sector.WithBoundarySlices(r.slices))
	}
	r.builder = sector.NewBuilder(store.Colors(), sopts...)
	return r
}

// center returns the shared polygon center.
func (r *Renderer) center() layout.Point {
	return layout.Point{X: r.canvas / 2, Y: r.canvas / 2}
}

// Radar renders one score vector as a full radar chart: gradient
// sectors, polygon outline, axis spokes and two-line labels.
func (r *Renderer) Radar(title string, vec chart.ScoreVector) (string, error) {
	start := time.Now()
	axes := r.store.Axes()
	center := r.center()

	pts, err := layout.ProjectVector(center, r.radius, axes, vec, r.store.Range(), true)
	if err != nil {
		return "", fmt.Errorf("project %q: %w", title, err)
	}
	sectors, err := r.builder.Build(center, pts, axes)
	if err != nil {
		return "", fmt.Errorf("sectors for %q: %w", title, err)
	}

	var b strings.Builder
	r.openDocument(&b)
	ns := renderNamespace()
	r.writeGradientDefs(&b, ns, sectors)
	r.writeSpokes(&b, axes)
	r.writeSectors(&b, ns, sectors)
	r.writeOutline(&b, pts)
	r.writeLabels(&b, axes)
	r.writeTitle(&b, title)
	b.WriteString("</svg>\n")

	metrics.RecordRender("radar")
	metrics.RecordRenderDuration("radar", float64(time.Since(start).Milliseconds()))
	metrics.RecordSectorsBuilt(len(sectors))
	return b.String(), nil
}

// TimelapseFrame renders the series at one playback position: the
// current interpolated polygon over a ghost trail of the preceding
// snapshots at decaying opacity.
func (r *Renderer) TimelapseFrame(series chart.Series, f playback.Frame) (string, error) {
	start := time.Now()
	n := len(series.Snapshots)
	if n == 0 {
		return "", fmt.Errorf("timelapse %q: %w", series.Subject, ErrEmptySeries)
	}
	axes := r.store.Axes()
	center := r.center()

	cur := series.Snapshots[f.Index%n]
	next := series.Snapshots[(f.Index+1)%n]
	vec, err := interp.Interpolate(cur.Scores, next.Scores, f.Fraction)
	if err != nil {
		return "", fmt.Errorf("timelapse %q: %w", series.Subject, err)
	}
	pts, err := layout.ProjectVector(center, r.radius, axes, vec, r.store.Range(), true)
	if err != nil {
		return "", fmt.Errorf("timelapse %q: %w", series.Subject, err)
	}
	sectors, err := r.builder.Build(center, pts, axes)
	if err != nil {
		return "", fmt.Errorf("timelapse %q: %w", series.Subject, err)
	}

	var b strings.Builder
	r.openDocument(&b)
	ns := renderNamespace()
	r.writeGradientDefs(&b, ns, sectors)
	r.writeSpokes(&b, axes)

	// Ghost trail: preceding snapshots as faded outlines, oldest first.
	for k := r.ghost; k >= 1; k-- {
		idx := f.Index - k
		if idx < 0 {
			idx += n * ((k / n) + 1)
		}
		ghostPts, perr := layout.ProjectVector(center, r.radius, axes, series.Snapshots[idx%n].Scores, r.store.Range(), true)
		if perr != nil {
			return "", fmt.Errorf("timelapse %q ghost %d: %w", series.Subject, k, perr)
		}
		opacity := ghostBaseOpacity * float64(r.ghost-k+1) / float64(r.ghost+1)
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="#555" stroke-opacity="%s"/>`+"\n",
			polygonPoints(ghostPts), num(opacity))
	}

	r.writeSectors(&b, ns, sectors)
	r.writeOutline(&b, pts)
	r.writeLabels(&b, axes)
	r.writeTitle(&b, fmt.Sprintf("%s — %s", series.Subject, cur.TimeLabel))
	b.WriteString("</svg>\n")

	metrics.RecordRender("timelapse")
	metrics.RecordRenderDuration("timelapse", float64(time.Since(start).Milliseconds()))
	metrics.RecordSectorsBuilt(len(sectors))
	return b.String(), nil
}

// AreaTriptych renders one panel per group: each axis of the group as a
// smooth filled area over the series' years, opacity-tiered so the
// three axes of a group stay distinguishable.
func (r *Renderer) AreaTriptych(series chart.Series) (string, error) {
	start := time.Now()
	n := len(series.Snapshots)
	if n == 0 {
		return "", fmt.Errorf("areas %q: %w", series.Subject, ErrEmptySeries)
	}
	axes := r.store.Axes()
	groups := groupOrder(axes)
	colors := r.store.Colors()
	rng := r.store.Range()

	panelW := (r.canvas*2 - areaPanelGap*float64(len(groups)-1)) / float64(len(groups))
	panelH := r.canvas / 2
	baseline := panelH - labelLineHeight*2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(r.canvas*2), num(panelH), num(r.canvas*2), num(panelH))

	for gi, g := range groups {
		x0 := float64(gi) * (panelW + areaPanelGap)
		color := colors[g].Hex()
		tier := 0
		for _, ax := range axes {
			if ax.Group != g {
				continue
			}
			pts := seriesPoints(series, ax.Key, rng, x0, panelW, baseline)
			if len(pts) < 2 {
				tier++
				continue
			}
			area := curve.FitArea(pts, r.tension, baseline)
			line := curve.Fit(pts, r.tension)
			opacity := areaTierOpacity * float64(tier+1)
			fmt.Fprintf(&b, `<path d="%s" fill="%s" fill-opacity="%s"/>`+"\n", pathData(area), color, num(opacity))
			fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-opacity="%s"/>`+"\n", pathData(line), color, num(areaStrokeOpacity))
			tier++
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="%s" font-family="sans-serif" fill="#333">%s</text>`+"\n",
			num(x0), num(panelH-2), num(labelFontSize), escape(string(g)))
	}
	b.WriteString("</svg>\n")

	metrics.RecordRender("areas")
	metrics.RecordRenderDuration("areas", float64(time.Since(start).Milliseconds()))
	return b.String(), nil
}

// seriesPoints maps one axis' score history onto panel coordinates.
// Snapshots with an absent score are omitted, which shortens the curve
// instead of faking a value.
func seriesPoints(series chart.Series, key string, rng chart.Range, x0, width, baseline float64) []layout.Point {
	n := len(series.Snapshots)
	pts := make([]layout.Point, 0, n)
	for i, snap := range series.Snapshots {
		s := snap.Scores[key]
		if !s.Valid {
			continue
		}
		x := x0
		if n > 1 {
			x += width * float64(i) / float64(n-1)
		}
		pts = append(pts, layout.Point{X: x, Y: baseline * (1 - rng.Normalize(s.Value))})
	}
	return pts
}

// groupOrder returns groups in first-appearance order over the axes.
func groupOrder(axes []chart.Axis) []chart.Group {
	var out []chart.Group
	seen := make(map[chart.Group]bool)
	for _, ax := range axes {
		if !seen[ax.Group] {
			seen[ax.Group] = true
			out = append(out, ax.Group)
		}
	}
	return out
}

// renderNamespace returns a short ID namespace unique to one render
// call, so gradient IDs from separate charts inlined into one page
// never collide.
func renderNamespace() string {
	return uuid.NewString()[:8]
}

func (r *Renderer) openDocument(b *strings.Builder) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(r.canvas), num(r.canvas), num(r.canvas), num(r.canvas))
}

// writeGradientDefs emits one radial gradient per sector, anchored at
// the shared center, near-transparent at the center and opaque at the
// rim so sectors taper instead of reading as a flat disc.
func (r *Renderer) writeGradientDefs(b *strings.Builder, ns string, sectors []sector.Sector) {
	b.WriteString("<defs>\n")
	for i, s := range sectors {
		fmt.Fprintf(b, `<radialGradient id="g%s-%d" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s">`,
			ns, i, num(s.Center.X), num(s.Center.Y), num(r.radius))
		fmt.Fprintf(b, `<stop offset="0%%" stop-color="%s" stop-opacity="%s"/>`, s.Fill.Hex(), num(s.InnerOpacity))
		fmt.Fprintf(b, `<stop offset="100%%" stop-color="%s" stop-opacity="%s"/>`, s.Fill.Hex(), num(s.OuterOpacity))
		b.WriteString("</radialGradient>\n")
	}
	b.WriteString("</defs>\n")
}

// writeSectors emits the sector triangles back-to-front.
func (r *Renderer) writeSectors(b *strings.Builder, ns string, sectors []sector.Sector) {
	for i, s := range sectors {
		fmt.Fprintf(b, `<polygon points="%s %s %s" fill="url(#g%s-%d)"/>`+"\n",
			pair(s.Center), pair(s.OuterA), pair(s.OuterB), ns, i)
	}
}

func (r *Renderer) writeOutline(b *strings.Builder, pts []layout.Point) {
	fmt.Fprintf(b, `<polygon points="%s" fill="none" stroke="#333" stroke-width="%s" stroke-linejoin="round"/>`+"\n",
		polygonPoints(pts), num(outlineWidth))
}

// writeSpokes draws one faint ray per axis out to the full radius.
func (r *Renderer) writeSpokes(b *strings.Builder, axes []chart.Axis) {
	center := r.center()
	rng := r.store.Range()
	for i := range axes {
		tip := layout.PointFor(center, r.radius, i, len(axes), rng.Max, rng)
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#999" stroke-opacity="%s"/>`+"\n",
			num(center.X), num(center.Y), num(tip.X), num(tip.Y), num(spokeOpacity))
	}
}

// writeLabels places each axis label just beyond the rim, split on
// '\n' into stacked tspans, with a white halo stroke for legibility
// over colored fills.
func (r *Renderer) writeLabels(b *strings.Builder, axes []chart.Axis) {
	center := r.center()
	rng := r.store.Range()
	for i, ax := range axes {
		pos := layout.PointFor(center, r.radius+labelLineHeight*1.6, i, len(axes), rng.Max, rng)
		lines := strings.Split(ax.Label, "\n")
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="%s" font-family="sans-serif" text-anchor="middle" fill="#222" stroke="#fff" stroke-width="%s" paint-order="stroke">`,
			num(pos.X), num(pos.Y), num(labelFontSize), num(labelHaloWidth))
		for li, line := range lines {
			dy := 0.0
			if li > 0 {
				dy = labelLineHeight
			}
			fmt.Fprintf(b, `<tspan x="%s" dy="%s">%s</tspan>`, num(pos.X), num(dy), escape(line))
		}
		b.WriteString("</text>\n")
	}
}

func (r *Renderer) writeTitle(b *strings.Builder, title string) {
	fmt.Fprintf(b, `<text x="%s" y="%s" font-size="%s" font-family="sans-serif" text-anchor="middle" fill="#111">%s</text>`+"\n",
		num(r.canvas/2), num(labelLineHeight*1.2), num(labelFontSize+2), escape(title))
}

// pathData serializes a fitted path to an SVG "d" attribute.
func pathData(p curve.Path) string {
	var b strings.Builder
	for _, s := range p.Segments {
		switch s.Op {
		case curve.OpMoveTo:
			fmt.Fprintf(&b, "M %s %s ", num(s.P1.X), num(s.P1.Y))
		case curve.OpLineTo:
			fmt.Fprintf(&b, "L %s %s ", num(s.P1.X), num(s.P1.Y))
		case curve.OpCubicTo:
			fmt.Fprintf(&b, "C %s %s %s %s %s %s ", num(s.P1.X), num(s.P1.Y), num(s.P2.X), num(s.P2.Y), num(s.P3.X), num(s.P3.Y))
		case curve.OpClose:
			b.WriteString("Z ")
		}
	}
	return strings.TrimSpace(b.String())
}

func polygonPoints(pts []layout.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = pair(p)
	}
	return strings.Join(parts, " ")
}

func pair(p layout.Point) string {
	return num(p.X) + "," + num(p.Y)
}

// num formats a coordinate with two decimals, trimming trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// escape covers the characters meaningful in SVG text content.
func escape(s string) string {
	rep := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return rep.Replace(s)
}
