package tui

import (
	"trenchmap/internal/basemap"
	"trenchmap/internal/geom"
)

// mapCache keeps the basemap projected into visual micro coordinates. The
// basemap can hold many vertices, so it is only reprojected after the view
// changes. Rotation changes invalidate it through the transform listener;
// pan, zoom and resize go through invalidate directly.
type mapCache struct {
	valid  bool
	layer  *basemap.Layer
	paths  [][]geom.Vec
	points []geom.Vec
}

func (c *mapCache) invalidate() { c.valid = false }

func (c *mapCache) fill(l *basemap.Layer, visual func(geom.GeoPoint) geom.Vec) {
	if c.valid && c.layer == l {
		return
	}
	c.layer = l
	c.paths = c.paths[:0]
	c.points = c.points[:0]
	if l != nil {
		for _, p := range l.Paths {
			vs := make([]geom.Vec, len(p))
			for i, g := range p {
				vs[i] = visual(g)
			}
			c.paths = append(c.paths, vs)
		}
		for _, g := range l.Points {
			c.points = append(c.points, visual(g))
		}
	}
	c.valid = true
}

func (c *mapCache) basemapPaths(l *basemap.Layer, visual func(geom.GeoPoint) geom.Vec) [][]geom.Vec {
	c.fill(l, visual)
	return c.paths
}

func (c *mapCache) basemapPoints(l *basemap.Layer, visual func(geom.GeoPoint) geom.Vec) []geom.Vec {
	c.fill(l, visual)
	return c.points
}
