// Package export converts a simulation log into GeoJSON trajectories for mapping
// tools. Coordinates are the planar x/y of each remote; altitude is dropped.
package export

import (
	"fmt"
	"io"

	"github.com/cxd309/remotesim/internal/engine"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

type track struct {
	remoteID string
	variant  string
	team     string
	done     bool
	points   []orb.Point
}

// Trajectories returns one feature per remote with a location. A remote that moved
// becomes a LineString of its per-tick positions; one that never moved a Point.
// Features follow declaration order.
func Trajectories(simLog engine.SimulationLog) *geojson.FeatureCollection {
	var (
		order  []string
		tracks = make(map[string]*track)
	)
	for _, row := range simLog.Output {
		for _, s := range row.RemoteStates {
			if s.Location == nil {
				continue
			}
			tr, ok := tracks[s.RemoteID]
			if !ok {
				tr = &track{remoteID: s.RemoteID, variant: s.Variant, team: s.Team}
				tracks[s.RemoteID] = tr
				order = append(order, s.RemoteID)
			}
			tr.done = s.Done
			tr.points = append(tr.points, orb.Point{s.Location.X(), s.Location.Y()})
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, id := range order {
		tr := tracks[id]
		var f *geojson.Feature
		if stationary(tr.points) {
			f = geojson.NewFeature(tr.points[0])
		} else {
			f = geojson.NewFeature(orb.LineString(tr.points))
		}
		f.Properties["remote_id"] = tr.remoteID
		f.Properties["variant"] = tr.variant
		if tr.team != "" {
			f.Properties["team"] = tr.team
		}
		f.Properties["done"] = tr.done
		f.Properties["ticks"] = len(tr.points)
		f.Properties["distance"] = planar.Length(f.Geometry)
		fc.Append(f)
	}
	return fc
}

func stationary(points []orb.Point) bool {
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}

// WriteGeoJSON writes the trajectories of simLog to w as a FeatureCollection.
func WriteGeoJSON(w io.Writer, simLog engine.SimulationLog) error {
	b, err := Trajectories(simLog).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}
