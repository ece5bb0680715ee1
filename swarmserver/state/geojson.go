package state

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	uuid "github.com/satori/go.uuid"
)

// GeoJSON renders agents as points and every undirected edge once as a line
// string.
func (s Snapshot) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	points := make(map[uuid.UUID]orb.Point, len(s.Agents))
	order := make(map[uuid.UUID]int, len(s.Agents))

	for i, agentstate := range s.Agents {
		point := agentstate.Position.ToOrbPoint()
		points[agentstate.Id] = point
		order[agentstate.Id] = i

		feature := geojson.NewFeature(point)
		feature.Properties["kind"] = "agent"
		feature.Properties["id"] = agentstate.Id.String()
		feature.Properties["elevation"] = agentstate.Position.Elevation
		feature.Properties["leader"] = agentstate.Leader
		feature.Properties["neighbors"] = len(agentstate.Neighbors)

		exported := make(map[string]interface{}, agentstate.Message.Len())
		for _, path := range agentstate.Message.Paths() {
			value, _ := agentstate.Message.Get(path)
			exported[string(path)] = value.String()
		}
		feature.Properties["message"] = exported

		fc.Append(feature)
	}

	for _, agentstate := range s.Agents {
		for _, neighbor := range agentstate.Neighbors {
			other, ok := points[neighbor]
			if !ok || order[neighbor] < order[agentstate.Id] {
				continue
			}

			feature := geojson.NewFeature(orb.LineString{points[agentstate.Id], other})
			feature.Properties["kind"] = "link"
			feature.Properties["from"] = agentstate.Id.String()
			feature.Properties["to"] = neighbor.String()

			fc.Append(feature)
		}
	}

	fc.ExtraMembers = geojson.Properties{
		"round": s.Round,
		"range": s.Range,
	}

	return fc
}

func (s Snapshot) MarshalGeoJSON() ([]byte, error) {
	return s.GeoJSON().MarshalJSON()
}
