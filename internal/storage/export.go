package storage

import (
	"encoding/json"
	"io"
)

type BodyTrack struct {
	Mass float64    `json:"mass"`
	Pos  [][2]Float `json:"pos"`
	Vel  [][2]Float `json:"vel"`
}

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Times  []Float     `json:"times"`
	Bodies []BodyTrack `json:"bodies"`
}

// Export gathers a stored run into per-body trajectories.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	systems, times, err := s.LoadSystems(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Meta:   *meta,
		Times:  make([]Float, len(times)),
		Bodies: make([]BodyTrack, len(meta.Masses)),
	}
	for j, m := range meta.Masses {
		data.Bodies[j] = BodyTrack{
			Mass: m,
			Pos:  make([][2]Float, len(systems)),
			Vel:  make([][2]Float, len(systems)),
		}
	}
	for i, t := range times {
		data.Times[i] = Float(t)
	}
	for i, sys := range systems {
		for j, b := range sys {
			data.Bodies[j].Pos[i] = [2]Float{Float(b.Pos.X), Float(b.Pos.Y)}
			data.Bodies[j].Vel[i] = [2]Float{Float(b.Vel.X), Float(b.Vel.Y)}
		}
	}

	return data, nil
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
