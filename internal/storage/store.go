package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/sim"
)

var ErrInvalidRunName = errors.New("storage: run name must be a plain directory name")

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Name       string
	Integrator string
	Field      string
	Dt         float64
	Steps      int
	Params     nbody.Params
}

type RunMetadata struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Timestamp   time.Time        `json:"timestamp"`
	Integrator  string           `json:"integrator"`
	Field       string           `json:"field"`
	Dt          float64          `json:"dt"`
	Steps       int              `json:"steps"`
	StepsTaken  int              `json:"steps_taken"`
	G           float64          `json:"g"`
	Softening   float64          `json:"softening"`
	Masses      []float64        `json:"masses"`
	EnergyDrift Float            `json:"energy_drift"`
	Metrics     map[string]Float `json:"metrics"`
	Errors      []string         `json:"errors,omitempty"`
}

func (m *RunMetadata) Params() nbody.Params {
	return nbody.Params{G: m.G, Softening: m.Softening}
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	name, err := runName(info.Name)
	if err != nil {
		return "", err
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.New().String()[:8])

	if err := s.Init(); err != nil {
		return "", err
	}
	// Files are written into a hidden temp dir and renamed into place, so a
	// failed save never leaves a half-written run for List to trip over.
	tmpDir, err := os.MkdirTemp(s.baseDir, "."+runID+"-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	var masses []float64
	if len(result.States) > 0 {
		masses = result.States[0].Masses()
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        info.Name,
		Timestamp:   time.Now(),
		Integrator:  info.Integrator,
		Field:       info.Field,
		Dt:          info.Dt,
		Steps:       info.Steps,
		StepsTaken:  result.StepsTaken,
		G:           info.Params.G,
		Softening:   info.Params.Softening,
		Masses:      masses,
		EnergyDrift: Float(result.EnergyDrift),
		Metrics:     floatMap(result.Metrics),
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(tmpDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(tmpDir, statesFile), result); err != nil {
		return "", err
	}

	if err := os.Chmod(tmpDir, 0755); err != nil {
		return "", err
	}
	if err := os.Rename(tmpDir, filepath.Join(s.baseDir, runID)); err != nil {
		return "", err
	}

	return runID, nil
}

// runName checks that a run name is usable as a single directory name.
func runName(name string) (string, error) {
	if name == "" {
		return "run", nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunName, name)
	}
	return name, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.States) > 0 {
		header := []string{"time"}
		for i := range result.States[0] {
			header = append(header,
				fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
				fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for i, state := range result.States {
			row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
			for _, val := range state.Flatten() {
				row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates returns the raw rows of states.csv: one flattened
// [x, y, vx, vy]×N slice per sample plus the sample times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse time %q: %w", record[0], err)
		}

		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parse value %q at t=%g: %w", field, t, err)
			}
			state = append(state, val)
		}

		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}

// LoadSystems rebuilds body lists from a stored run using its recorded
// masses.
func (s *Store) LoadSystems(runID string) ([]nbody.System, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	rows, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}

	n := len(meta.Masses)
	systems := make([]nbody.System, len(rows))
	for i, row := range rows {
		if len(row) != 4*n {
			return nil, nil, fmt.Errorf("run %s: sample %d has %d values, want %d", runID, i, len(row), 4*n)
		}
		sys := make(nbody.System, n)
		for j := 0; j < n; j++ {
			sys[j] = nbody.Body{
				Mass: meta.Masses[j],
				Pos:  nbody.Vec2{X: row[4*j], Y: row[4*j+1]},
				Vel:  nbody.Vec2{X: row[4*j+2], Y: row[4*j+3]},
			}
		}
		systems[i] = sys
	}

	return systems, times, nil
}
