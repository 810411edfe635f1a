// Package storage persists completed runs: one directory per run with a
// metadata document and the full trace as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/model"
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

type RunMetadata struct {
	ID         string             `json:"id"`
	ParamSet   string             `json:"param_set"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and trace.csv for a completed run and
// returns the run id.
func (s *Store) Save(paramSet, integrator string, cfg cell.Config, result *cell.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", paramSet, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		ParamSet:   paramSet,
		Integrator: integrator,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, model.VarNames...)
	header = append(header, "istim")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 17, 64))
		}
		iStim := 0.0
		if i < len(result.Stim) {
			iStim = result.Stim[i]
		}
		row = append(row, strconv.FormatFloat(iStim, 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue // skip incomplete run directories
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

// LoadTrace reads a stored trace back as times and states. The stimulus
// column is dropped.
func (s *Store) LoadTrace(runID string) ([]float64, []cell.State, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("trace for %s is empty", runID)
	}

	var times []float64
	var states []cell.State
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		tk, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		state := make(cell.State, 0, len(rec)-2)
		for _, field := range rec[1 : len(rec)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, err
			}
			state = append(state, v)
		}
		times = append(times, tk)
		states = append(states, state)
	}
	return times, states, nil
}

// ExportData is the JSON export document for one run.
type ExportData struct {
	ID         string             `json:"id"`
	ParamSet   string             `json:"param_set"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID string, out *os.File) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, states, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:         meta.ID,
		ParamSet:   meta.ParamSet,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Samples:    len(times),
		Times:      times,
		States:     make([][]float64, len(states)),
		Metrics:    meta.Metrics,
	}
	for i, st := range states {
		data.States[i] = st
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
