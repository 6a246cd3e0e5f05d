// Command roisignals extracts per-region timeseries from a 4D voxel image
// using a labeled atlas volume. Both inputs are raw little-endian float64
// files; the voxel grid is described by flags or a YAML config.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/psadil/nilearn/pkg/config"
	"github.com/psadil/nilearn/pkg/masking"
	"github.com/psadil/nilearn/pkg/roi"
	"github.com/psadil/nilearn/pkg/visualization"
	"github.com/psadil/nilearn/pkg/volume"
)

func main() {
	atlasPath := flag.String("atlas", "", "Labeled atlas volume (.bin, little-endian float64)")
	imgPath := flag.String("img", "", "4D voxel timeseries (.bin, one volume per timepoint)")
	configPath := flag.String("config", "roisignals.yaml", "YAML configuration file")
	shapeArg := flag.String("shape", "", "Voxel grid as X,Y,Z (overrides config)")
	timepoints := flag.Int("timepoints", 0, "Number of timepoints in -img (overrides config)")
	outPath := flag.String("out", "", "Output CSV for region signals (overrides config)")
	flag.Parse()

	if *atlasPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *shapeArg != "" {
		shape, err := parseShape(*shapeArg)
		if err != nil {
			log.Fatalf("Invalid -shape: %v", err)
		}
		cfg.Volume.X, cfg.Volume.Y, cfg.Volume.Z = shape.X, shape.Y, shape.Z
	}
	if *timepoints > 0 {
		cfg.Volume.Timepoints = *timepoints
	}
	if *outPath != "" {
		cfg.Output.SignalsCSV = *outPath
	}

	shape := volume.Shape{X: cfg.Volume.X, Y: cfg.Volume.Y, Z: cfg.Volume.Z}
	if !shape.Valid() {
		log.Fatalf("Voxel grid is not configured; pass -shape or set volume in %s", *configPath)
	}

	atlas, err := volume.LoadBinary(*atlasPath, shape)
	if err != nil {
		log.Fatalf("Failed to load atlas: %v", err)
	}

	var opts []roi.Option
	if cfg.Extraction.BackgroundLabel != nil {
		opts = append(opts, roi.WithBackground(*cfg.Extraction.BackgroundLabel))
	}
	masks, labels, err := roi.LabelsToList(atlas, opts...)
	if err != nil {
		log.Fatalf("Failed to split atlas into regions: %v", err)
	}
	if len(masks) == 0 {
		log.Fatalf("Atlas contains no regions")
	}
	weights, err := roi.ListToArray(masks)
	if err != nil {
		log.Fatalf("Failed to stack region masks: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Atlas %dx%dx%d: %d regions\n", shape.X, shape.Y, shape.Z, len(masks))
		for r, m := range masks {
			fmt.Printf("  region %g: %d voxels\n", labels[r], masking.Count(m))
		}
	}

	if cfg.Extraction.CheckOverlap {
		overlapping, err := roi.AreOverlapping(weights)
		if err != nil {
			log.Fatalf("Overlap check failed: %v", err)
		}
		if overlapping {
			log.Fatalf("Regions overlap; signal extraction would mix them")
		}
	}

	if cfg.Output.MasksDir != "" {
		if err := os.MkdirAll(cfg.Output.MasksDir, 0755); err != nil {
			log.Fatalf("Failed to create masks directory: %v", err)
		}
		for r, m := range masks {
			path := filepath.Join(cfg.Output.MasksDir, fmt.Sprintf("region_%g.bin", labels[r]))
			if err := volume.SaveBinary(path, m); err != nil {
				log.Fatalf("Failed to save mask for region %g: %v", labels[r], err)
			}
		}
	}

	if cfg.Output.SliceImagesDir != "" {
		viewer := visualization.NewViewer(atlas)
		if err := viewer.SaveSliceSequence("z", cfg.Output.SliceImagesDir); err != nil {
			log.Fatalf("Failed to save atlas slices: %v", err)
		}
	}

	if *imgPath == "" {
		return
	}
	if cfg.Volume.Timepoints <= 0 {
		log.Fatalf("Pass -timepoints (or set volume.timepoints) to read a 4D image")
	}

	ts, err := loadTimeseries(*imgPath, shape, cfg.Volume.Timepoints)
	if err != nil {
		log.Fatalf("Failed to load 4D image: %v", err)
	}

	signals, err := roi.ApplyROI(ts, weights.Matrix(), cfg.Extraction.NormalizeRegions)
	if err != nil {
		log.Fatalf("Signal extraction failed: %v", err)
	}

	if err := writeSignalsCSV(cfg.Output.SignalsCSV, signals, labels); err != nil {
		log.Fatalf("Failed to write signals: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Wrote %d timepoints x %d regions to %s\n",
			cfg.Volume.Timepoints, len(labels), cfg.Output.SignalsCSV)
		printSignalStats(signals, labels)
	}
}

// parseShape parses an "X,Y,Z" argument.
func parseShape(s string) (volume.Shape, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return volume.Shape{}, fmt.Errorf("want X,Y,Z, got %q", s)
	}
	dims := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return volume.Shape{}, fmt.Errorf("bad dimension %q", p)
		}
		dims[i] = n
	}
	return volume.Shape{X: dims[0], Y: dims[1], Z: dims[2]}, nil
}

// loadTimeseries reads nInstants consecutive volumes from a raw 4D file
// into a time-by-voxel matrix.
func loadTimeseries(path string, shape volume.Shape, nInstants int) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts := mat.NewDense(nInstants, shape.Size(), nil)
	for t := 0; t < nInstants; t++ {
		vol, err := volume.ReadBinary(f, shape)
		if err != nil {
			return nil, fmt.Errorf("timepoint %d: %w", t, err)
		}
		ts.SetRow(t, vol.Data)
	}
	return ts, nil
}

func writeSignalsCSV(path string, signals *mat.Dense, labels []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(labels)+1)
	header[0] = "t"
	for r, label := range labels {
		header[r+1] = "region_" + strconv.FormatFloat(label, 'g', -1, 64)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	nInstants, nRegions := signals.Dims()
	row := make([]string, nRegions+1)
	for t := 0; t < nInstants; t++ {
		row[0] = strconv.Itoa(t)
		for r := 0; r < nRegions; r++ {
			row[r+1] = strconv.FormatFloat(signals.At(t, r), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printSignalStats(signals *mat.Dense, labels []float64) {
	nInstants, nRegions := signals.Dims()
	col := make([]float64, nInstants)
	fmt.Println("Per-region signal summary:")
	for r := 0; r < nRegions; r++ {
		mat.Col(col, r, signals)
		fmt.Printf("  region %g: mean=%.4f sd=%.4f\n",
			labels[r], stat.Mean(col, nil), stat.StdDev(col, nil))
	}
}
