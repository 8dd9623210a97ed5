package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"longview/internal/dataset"
)

// sliceFields is the column count of a slice description row:
// height,width,lower%,lowerHex,dividerHex,upperHex,saturation%,brightness%.
const sliceFields = 8

// LoadSliceSpecs reads slice descriptions from r. Percent columns are
// divided by 100.
func LoadSliceSpecs(r io.Reader, source string) ([]SliceSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var specs []SliceSpec
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		line, _ := reader.FieldPos(0)
		spec, err := parseSliceRecord(record)
		if err != nil {
			return nil, &dataset.RecordError{Source: source, Line: line, Reason: err.Error()}
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, &dataset.RecordError{Source: source, Reason: "no slices"}
	}
	return specs, nil
}

func parseSliceRecord(record []string) (SliceSpec, error) {
	if len(record) < sliceFields {
		return SliceSpec{}, fmt.Errorf("want %d fields, got %d", sliceFields, len(record))
	}
	var nums [5]float64
	for i, col := range []int{0, 1, 2, 6, 7} {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return SliceSpec{}, fmt.Errorf("field %d: %w", col+1, err)
		}
		nums[i] = v
	}
	var colors [3]color.RGBA
	for i, col := range []int{3, 4, 5} {
		c, err := ParseHex(record[col])
		if err != nil {
			return SliceSpec{}, err
		}
		colors[i] = c
	}
	return SliceSpec{
		Height:     int(nums[0]),
		Width:      int(nums[1]),
		LowerSize:  nums[2] / 100,
		Lower:      colors[0],
		Divider:    colors[1],
		Upper:      colors[2],
		Saturation: nums[3] / 100,
		Brightness: nums[4] / 100,
	}, nil
}

// SliceBounds is the summed width and tallest height of specs.
func SliceBounds(specs []SliceSpec) (width, height int) {
	for _, spec := range specs {
		width += spec.Width
		height = max(height, spec.Height)
	}
	return width, height
}

// SliceOutputName is the PNG path used when none is given: the input path
// with its extension replaced.
func SliceOutputName(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".png"
}

// RenderSliceFile draws the slices described in csvPath into pngPath.
func RenderSliceFile(csvPath, pngPath string) (width, height int, err error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open slice file: %w", err)
	}
	defer f.Close()

	specs, err := LoadSliceSpecs(f, csvPath)
	if err != nil {
		return 0, 0, err
	}
	width, height = SliceBounds(specs)
	img := NewSlicedImage(width, height, DefaultDiamond)
	for _, spec := range specs {
		img.AddSlice(spec)
	}
	if pngPath == "" {
		pngPath = SliceOutputName(csvPath)
	}
	return width, height, img.WritePNG(pngPath)
}
