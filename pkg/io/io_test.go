package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
)

func TestRoundTrip(t *testing.T) {
	want := fractal.Reference()

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got != want {
		t.Errorf("round trip changed pattern:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadJSONValues(t *testing.T) {
	const record = `{
		"pixels": [
			[
				{"color": {"r": 0.2, "g": 0.4, "b": 0.6, "a": 1.0},
				 "perm": [[0,0],[0,1],[1,0],[1,1]]},
				{"color": {"r": 0, "g": 0, "b": 0, "a": 0.1},
				 "perm": [[0,1],[0,0],[1,1],[1,0]]}
			],
			[
				{"color": {"r": 0.6, "g": 0.4, "b": 0.2, "a": 1.0},
				 "perm": [[1,0],[0,0],[1,1],[0,1]]},
				{"color": {"r": 0, "g": 0, "b": 0, "a": 1.0},
				 "perm": [[0,1],[1,1],[0,0],[1,0]]}
			]
		]
	}`

	got, err := ReadJSON(strings.NewReader(record))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if want := fractal.Reference(); got != want {
		t.Errorf("decoded pattern:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadJSONShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		wantMsg string
	}{
		{
			name:    "not JSON",
			record:  "pixels:",
			wantMsg: "decode",
		},
		{
			name:    "one row",
			record:  `{"pixels": [[{"color": {}, "perm": [[0,0],[0,1],[1,0],[1,1]]}, {"color": {}, "perm": [[0,0],[0,1],[1,0],[1,1]]}]]}`,
			wantMsg: "want 2 rows",
		},
		{
			name:    "three entries in a row",
			record:  `{"pixels": [[{}, {}, {}], [{}, {}]]}`,
			wantMsg: "want 2 entries",
		},
		{
			name:    "perm too short",
			record:  `{"pixels": [[{"color": {}, "perm": [[0,0],[0,1],[1,0]]}, {}], [{}, {}]]}`,
			wantMsg: "want 4 coordinate pairs",
		},
		{
			name:    "perm pair with three values",
			record:  `{"pixels": [[{"color": {}, "perm": [[0,0,0],[0,1],[1,0],[1,1]]}, {}], [{}, {}]]}`,
			wantMsg: "want (row,col) pair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.record))
			if err == nil {
				t.Fatal("ReadJSON accepted a malformed record")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestMarshalStable(t *testing.T) {
	// Marshal is cache-key material: equal patterns must produce equal bytes.
	a, err := Marshal(fractal.Reference())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(fractal.Reference())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Marshal is not deterministic for equal patterns")
	}

	changed := fractal.Reference()
	changed[0][0].Color.R = 0.21
	c, err := Marshal(changed)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Error("Marshal ignored a color change")
	}
}

func TestImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.json")
	want := fractal.Reference()

	if err := ExportJSON(want, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got != want {
		t.Errorf("file round trip changed pattern")
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := ImportJSON(path)
	if err == nil {
		t.Fatal("ImportJSON succeeded on a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not carry os.ErrNotExist", err)
	}
	if got := apperrors.GetCode(err); got != apperrors.ErrCodeFileNotFound {
		t.Errorf("code = %s, want %s", got, apperrors.ErrCodeFileNotFound)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not mention the path", err)
	}
}

func TestImportJSONMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.json")
	if err := os.WriteFile(path, []byte(`{"pixels": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportJSON(path)
	if err == nil {
		t.Fatal("ImportJSON accepted a malformed file")
	}
	if got := apperrors.GetCode(err); got != apperrors.ErrCodeInvalidPatternFile {
		t.Errorf("code = %s, want %s", got, apperrors.ErrCodeInvalidPatternFile)
	}
}
