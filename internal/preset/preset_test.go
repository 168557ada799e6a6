package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

func sampleRecord() Record {
	base := param.Set{
		"u_morphFactor": param.Scalar(0.35),
		"u_gridDensity": param.Scalar(10),
		"u_baseColor":   param.Vec3(0.2, 0.9, 1),
		"u_wireframe":   param.Bool(true),
		"geometry":      param.Enum("torus"),
		"projection":    param.Enum("stereographic"),
	}
	return FromState("neon torus", "torus",
		geometry.SubParams{GridDensity: 10, Iterations: 2, Scale: 1.0},
		projection.Stereographic,
		map[string]float64{"sphereRadius": 1.25, "poleSign": -1},
		base,
	)
}

func TestRoundTripExact(t *testing.T) {
	r := sampleRecord()
	data, err := Encode(r)
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, r.Name, back.Name)
	assert.Equal(t, r.Geometry, back.Geometry)
	assert.Equal(t, r.GeometrySub, back.GeometrySub)
	assert.Equal(t, r.ProjectionSub, back.ProjectionSub)

	want, err := r.BaseSet()
	require.NoError(t, err)
	got, err := back.BaseSet()
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "base values must survive the trip bit-for-bit")
}

func TestValidateRejectsUnknownGeometry(t *testing.T) {
	r := sampleRecord()
	r.Geometry = "dodecaplex"
	err := r.Validate(param.DefaultSchema())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRejectsUnknownProjection(t *testing.T) {
	r := sampleRecord()
	r.Projection = "fisheye"
	assert.ErrorIs(t, r.Validate(param.DefaultSchema()), ErrInvalid)
}

func TestValidateRejectsUnknownOverride(t *testing.T) {
	r := sampleRecord()
	r.ProjectionSub = map[string]float64{"focalLength": 2}
	assert.ErrorIs(t, r.Validate(param.DefaultSchema()), ErrInvalid)
}

func TestValidateRejectsUnknownBaseKey(t *testing.T) {
	r := sampleRecord()
	r.Base["u_mystery"] = 1.0
	assert.ErrorIs(t, r.Validate(param.DefaultSchema()), ErrInvalid)
}

func TestValidateRejectsEmptyName(t *testing.T) {
	r := sampleRecord()
	r.Name = "  "
	assert.ErrorIs(t, r.Validate(param.DefaultSchema()), ErrInvalid)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"name":"x","geometry":"torus","projection":"perspective","base":{},"speed":3}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets", "neon-torus.json")
	schema := param.DefaultSchema()

	require.NoError(t, Save(path, sampleRecord(), schema))
	back, err := Load(path, schema)
	require.NoError(t, err)
	assert.Equal(t, "neon torus", back.Name)
}

func TestSaveRefusesInvalidRecord(t *testing.T) {
	r := sampleRecord()
	r.Geometry = "nope"
	err := Save(filepath.Join(t.TempDir(), "x.json"), r, param.DefaultSchema())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadDirSortedAndStrict(t *testing.T) {
	dir := t.TempDir()
	schema := param.DefaultSchema()

	b := sampleRecord()
	b.Name = "beta"
	a := sampleRecord()
	a.Name = "alpha"
	require.NoError(t, Save(filepath.Join(dir, "b.json"), b, schema))
	require.NoError(t, Save(filepath.Join(dir, "a.json"), a, schema))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	recs, err := LoadDir(dir, schema)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "alpha", recs[0].Name)
	assert.Equal(t, "beta", recs[1].Name)

	// one broken file fails the whole library
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), []byte("{"), 0o644))
	_, err = LoadDir(dir, schema)
	assert.Error(t, err)
}
