package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference(t *testing.T) {
	ref := Reference()

	assert.Equal(t, uuid.Nil, ref.ID)
	assert.Equal(t, "Reference 0.4mm FDM Printer", ref.Name)
	assert.True(t, ref.IsReference())
	assert.Equal(t, 0.4, ref.NozzleDiameter)
	assert.Equal(t, 2, ref.WallCount)
	assert.Equal(t, 0.85, ref.CalibrationFactor)
	assert.False(t, ref.SupportsEnabled)
	require.NoError(t, ref.Validate())
}

func TestDerive(t *testing.T) {
	p := Derive("Fast draft")
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "Fast draft", p.Name)
	assert.Equal(t, Reference().LayerHeight, p.LayerHeight)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PrinterProfile)
		wantErr string
	}{
		{"valid", func(p *PrinterProfile) {}, ""},
		{"missing name", func(p *PrinterProfile) { p.Name = "" }, "name must be specified"},
		{"negative walls", func(p *PrinterProfile) { p.WallCount = -1 }, "wall_count"},
		{"infill above one", func(p *PrinterProfile) { p.InfillDensity = 20 }, "infill_density"},
		{"negative layer", func(p *PrinterProfile) { p.LayerHeight = -0.1 }, "layer heights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Derive("test")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistrySeededWithReference(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, Reference(), r.Default())
	p, ok := r.Get(uuid.Nil)
	require.True(t, ok)
	assert.Equal(t, ReferenceName, p.Name)
	assert.Len(t, r.All(), 1)
	assert.Empty(t, r.Custom())
}

func TestRegistryAddAndDuplicate(t *testing.T) {
	r := NewRegistry()
	p := Derive("Voron")

	require.NoError(t, r.Add(p))
	err := r.Add(p)
	assert.ErrorIs(t, err, ErrProfileExists)

	assert.ErrorIs(t, r.Add(Reference()), ErrProfileExists)
}

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry()
	p := Derive("Voron")
	require.NoError(t, r.Add(p))

	p.LayerHeight = 0.12
	require.NoError(t, r.Update(p))
	got, ok := r.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, 0.12, got.LayerHeight)

	assert.ErrorIs(t, r.Update(Derive("unknown")), ErrProfileNotFound)
	assert.ErrorIs(t, r.Update(Reference()), ErrReferenceProfile)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	p := Derive("Voron")
	require.NoError(t, r.Add(p))

	removed, err := r.Remove(p.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.Remove(p.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = r.Remove(uuid.Nil)
	assert.ErrorIs(t, err, ErrReferenceProfile)
	assert.Equal(t, ReferenceName, r.Default().Name)
}

func TestRegistryResolveFallsBack(t *testing.T) {
	r := NewRegistry()
	p := Derive("Prusa")
	require.NoError(t, r.Add(p))

	assert.Equal(t, p, r.Resolve(p.ID))
	assert.Equal(t, Reference(), r.Resolve(uuid.Nil))
	assert.Equal(t, Reference(), r.Resolve(uuid.New()))
}

func TestRegistryAllOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(Derive("zeta")))
	require.NoError(t, r.Add(Derive("Alpha")))
	require.NoError(t, r.Add(Derive("beta")))

	var names []string
	for _, p := range r.All() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{ReferenceName, "Alpha", "beta", "zeta"}, names)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	p := Derive("Bambu X1")
	require.NoError(t, r.Add(p))

	got, err := r.Lookup("")
	require.NoError(t, err)
	assert.True(t, got.IsReference())

	got, err = r.Lookup("bambu x1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = r.Lookup(p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	_, err = r.Lookup(uuid.New().String())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", FileName)

	r := NewRegistry()
	p := Derive("Voron")
	p.SupportsEnabled = true
	p.SupportDensity = 0.15
	require.NoError(t, r.Add(p))

	require.NoError(t, SaveRegistry(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), ReferenceName)
	assert.Contains(t, string(data), "supports_enabled: true")
	assert.Contains(t, string(data), p.ID.String())

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	got, ok := loaded.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Len(t, loaded.All(), 2)
}

func TestLoadMissingFile(t *testing.T) {
	profiles, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dup := uuid.New().String()
	tests := map[string]string{
		"broken yaml": "profiles: [",
		"reference id": `profiles:
  - id: 00000000-0000-0000-0000-000000000000
    name: sneaky
`,
		"duplicate id": `profiles:
  - id: ` + dup + `
    name: one
  - id: ` + dup + `
    name: two
`,
		"negative walls": `profiles:
  - id: ` + uuid.New().String() + `
    name: bad
    wall_count: -3
`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
