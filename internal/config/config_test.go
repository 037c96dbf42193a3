package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	plan := Default()

	assert.Equal(t, "src/ffui_core/engine.rs", plan.Source)
	assert.Equal(t, "src/ffui_core/engine/mod.rs", plan.ManifestPath)
	assert.Equal(t, ".rs", plan.ModuleExtension)
	require.NotNil(t, plan.Probe)
	assert.Equal(t, "fn spawn_worker", plan.Probe.StartMarker)
	assert.Empty(t, plan.Sections)
	assert.NoError(t, plan.Validate())
}

func TestLoad_FullPlan(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	planYAML := `source: engine.rs
out_dir: engine
manifest_path: engine/mod.rs
header:
  comment_token: "//"
  import_token: "use "
sections:
  - name: state
    start_marker: "struct Inner"
  - name: worker
    start_marker: "fn spawn_worker"
manifest:
  doc: Engine split.
  submodules:
    - name: state
      summary: State
    - name: worker
      summary: Worker
  facade:
    type_name: Engine
    state_field: inner
    state_type: Arc<Inner>
    operations:
      - name: cancel_job
        params:
          - name: job_id
            type: "&str"
        returns: bool
        target: worker
`
	require.NoError(t, os.WriteFile(planPath, []byte(planYAML), 0644))

	plan, err := Load(planPath)
	require.NoError(t, err)

	assert.Equal(t, "engine.rs", plan.Source)
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, "state", plan.Sections[0].Name)
	assert.Equal(t, ".rs", plan.ModuleExtension) // defaulted
	require.NotNil(t, plan.Manifest)
	assert.Equal(t, "Engine", plan.Manifest.Facade.TypeName)
	assert.NoError(t, plan.Validate())
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("source: a\nmanifest_pth: typo\n"), 0644))

	_, err := Load(planPath)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSource, "/tmp/mono.rs")
	t.Setenv(EnvManifestPath, "/tmp/out/mod.rs")
	t.Setenv(EnvDBPath, "/tmp/ledger.db")

	plan := Default()
	plan.ApplyEnv()

	assert.Equal(t, "/tmp/mono.rs", plan.Source)
	assert.Equal(t, "/tmp/out/mod.rs", plan.ManifestPath)
	assert.Equal(t, "/tmp/ledger.db", plan.DBPath)
}

func TestLoadFromEnv_PlanFile(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("source: mono.rs\nmanifest_path: out/mod.rs\n"), 0644))
	t.Setenv(EnvPlanPath, planPath)

	plan, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mono.rs", plan.Source)
	// Built-in manifest spec fills in when the plan omits one.
	require.NotNil(t, plan.Manifest)
	assert.Equal(t, "TranscodingEngine", plan.Manifest.Facade.TypeName)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Plan)
		want   string
	}{
		{"missing source", func(p *Plan) { p.Source = "" }, "source path"},
		{"missing manifest path", func(p *Plan) { p.ManifestPath = "" }, "manifest path"},
		{"sections without out_dir", func(p *Plan) {
			p.Sections = append(p.Sections, *p.Probe)
			p.OutDir = ""
		}, "out_dir"},
		{"invalid probe", func(p *Plan) { p.Probe.StartMarker = "" }, "probe"},
		{"invalid manifest spec", func(p *Plan) { p.Manifest.Submodules = nil }, "no submodules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Default()
			tt.mutate(plan)
			err := plan.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPlanInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
