package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalSpec() *Spec {
	return &Spec{
		Doc: "Engine split into modular components.",
		Submodules: []Submodule{
			{Name: "state", Summary: "State management"},
			{Name: "worker", Summary: "Job scheduling"},
		},
		FoundationalImports: []string{"std::sync::{Arc, Mutex}"},
		SymbolImports:       []string{"crate::domain::Job"},
		Facade: Facade{
			TypeName:   "Engine",
			StateField: "inner",
			StateType:  "Arc<Inner>",
			Constructor: Constructor{
				InitState: "let inner = Arc::new(Inner::new());",
			},
			Operations: []Operation{
				{
					Name:    "cancel_job",
					Params:  []Param{{Name: "job_id", Type: "&str"}},
					Returns: "bool",
					Target:  "worker",
				},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, minimalSpec().Validate())
	assert.NoError(t, DefaultSpec().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		want   string
	}{
		{
			name:   "no submodules",
			mutate: func(s *Spec) { s.Submodules = nil },
			want:   "no submodules",
		},
		{
			name: "duplicate submodule",
			mutate: func(s *Spec) {
				s.Submodules = append(s.Submodules, Submodule{Name: "state"})
			},
			want: "declared twice",
		},
		{
			name: "delegation to undeclared submodule",
			mutate: func(s *Spec) {
				s.Facade.Operations[0].Target = "smart_scan"
			},
			want: "undeclared submodule",
		},
		{
			name: "re-export from undeclared submodule",
			mutate: func(s *Spec) {
				s.ReExports = []ReExport{{From: "ghost", Symbols: []string{"X"}}}
			},
			want: "undeclared submodule",
		},
		{
			name: "re-export without symbols",
			mutate: func(s *Spec) {
				s.ReExports = []ReExport{{From: "state"}}
			},
			want: "no symbols",
		},
		{
			name:   "missing facade type",
			mutate: func(s *Spec) { s.Facade.TypeName = "" },
			want:   "facade type name",
		},
		{
			name:   "missing state handle",
			mutate: func(s *Spec) { s.Facade.StateField = "" },
			want:   "state handle",
		},
		{
			name: "duplicate operation",
			mutate: func(s *Spec) {
				s.Facade.Operations = append(s.Facade.Operations, s.Facade.Operations[0])
			},
			want: "declared twice",
		},
		{
			name: "incomplete parameter",
			mutate: func(s *Spec) {
				s.Facade.Operations[0].Params = []Param{{Name: "x"}}
			},
			want: "incomplete parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := minimalSpec()
			tt.mutate(spec)
			err := spec.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSpecInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	spec := DefaultSpec()
	require.NoError(t, spec.Validate())

	first := Render(spec)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Render(DefaultSpec()))
	}
}

func TestRender_ModuleDeclarations(t *testing.T) {
	out := Render(DefaultSpec())

	for _, name := range []string{"state", "worker", "ffmpeg_args", "job_runner", "smart_scan"} {
		assert.Contains(t, out, "mod "+name+";")
	}
	assert.Contains(t, out, "#[cfg(test)]\nmod tests;")
	assert.Contains(t, out, "//! - tests: All test cases")
}

func TestRender_DocComment(t *testing.T) {
	out := Render(DefaultSpec())

	assert.True(t, strings.HasPrefix(out, "//! Transcoding engine split into modular components.\n"))
	assert.Contains(t, out, "//! - worker: Worker thread pool and job scheduling")
}

func TestRender_Facade(t *testing.T) {
	out := Render(DefaultSpec())

	assert.Contains(t, out, "#[derive(Clone)]\npub struct TranscodingEngine {\n    inner: Arc<Inner>,\n}")
	assert.Contains(t, out, "pub fn new() -> Result<Self> {")
	assert.Contains(t, out, "Ok(Self { inner })")

	// Constructor steps appear in the fixed initialization order.
	idxConfig := strings.Index(out, "load_presets()")
	idxSettings := strings.Index(out, "load_settings()")
	idxState := strings.Index(out, "Inner::new(presets, settings)")
	idxRestore := strings.Index(out, "restore_jobs_from_persisted_queue(&inner);")
	idxSpawn := strings.Index(out, "worker::spawn_worker(inner.clone());")
	require.True(t, idxConfig >= 0 && idxSettings >= 0 && idxState >= 0 && idxRestore >= 0 && idxSpawn >= 0)
	assert.Less(t, idxConfig, idxSettings)
	assert.Less(t, idxSettings, idxState)
	assert.Less(t, idxState, idxRestore)
	assert.Less(t, idxRestore, idxSpawn)
}

func TestRender_DelegatingOperations(t *testing.T) {
	out := Render(DefaultSpec())

	assert.Contains(t, out, "pub fn cancel_job(&self, job_id: &str) -> bool {\n        worker::cancel_job(&self.inner, job_id)\n    }")
	assert.Contains(t, out, "pub fn queue_state(&self) -> QueueState {\n        state::snapshot_queue_state(&self.inner)\n    }")
	// Extra leading args sit between the state handle and the parameters.
	assert.Contains(t, out, "smart_scan::run_auto_compress(&self.inner, self.clone(), root_path, config)")
}

func TestRender_ImportsMergedAndDeduplicated(t *testing.T) {
	spec := minimalSpec()
	spec.FoundationalImports = []string{"std::fs", "anyhow::Result"}
	spec.SymbolImports = []string{"anyhow::Result", "crate::domain::Job"}

	out := Render(spec)

	assert.Equal(t, 1, strings.Count(out, "use anyhow::Result;"))
	fs := strings.Index(out, "use std::fs;")
	job := strings.Index(out, "use crate::domain::Job;")
	require.True(t, fs >= 0 && job >= 0)
	assert.Less(t, fs, job)
}

func TestRender_ReExports(t *testing.T) {
	out := Render(DefaultSpec())

	assert.Contains(t, out, "pub(crate) use state::{Inner, EngineState, restore_jobs_from_snapshot};")
	assert.Contains(t, out, "use state::{snapshot_queue_state, notify_queue_listeners, restore_jobs_from_persisted_queue};")
}

func TestRender_Helpers(t *testing.T) {
	out := Render(DefaultSpec())

	assert.Contains(t, out, "fn current_time_millis() -> u64 {")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
