package manifest

// DefaultSpec returns the manifest spec for the reference workload: ffui's
// transcoding engine, split out of engine.rs into engine/. The facade keeps
// the monolith's public contract; every operation forwards to one of the
// split-out submodules.
func DefaultSpec() *Spec {
	return &Spec{
		Doc: "Transcoding engine split into modular components.",
		Submodules: []Submodule{
			{Name: "state", Summary: "Engine state management, queue persistence, listeners"},
			{Name: "worker", Summary: "Worker thread pool and job scheduling"},
			{Name: "ffmpeg_args", Summary: "FFmpeg command-line argument generation"},
			{Name: "job_runner", Summary: "Job execution logic, progress tracking"},
			{Name: "smart_scan", Summary: "Smart Scan batch processing"},
		},
		TestSubmodule: true,
		FoundationalImports: []string{
			"std::collections::{HashMap, HashSet, VecDeque, hash_map::DefaultHasher}",
			"std::fs",
			"std::hash::{Hash, Hasher}",
			"std::path::{Path, PathBuf}",
			"std::sync::atomic::{AtomicU64, Ordering}",
			"std::sync::{Arc, Mutex}",
			"std::time::{SystemTime, UNIX_EPOCH}",
			"anyhow::{Context, Result}",
		},
		SymbolImports: []string{
			"crate::ffui_core::domain::{AutoCompressProgress, AutoCompressResult, FFmpegPreset, JobSource, JobStatus, JobType, MediaInfo, QueueState, SmartScanConfig, TranscodeJob}",
			"crate::ffui_core::monitor::{CpuUsageSnapshot, GpuUsageSnapshot, sample_cpu_usage, sample_gpu_usage}",
			"crate::ffui_core::settings::{self, AppSettings, DownloadedToolInfo, DownloadedToolState}",
			"crate::ffui_core::tools::{ExternalToolKind, ExternalToolStatus, ensure_tool_available, last_tool_download_metadata, tool_status}",
		},
		ReExports: []ReExport{
			{
				From:       "state",
				Symbols:    []string{"Inner", "EngineState", "restore_jobs_from_snapshot"},
				Visibility: "pub(crate)",
			},
			{
				From:    "state",
				Symbols: []string{"snapshot_queue_state", "notify_queue_listeners", "restore_jobs_from_persisted_queue"},
			},
		},
		Facade: Facade{
			TypeName:   "TranscodingEngine",
			StateField: "inner",
			StateType:  "Arc<Inner>",
			Derives:    []string{"Clone"},
			Constructor: Constructor{
				LoadConfig:   "let presets = settings::load_presets().unwrap_or_default();",
				LoadSettings: "let settings = settings::load_settings().unwrap_or_default();",
				InitState:    "let inner = Arc::new(Inner::new(presets, settings));",
				RestoreQueue: "restore_jobs_from_persisted_queue(&inner);",
				SpawnWorker:  "worker::spawn_worker(inner.clone());",
			},
			Operations: []Operation{
				{
					Name: "enqueue_transcode_job",
					Params: []Param{
						{Name: "filename", Type: "String"},
						{Name: "job_type", Type: "JobType"},
						{Name: "source", Type: "JobSource"},
						{Name: "original_size_mb", Type: "f64"},
						{Name: "original_codec", Type: "Option<String>"},
						{Name: "preset_id", Type: "String"},
					},
					Returns: "TranscodeJob",
					Target:  "worker",
				},
				{
					Name:    "cancel_job",
					Params:  []Param{{Name: "job_id", Type: "&str"}},
					Returns: "bool",
					Target:  "worker",
				},
				{
					Name:    "wait_job",
					Params:  []Param{{Name: "job_id", Type: "&str"}},
					Returns: "bool",
					Target:  "worker",
				},
				{
					Name:    "resume_job",
					Params:  []Param{{Name: "job_id", Type: "&str"}},
					Returns: "bool",
					Target:  "worker",
				},
				{
					Name:    "restart_job",
					Params:  []Param{{Name: "job_id", Type: "&str"}},
					Returns: "bool",
					Target:  "worker",
				},
				{
					Name:    "reorder_waiting_jobs",
					Params:  []Param{{Name: "ordered_ids", Type: "Vec<String>"}},
					Returns: "bool",
					Target:  "worker",
				},
				{
					Name:     "queue_state",
					Returns:  "QueueState",
					Target:   "state",
					TargetFn: "snapshot_queue_state",
				},
				{
					Name: "run_auto_compress",
					Params: []Param{
						{Name: "root_path", Type: "String"},
						{Name: "config", Type: "SmartScanConfig"},
					},
					Returns:   "Result<AutoCompressResult>",
					Target:    "smart_scan",
					ExtraArgs: []string{"self.clone()"},
				},
				{
					Name:    "smart_scan_batch_summary",
					Params:  []Param{{Name: "batch_id", Type: "&str"}},
					Returns: "Option<AutoCompressResult>",
					Target:  "smart_scan",
				},
				{
					Name:    "inspect_media",
					Params:  []Param{{Name: "path", Type: "String"}},
					Returns: "Result<String>",
					Target:  "job_runner",
				},
			},
		},
		Helpers: []string{
			"fn current_time_millis() -> u64 {\n" +
				"    SystemTime::now()\n" +
				"        .duration_since(UNIX_EPOCH)\n" +
				"        .unwrap_or_default()\n" +
				"        .as_millis() as u64\n" +
				"}",
		},
	}
}
