package flags

import "testing"

// TestParse covers the separator variants and the ignore-don't-reject
// policy for malformed input.
func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Flags
	}{
		{
			name:  "empty_is_defaults",
			input: "",
			want:  Defaults(),
		},
		{
			name:  "space_separated",
			input: "fdr_log=1 verbosity=2",
			want: Flags{
				FDRLog:      true,
				LogfileBase: "fdrtracer-log.",
				Verbosity:   2,
				BufferSize:  16384,
				BufferMax:   16,
			},
		},
		{
			name:  "colon_separated",
			input: "fdr_log=true:buffer_size=4096:buffer_max=2",
			want: Flags{
				FDRLog:      true,
				LogfileBase: "fdrtracer-log.",
				BufferSize:  4096,
				BufferMax:   2,
			},
		},
		{
			name:  "custom_logfile_base",
			input: "logfile_base=mytrace.",
			want: Flags{
				LogfileBase: "mytrace.",
				BufferSize:  16384,
				BufferMax:   16,
			},
		},
		{
			name:  "unknown_keys_ignored",
			input: "nonsense=1 fdr_log=1 also_nonsense=yes",
			want: Flags{
				FDRLog:      true,
				LogfileBase: "fdrtracer-log.",
				BufferSize:  16384,
				BufferMax:   16,
			},
		},
		{
			name:  "malformed_values_keep_defaults",
			input: "fdr_log=maybe buffer_size=lots verbosity= logfile_base=",
			want:  Defaults(),
		},
		{
			name:  "negative_dimensions_rejected",
			input: "buffer_size=-1 buffer_max=0",
			want:  Defaults(),
		},
		{
			name:  "bare_words_skipped",
			input: "fdr_log verbosity fdr_log=1",
			want: Flags{
				FDRLog:      true,
				LogfileBase: "fdrtracer-log.",
				BufferSize:  16384,
				BufferMax:   16,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadCached verifies Load resolves once and stays stable.
func TestLoadCached(t *testing.T) {
	first := Load()
	if got := Load(); got != first {
		t.Errorf("Load() changed between calls: %+v then %+v", first, got)
	}
}
