package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty: %v", err)
	}

	t.Setenv("CAREERQUEST_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr bool
	}{
		{name: "file wins", src: Source{File: keyFile, Value: "inline", Env: "CAREERQUEST_TEST_KEY"}, want: "from-file"},
		{name: "value before env", src: Source{Value: " inline ", Env: "CAREERQUEST_TEST_KEY"}, want: "inline"},
		{name: "env fallback", src: Source{Env: "CAREERQUEST_TEST_KEY"}, want: "from-env"},
		{name: "empty env", src: Source{Env: "CAREERQUEST_TEST_UNSET"}, wantErr: true},
		{name: "empty file", src: Source{File: emptyFile, Value: "inline"}, wantErr: true},
		{name: "missing file", src: Source{File: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "nothing", src: Source{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigured(t *testing.T) {
	t.Setenv("CAREERQUEST_TEST_KEY", "x")

	if !Configured(Source{Env: "CAREERQUEST_TEST_KEY"}) {
		t.Fatalf("env source should count as configured")
	}
	if Configured(Source{Env: "CAREERQUEST_TEST_UNSET"}) {
		t.Fatalf("unset env should not count as configured")
	}
	if Configured(Source{}) {
		t.Fatalf("empty source should not count as configured")
	}
}
