package cli

import "testing"

func TestResolveExtractFormat(t *testing.T) {
	tests := []struct {
		name    string
		changed bool
		flag    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "default", flag: "flac", want: "flac"},
		{name: "from output extension", flag: "flac", output: "out/episode.WAV", want: "wav"},
		{name: "unknown extension keeps default", flag: "flac", output: "episode.audio", want: "flac"},
		{name: "flag wins over extension", changed: true, flag: "MP3", output: "episode.wav", want: "mp3"},
		{name: "invalid flag", changed: true, flag: "ogg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveExtractFormat(tt.changed, tt.flag, tt.output)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveExtractFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
