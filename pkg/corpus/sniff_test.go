package corpus

import "testing"

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		prefix   []byte
		wantKind FormatKind
		wantName string
	}{
		{"unityfs", []byte("UnityFS\x00\x00\x00\x00\x06"), KindContainer, "unityfs"},
		{"unityweb", []byte("UnityWeb\x00\x00"), KindContainer, "unityweb"},
		{"unityraw", []byte("UnityRaw\x00\x00"), KindContainer, "unityraw"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, KindImage, "png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, KindImage, "jpeg"},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), KindImage, "webp"},
		{"riff but not webp", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), KindUnrecognized, ""},
		{"truncated png magic", []byte{0x89, 'P'}, KindUnrecognized, ""},
		{"empty", nil, KindUnrecognized, ""},
		{"garbage", []byte("random bytes here"), KindUnrecognized, ""},
	}

	for _, tt := range tests {
		got := Sniff(tt.prefix)
		if got.Kind != tt.wantKind || got.Name != tt.wantName {
			t.Errorf("%s: Sniff = {%s %q}, want {%s %q}",
				tt.name, got.Kind, got.Name, tt.wantKind, tt.wantName)
		}
	}
}

func TestSniffNeverPanicsOnShortInput(t *testing.T) {
	for n := 0; n <= SniffLen; n++ {
		prefix := make([]byte, n)
		if got := Sniff(prefix); got.Kind != KindUnrecognized {
			t.Fatalf("Sniff(%d zero bytes) = %v", n, got)
		}
	}
}
