package corpus

import "bytes"

// FormatKind is the coarse outcome of sniffing a byte prefix.
type FormatKind string

const (
	// KindUnrecognized means the prefix matched no known signature.
	KindUnrecognized FormatKind = "unrecognized"
	// KindContainer means the prefix matched an asset bundle signature.
	KindContainer FormatKind = "container"
	// KindImage means the prefix matched a standalone image signature.
	KindImage FormatKind = "image"
)

// Format identifies what a byte prefix looks like. Name is the signature
// variant ("unityfs", "png", ...) and is empty for unrecognized input.
type Format struct {
	Kind FormatKind
	Name string
}

// IsContainer reports whether the format is an asset bundle.
func (f Format) IsContainer() bool { return f.Kind == KindContainer }

// IsImage reports whether the format is a standalone image.
func (f Format) IsImage() bool { return f.Kind == KindImage }

// SniffLen is the number of leading bytes that covers every signature
// [Sniff] knows about. Callers reading file prefixes should read this many.
const SniffLen = 32

type signature struct {
	name  string
	kind  FormatKind
	magic []byte
}

// Signatures anchored at offset 0, checked in order. WEBP is handled
// separately because its tag is split across two offsets.
var signatures = []signature{
	{"unityfs", KindContainer, []byte("UnityFS")},
	{"unityweb", KindContainer, []byte("UnityWeb")},
	{"unityraw", KindContainer, []byte("UnityRaw")},
	{"png", KindImage, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}},
	{"jpeg", KindImage, []byte{0xff, 0xd8}},
}

// Sniff classifies a byte prefix by magic signature. A prefix shorter than
// a candidate signature simply fails that signature, so truncated input is
// safe and comes back as KindUnrecognized. Sniff performs no I/O.
func Sniff(prefix []byte) Format {
	for _, sig := range signatures {
		if len(prefix) >= len(sig.magic) && bytes.Equal(prefix[:len(sig.magic)], sig.magic) {
			return Format{Kind: sig.kind, Name: sig.name}
		}
	}
	if len(prefix) >= 12 && bytes.Equal(prefix[:4], []byte("RIFF")) && bytes.Equal(prefix[8:12], []byte("WEBP")) {
		return Format{Kind: KindImage, Name: "webp"}
	}
	return Format{Kind: KindUnrecognized}
}
