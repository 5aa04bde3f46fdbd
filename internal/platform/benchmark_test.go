package platform

import (
	"context"
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	detector := NewDetector()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = detector.Detect(ctx)
	}
}

func BenchmarkParseKey(b *testing.B) {
	isMusl := func() bool { return false }
	for i := 0; i < b.N; i++ {
		_, _ = ParseKey("linux", "x86_64", isMusl)
	}
}

func BenchmarkArtifactName(b *testing.B) {
	key := Key{OS: OSLinux, Arch: ArchX64, Libc: LibcMusl}
	for i := 0; i < b.N; i++ {
		_ = key.ArtifactName("biome")
	}
}
