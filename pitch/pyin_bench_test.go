package pitch

import (
	"testing"

	"github.com/cwbudde/vocalsync/internal/testutil"
)

func BenchmarkTrack5s(b *testing.B) {
	sig := testutil.Glide(150, 600, sr, 0.5, 5*sr)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Track(sig, sr); err != nil {
			b.Fatal(err)
		}
	}
}
