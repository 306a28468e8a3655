package engine

import (
	"fmt"
	"strings"
	"testing"
)

func BenchmarkScanSource(b *testing.B) {
	unit := strings.Join([]string{
		"/* block",
		"   comment */",
		"function withdraw() external { // entry",
		`    string memory s = "// not a comment";`,
		"    payable(msg.sender).transfer(1);",
		"    (bool ok, ) = to.call{value: 1}(\"\");",
		"    require(tx.origin == owner);",
		"}",
	}, "\n")

	for _, reps := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("units_%d", reps), func(b *testing.B) {
			src := strings.Repeat(unit+"\n", reps)
			b.ReportAllocs()
			b.SetBytes(int64(len(src)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = ScanSource(src, "bench.sol")
			}
		})
	}
}
