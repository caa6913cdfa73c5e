package bufpool

import "github.com/jangala-dev/esp-hosted-spi/x/mathx"

// Sizes computes the three pool depths from §4.1's formulas:
//
//	|TX pool|    = Σ TX queue depths + hardware-depth + 1
//	|RX pool|    = Σ RX queue depths + 2 × hardware-depth
//	|trans pool| = hardware-depth
func Sizes(txDepthSum, rxDepthSum, hwDepth int) (tx, rx, trans int) {
	hwDepth = mathx.Max(hwDepth, 1)
	tx = txDepthSum + hwDepth + 1
	rx = rxDepthSum + 2*hwDepth
	trans = hwDepth
	return
}
