// Package uid derives stable 64-bit seeds from run/event identifiers.
//
// The derivation is a pure bit-mixing function: no global state, no clock,
// no math/rand. The same (run, event, name) triple always yields the same
// seed, across processes and across worker assignments, which is what makes
// digitization output reproducible regardless of scheduling.
package uid

// splitmix64 constants. The finalizer multipliers give full avalanche:
// flipping any input bit flips each output bit with probability ~1/2. The
// gamma increment keeps the all-zero input off the finalizer's fixed point.
const (
	mixGamma = 0x9e3779b97f4a7c15
	mixMul1  = 0xbf58476d1ce4e5b9
	mixMul2  = 0x94d049bb133111eb
)

func mix64(x uint64) uint64 {
	x += mixGamma
	x ^= x >> 30
	x *= mixMul1
	x ^= x >> 27
	x *= mixMul2
	x ^= x >> 31
	return x
}

// EventSeed returns the engine seed for one (run, event) pair.
func EventSeed(run, event uint32) uint64 {
	return mix64(uint64(run)<<32 | uint64(event))
}

// Seed returns the engine seed for one (run, event) pair as consumed by a
// named component. Distinct names give statistically independent streams for
// the same event, so two algorithms digitizing the same event never share
// draws.
func Seed(run, event uint32, name string) uint64 {
	h := EventSeed(run, event)
	for i := 0; i < len(name); i++ {
		h = mix64(h ^ uint64(name[i]))
	}
	return h
}
