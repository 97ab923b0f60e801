package simulation

import "math/rand/v2"

// pcgStream es la constante de incremento del PCG; fija para que un seed
// determine por completo la secuencia.
const pcgStream = 0x9e3779b97f4a7c15

// RandomSource es un stream pseudoaleatorio con seed explícito.
// No es seguro para uso concurrente: cada path recibe el suyo vía Derive.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource crea un stream determinista a partir del seed.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, pcgStream))}
}

// Float64 devuelve un uniforme en [0, 1).
func (r *RandomSource) Float64() float64 {
	return r.rng.Float64()
}

// Uint64 devuelve 64 bits uniformes; se usa para derivar sub-seeds.
func (r *RandomSource) Uint64() uint64 {
	return r.rng.Uint64()
}

// Derive consume un valor del stream padre y lo usa como seed de un stream hijo independiente.
func (r *RandomSource) Derive() *RandomSource {
	return NewRandomSource(r.Uint64())
}
