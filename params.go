package pir

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/schemes/bfv"
)

// DefaultLogN is the default ring degree exponent: plaintexts and ciphertexts
// hold 2^DefaultLogN coefficients.
const DefaultLogN = 12

// PlaintextModulus is the coefficient modulus of the plaintext space: a 20-bit
// prime congruent to 1 mod 2^14, so batching is available for ring degrees up
// to 8192.
const PlaintextModulus = 0xFC001

// GenerateParameters builds the default BFV parameter set for the given ring
// degree exponent: the plaintext modulus above and a 109-bit ciphertext
// modulus chain, matching the standard budget for degree 4096. Most callers
// want GenerateParameters(DefaultLogN).
func GenerateParameters(logN int) (bfv.Parameters, error) {
	params, err := bfv.NewParametersFromLiteral(bfv.ParametersLiteral{
		LogN:             logN,
		LogQ:             []int{36, 36},
		LogP:             []int{37},
		PlaintextModulus: PlaintextModulus,
	})
	if err != nil {
		return bfv.Parameters{}, invalidf("parameter generation for logN=%d: %v", logN, err)
	}
	return params, nil
}

// DeserializeParameters recovers a parameter set from the opaque blob produced
// by Context.SerializeParameters. The blob carries no key material.
func DeserializeParameters(data []byte) (params bfv.Parameters, err error) {
	defer guard(&err)
	if err := params.UnmarshalBinary(data); err != nil {
		return bfv.Parameters{}, invalidf("parameter deserialization: %v", err)
	}
	return params, nil
}

func serializeParameters(params bfv.Parameters) (data []byte, err error) {
	defer guard(&err)
	if data, err = params.MarshalBinary(); err != nil {
		return nil, fmt.Errorf("%w: parameter serialization: %v", ErrBackend, err)
	}
	return data, nil
}
