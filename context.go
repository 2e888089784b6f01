// Package pir provides the cryptographic context and data-encoding layer for a
// private information retrieval session on the BFV homomorphic encryption
// scheme.
//
// A Context owns one parameter set and one key pair for the lifetime of a
// session and exposes every conversion needed to move data across the
// encryption boundary: batch encoding of integer vectors, bit-packed encoding
// of byte strings, encryption, decryption, and binary serialization of
// parameters and ciphertexts. Query construction, database layout and the
// oblivious-selection circuit itself belong to the caller; the evaluator
// handle is exposed for that purpose.
//
// Every operation returns a typed error instead of letting a backend fault
// escape: malformed or oversized input yields ErrInvalidArgument, a backend
// fault during a well-formed operation yields ErrBackend.
package pir

import (
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/schemes/bfv"
)

// Context owns the scheme parameters, the key pair and the derived operator
// objects for one PIR session. All state is set at construction and only read
// afterwards, so a Context is safe for concurrent use once constructed.
//
// The secret key never leaves the Context; only parameters and ciphertexts
// cross the wire. A peer reconstructed with NewContextFromParameters therefore
// holds a fresh, independent key pair.
type Context struct {
	params       bfv.Parameters
	databaseSize int

	sk *rlwe.SecretKey
	pk *rlwe.PublicKey

	encoder   *bfv.Encoder
	encryptor *rlwe.Encryptor
	decryptor *rlwe.Decryptor
	evaluator *bfv.Evaluator

	codec *StringCodec
}

// NewContext creates a session context sized for a database of databaseSize
// records, with default parameters at ring degree 2^DefaultLogN and a fresh
// key pair.
func NewContext(databaseSize int) (*Context, error) {
	params, err := GenerateParameters(DefaultLogN)
	if err != nil {
		return nil, err
	}
	return newContext(params, databaseSize)
}

// NewContextFromParameters creates a session context from a parameter blob
// produced by SerializeParameters on a peer. The blob carries no key material,
// so the new context generates its own key pair; it can encrypt for itself and
// run the selection circuit on ciphertexts it produced, but cannot decrypt
// ciphertexts encrypted under the originating context's keys.
func NewContextFromParameters(data []byte, databaseSize int) (*Context, error) {
	params, err := DeserializeParameters(data)
	if err != nil {
		return nil, err
	}
	return newContext(params, databaseSize)
}

func newContext(params bfv.Parameters, databaseSize int) (ctx *Context, err error) {
	defer guard(&err)

	kgen := rlwe.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()
	rlk := kgen.GenRelinearizationKeyNew(sk)

	return &Context{
		params:       params,
		databaseSize: databaseSize,
		sk:           sk,
		pk:           pk,
		encoder:      bfv.NewEncoder(params),
		encryptor:    bfv.NewEncryptor(params, pk),
		decryptor:    bfv.NewDecryptor(params, sk),
		evaluator:    bfv.NewEvaluator(params, rlwe.NewMemEvaluationKeySet(rlk)),
		codec:        NewStringCodec(params.PlaintextModulus(), params.N()),
	}, nil
}

// DatabaseSize returns the number of logical records this session was sized
// for. The context itself does not store records; callers use the size to
// decide batching layout.
func (c *Context) DatabaseSize() int {
	return c.databaseSize
}

// Parameters returns the scheme parameters of this session.
func (c *Context) Parameters() bfv.Parameters {
	return c.params
}

// Evaluator returns the homomorphic evaluator tied to this session's
// parameters. The handle is shared, not transferred: it remains owned by the
// Context and is only valid for the Context's lifetime.
func (c *Context) Evaluator() *bfv.Evaluator {
	return c.evaluator
}

// Codec returns the string codec matching this session's plaintext capacity.
func (c *Context) Codec() *StringCodec {
	return c.codec
}

// Encode batch-packs up to one integer per coefficient slot. Values are
// implicitly reduced modulo the plaintext modulus by the backend.
func (c *Context) Encode(values []uint64) (pt *rlwe.Plaintext, err error) {
	defer guard(&err)

	if len(values) == 0 {
		return nil, invalidf("cannot encode an empty vector")
	}
	if len(values) > c.params.MaxSlots() {
		return nil, invalidf("vector of %d values exceeds the %d coefficient slots", len(values), c.params.MaxSlots())
	}

	pt = bfv.NewPlaintext(c.params)
	if err := c.encoder.Encode(values, pt); err != nil {
		return nil, invalidf("encode: %v", err)
	}
	return pt, nil
}

// Decode is the inverse of Encode. It always returns one value per coefficient
// slot; slots past the encoded vector are zero.
func (c *Context) Decode(pt *rlwe.Plaintext) (values []uint64, err error) {
	defer guard(&err)

	if pt == nil {
		return nil, invalidf("cannot decode a nil plaintext")
	}
	values = make([]uint64, c.params.MaxSlots())
	if err := c.encoder.Decode(pt, values); err != nil {
		return nil, invalidf("decode: %v", err)
	}
	return values, nil
}

// EncodeCoeffs places values directly on the plaintext polynomial's
// coefficients, without the batching permutation. This is the domain used by
// the string codec and by one-hot selection queries, where the homomorphic
// product acts as a polynomial product rather than slot-wise.
func (c *Context) EncodeCoeffs(values []uint64) (pt *rlwe.Plaintext, err error) {
	if len(values) == 0 {
		return nil, invalidf("cannot encode an empty vector")
	}
	return c.encodeCoeffs(values)
}

// DecodeCoeffs is the inverse of EncodeCoeffs, returning all ring-degree
// coefficients.
func (c *Context) DecodeCoeffs(pt *rlwe.Plaintext) (values []uint64, err error) {
	defer guard(&err)

	if pt == nil {
		return nil, invalidf("cannot decode a nil plaintext")
	}
	values = make([]uint64, c.params.N())
	if err := c.encoder.Decode(pt, values); err != nil {
		return nil, invalidf("decode: %v", err)
	}
	return values, nil
}

// EncodeBytes bit-packs an arbitrary byte string into one plaintext, using the
// codec's packing width. It fails with ErrInvalidArgument if the string does
// not fit; it never truncates.
func (c *Context) EncodeBytes(s []byte) (*rlwe.Plaintext, error) {
	coeffs, err := c.codec.Encode(s)
	if err != nil {
		return nil, err
	}
	return c.encodeCoeffs(coeffs)
}

// DecodeBytes unpacks a plaintext produced by EncodeBytes, or by a homomorphic
// selection over such plaintexts. The result is the original string followed
// by zero bytes; callers track the meaningful length themselves.
func (c *Context) DecodeBytes(pt *rlwe.Plaintext) ([]byte, error) {
	coeffs, err := c.DecodeCoeffs(pt)
	if err != nil {
		return nil, err
	}
	return c.codec.Decode(coeffs), nil
}

func (c *Context) encodeCoeffs(values []uint64) (pt *rlwe.Plaintext, err error) {
	defer guard(&err)

	if len(values) > c.params.N() {
		return nil, invalidf("vector of %d values exceeds the ring degree %d", len(values), c.params.N())
	}

	pt = bfv.NewPlaintext(c.params)
	pt.IsBatched = false
	if err := c.encoder.Encode(values, pt); err != nil {
		return nil, invalidf("encode: %v", err)
	}
	return pt, nil
}

// EncryptPlaintext encrypts a single plaintext under the session's public key.
func (c *Context) EncryptPlaintext(pt *rlwe.Plaintext) (ct *rlwe.Ciphertext, err error) {
	defer guard(&err)

	if pt == nil {
		return nil, invalidf("cannot encrypt a nil plaintext")
	}
	if ct, err = c.encryptor.EncryptNew(pt); err != nil {
		return nil, invalidf("encrypt: %v", err)
	}
	return ct, nil
}

// DecryptPlaintext decrypts a ciphertext with the session's secret key.
func (c *Context) DecryptPlaintext(ct *rlwe.Ciphertext) (pt *rlwe.Plaintext, err error) {
	defer guard(&err)

	if ct == nil {
		return nil, invalidf("cannot decrypt a nil ciphertext")
	}
	return c.decryptor.DecryptNew(ct), nil
}

// Encrypt composes Encode, encryption and Serialize: the returned blob is
// ready for transport. The first failing stage short-circuits and its error is
// returned unchanged.
func (c *Context) Encrypt(values []uint64) ([]byte, error) {
	pt, err := c.Encode(values)
	if err != nil {
		return nil, err
	}
	ct, err := c.EncryptPlaintext(pt)
	if err != nil {
		return nil, err
	}
	return c.Serialize(ct)
}

// Decrypt composes Deserialize, decryption and Decode, short-circuiting on the
// first failure.
func (c *Context) Decrypt(data []byte) ([]uint64, error) {
	ct, err := c.Deserialize(data)
	if err != nil {
		return nil, err
	}
	pt, err := c.DecryptPlaintext(ct)
	if err != nil {
		return nil, err
	}
	return c.Decode(pt)
}

// Serialize encodes a ciphertext into an opaque blob. The blob is only
// meaningful under the parameters that produced it.
func (c *Context) Serialize(ct *rlwe.Ciphertext) (data []byte, err error) {
	defer guard(&err)

	if ct == nil {
		return nil, invalidf("cannot serialize a nil ciphertext")
	}
	if data, err = ct.MarshalBinary(); err != nil {
		return nil, invalidf("ciphertext serialization: %v", err)
	}
	return data, nil
}

// Deserialize decodes a ciphertext blob and validates it against the session's
// parameters. A blob produced under a different parameter set fails with
// ErrInvalidArgument rather than decrypting to garbage.
//
// The validation covers what the blob itself reveals: ring degree and modulus
// chain length. The backend's wire format carries no parameter fingerprint, so
// a blob produced under parameters of identical shape but different moduli is
// indistinguishable and would decrypt to garbage; callers must only feed a
// session ciphertexts produced under its own parameter blob.
func (c *Context) Deserialize(data []byte) (ct *rlwe.Ciphertext, err error) {
	defer guard(&err)

	ct = new(rlwe.Ciphertext)
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, invalidf("ciphertext deserialization: %v", err)
	}
	if ct.Degree() < 1 {
		return nil, invalidf("ciphertext has no polynomials")
	}
	if n := ct.Value[0].N(); n != c.params.N() {
		return nil, invalidf("ciphertext ring degree %d does not match the session parameters' %d", n, c.params.N())
	}
	if lvl := ct.Level(); lvl > c.params.MaxLevel() {
		return nil, invalidf("ciphertext level %d exceeds the session parameters' %d", lvl, c.params.MaxLevel())
	}
	return ct, nil
}

// SerializeParameters exports the session's parameter set for a peer, which
// reconstructs a compatible context with NewContextFromParameters. No key
// material is included.
func (c *Context) SerializeParameters() ([]byte, error) {
	return serializeParameters(c.params)
}
