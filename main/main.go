// Demo of the PIR encoding and encryption layer: a client retrieves one
// record from a server's database without revealing which one. The selection
// circuit run here stands in for the real protocol layer; everything that
// crosses the "wire" between the two parties is a serialized blob.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"

	"github.com/seclava/pir"
)

func main() {
	records := []string{
		"alpha: first record of the demo database",
		"bravo: second record, slightly longer than the first one",
		"charlie: third record",
		"delta: fourth and last record",
	}
	desired := 2

	// The client owns the keys for the session.
	client, err := pir.NewContext(len(records))
	if err != nil {
		fail(err)
	}

	// The server bootstraps a compatible context from the parameter blob
	// alone; it never sees any key material.
	paramsBlob, err := client.SerializeParameters()
	if err != nil {
		fail(err)
	}
	server, err := pir.NewContextFromParameters(paramsBlob, len(records))
	if err != nil {
		fail(err)
	}

	// Client: encrypt a one-hot selection vector, one ciphertext per record.
	query := make([][]byte, len(records))
	for i := range records {
		bit := uint64(0)
		if i == desired {
			bit = 1
		}
		pt, err := client.EncodeCoeffs([]uint64{bit})
		if err != nil {
			fail(err)
		}
		ct, err := client.EncryptPlaintext(pt)
		if err != nil {
			fail(err)
		}
		if query[i], err = client.Serialize(ct); err != nil {
			fail(err)
		}
	}

	// Server: oblivious dot product of the query with the packed database.
	reply, err := selectRecord(server, records, query)
	if err != nil {
		fail(err)
	}

	// Client: decrypt and unpack the selected record.
	replyCt, err := client.Deserialize(reply)
	if err != nil {
		fail(err)
	}
	replyPt, err := client.DecryptPlaintext(replyCt)
	if err != nil {
		fail(err)
	}
	decoded, err := client.DecodeBytes(replyPt)
	if err != nil {
		fail(err)
	}

	fmt.Printf("requested record %d\n", desired)
	fmt.Printf("retrieved: %q\n", bytes.TrimRight(decoded, "\x00"))
}

// selectRecord packs every record into plaintext coefficients and accumulates
// query[i] * record[i] homomorphically. The server only ever handles
// ciphertexts it cannot decrypt.
func selectRecord(server *pir.Context, records []string, query [][]byte) ([]byte, error) {
	eval := server.Evaluator()

	var acc *rlwe.Ciphertext
	for i, record := range records {
		recordPt, err := server.EncodeBytes([]byte(record))
		if err != nil {
			return nil, err
		}
		selectionCt, err := server.Deserialize(query[i])
		if err != nil {
			return nil, err
		}
		masked, err := eval.MulNew(selectionCt, recordPt)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = masked
			continue
		}
		if err := eval.Add(acc, masked, acc); err != nil {
			return nil, err
		}
	}
	return server.Serialize(acc)
}

func fail(err error) {
	fmt.Println(err)
	os.Exit(1)
}
