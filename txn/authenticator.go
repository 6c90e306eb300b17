package txn

import (
	"crypto/ed25519"

	"golang.org/x/crypto/sha3"

	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/types"
)

// Authenticator scheme variants.
const (
	accountAuthEd25519 = 0

	txnAuthEd25519  = 0
	txnAuthFeePayer = 3
)

// Domain separation prefixes hashed into every signing message.
const (
	rawTxnSalt         = "APTOS::RawTransaction"
	rawTxnWithDataSalt = "APTOS::RawTransactionWithData"
)

// Fee payer transactions sign the RawTransactionWithData::MultiAgentWithFeePayer
// variant.
const multiAgentWithFeePayerVariant = 1

// AccountAuthenticator proves one account approved a transaction. Only the
// ed25519 scheme is supported.
type AccountAuthenticator struct {
	PublicKey ed25519.PublicKey
	Signature []byte
}

func (a AccountAuthenticator) serialize(s *bcs.Serializer) {
	s.Uleb128(accountAuthEd25519)
	s.Bytes(a.PublicKey)
	s.Bytes(a.Signature)
}

// Serialize returns the standalone BCS encoding of the authenticator, as
// sent to fee payer relays.
func (a AccountAuthenticator) Serialize() []byte {
	s := &bcs.Serializer{}
	a.serialize(s)
	return s.Output()
}

// SigningMessage is the byte string an account signs for a transaction it
// pays gas for itself: a salt hash followed by the raw transaction.
func SigningMessage(raw RawTransaction) ([]byte, error) {
	body, err := raw.Serialize()
	if err != nil {
		return nil, err
	}
	return append(saltHash(rawTxnSalt), body...), nil
}

// FeePayerSigningMessage is the byte string signed when a separate account
// pays gas. The fee payer address is part of the message, so sponsorship
// cannot be redirected after signing.
func FeePayerSigningMessage(raw RawTransaction, secondarySigners []types.Address, feePayer types.Address) ([]byte, error) {
	body, err := raw.Serialize()
	if err != nil {
		return nil, err
	}
	s := &bcs.Serializer{}
	s.Uleb128(multiAgentWithFeePayerVariant)
	s.FixedBytes(body)
	s.Uleb128(uint64(len(secondarySigners)))
	for _, signer := range secondarySigners {
		s.FixedBytes(signer.Bytes())
	}
	s.FixedBytes(feePayer.Bytes())
	return append(saltHash(rawTxnWithDataSalt), s.Output()...), nil
}

func saltHash(salt string) []byte {
	sum := sha3.Sum256([]byte(salt))
	return sum[:]
}

// SerializeSignedTransaction produces the signed-transaction BCS blob
// submitted directly to a node: the raw transaction followed by its
// authenticator. Fee payer transactions go through a relay instead and must
// not be serialized here.
func SerializeSignedTransaction(raw RawTransaction, senderAuth AccountAuthenticator) ([]byte, error) {
	body, err := raw.Serialize()
	if err != nil {
		return nil, err
	}
	s := &bcs.Serializer{}
	s.FixedBytes(body)
	s.Uleb128(txnAuthEd25519)
	s.Bytes(senderAuth.PublicKey)
	s.Bytes(senderAuth.Signature)
	return s.Output(), nil
}

// SerializeForSimulation produces a signed-transaction blob with a zeroed
// signature, which nodes accept on the simulate endpoint. Fee payer
// transactions simulate with the transaction's placeholder payer address and
// the sender's public key in the payer slot.
func SerializeForSimulation(txn SimpleTransaction, publicKey ed25519.PublicKey) ([]byte, error) {
	body, err := txn.Raw.Serialize()
	if err != nil {
		return nil, err
	}
	zeroSig := make([]byte, ed25519.SignatureSize)
	s := &bcs.Serializer{}
	s.FixedBytes(body)
	if txn.FeePayerAddress == nil {
		s.Uleb128(txnAuthEd25519)
		s.Bytes(publicKey)
		s.Bytes(zeroSig)
		return s.Output(), nil
	}
	s.Uleb128(txnAuthFeePayer)
	AccountAuthenticator{PublicKey: publicKey, Signature: zeroSig}.serialize(s)
	s.Uleb128(0) // no secondary signer addresses
	s.Uleb128(0) // no secondary authenticators
	s.FixedBytes(txn.FeePayerAddress.Bytes())
	AccountAuthenticator{PublicKey: publicKey, Signature: zeroSig}.serialize(s)
	return s.Output(), nil
}
