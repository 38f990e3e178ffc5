package cond

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"reflect"
	"time"
)

// FingerprintDomain prefixes every fingerprint hash. The version suffix
// changes whenever the token encoding does.
const FingerprintDomain = "condkit/tree/v1"

// Fingerprint returns a hex SHA-256 digest of the tree's token stream.
// Trees that are Equal and hold scalar, string or time values share a
// fingerprint; times are hashed as UTC instants. The tree is checked for
// cycles first.
func Fingerprint(node Connectable) (string, error) {
	tokens, err := Tokens(node)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(FingerprintDomain))
	h.Write([]byte{0x00})
	for _, t := range tokens {
		h.Write([]byte{byte(t.Kind)})
		switch t.Kind {
		case TokenNegate, TokenExpressionStart, TokenExpressionEnd:
		case TokenConjunction:
			writeField(h, fmt.Sprint(t.Value))
		case TokenAttribute:
			writeField(h, t.Value.(string))
		case TokenType:
			writeField(h, tokenTypeName(t.Value))
		case TokenOperator:
			writeField(h, t.Value.(Operator).String())
		case TokenValue:
			writeValue(h, t.Value)
		case TokenValues:
			values, _ := t.Value.([]any)
			writeLength(h, len(values))
			for _, v := range values {
				writeValue(h, v)
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// tokenTypeName qualifies the declared type with its package so that
// same-named types from different packages hash apart.
func tokenTypeName(v any) string {
	if typ, ok := v.(reflect.Type); ok && typ != nil {
		return typ.String()
	}
	return "<nil>"
}

func writeValue(h hash.Hash, v any) {
	switch val := v.(type) {
	case nil:
		writeField(h, "<nil>")
	case time.Time:
		writeField(h, "time.Time")
		writeField(h, val.UTC().Format(time.RFC3339Nano))
	default:
		writeField(h, fmt.Sprintf("%T", v))
		writeField(h, fmt.Sprintf("%#v", v))
	}
}

// writeField writes s length-prefixed so adjacent fields cannot run into
// each other.
func writeField(h hash.Hash, s string) {
	writeLength(h, len(s))
	h.Write([]byte(s))
}

func writeLength(h hash.Hash, n int) {
	var buf [binary.MaxVarintLen64]byte
	h.Write(buf[:binary.PutUvarint(buf[:], uint64(n))])
}
