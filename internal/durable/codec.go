package durable

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
)

// TxRecord is the durable, JSON-encoded form of one committed
// transaction's net effect: what Transact would need to replay it
// against an empty graph to rebuild the same state.
type TxRecord struct {
	Tx        int64            `json:"tx"`
	Asserted  [][3]encodedTerm `json:"asserted"`
	Retracted [][3]encodedTerm `json:"retracted"`
}

type encodedTerm struct {
	Kind string `json:"kind"`
	Data string `json:"data"`
}

// EncodeDiff serializes tx and diff (as produced by graph.Transact) into
// the bytes a Store record holds.
func EncodeDiff(tx int64, diff graph.Diff) ([]byte, error) {
	rec := TxRecord{Tx: tx}
	for _, a := range diff.Added {
		row, err := encodeTriple(a.Triple)
		if err != nil {
			return nil, err
		}
		rec.Asserted = append(rec.Asserted, row)
	}
	for _, r := range diff.Retracted {
		row, err := encodeTriple(r)
		if err != nil {
			return nil, err
		}
		rec.Retracted = append(rec.Retracted, row)
	}
	return json.Marshal(rec)
}

// DecodeDiff is EncodeDiff's inverse, returning the transaction number
// and the asserted/retracted triple lists to replay through
// graph.Transact.
func DecodeDiff(data []byte) (tx int64, asserted, retracted []ir.Triple, err error) {
	var rec TxRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, nil, nil, fmt.Errorf("%w: %v", ErrCorruptedTransactionFile, err)
	}
	asserted, err = decodeTriples(rec.Asserted)
	if err != nil {
		return 0, nil, nil, err
	}
	retracted, err = decodeTriples(rec.Retracted)
	if err != nil {
		return 0, nil, nil, err
	}
	return rec.Tx, asserted, retracted, nil
}

func decodeTriples(rows [][3]encodedTerm) ([]ir.Triple, error) {
	out := make([]ir.Triple, 0, len(rows))
	for _, row := range rows {
		t, err := decodeTriple(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func encodeTriple(t ir.Triple) ([3]encodedTerm, error) {
	var out [3]encodedTerm
	for i, v := range []ir.Value{t.S, t.P, t.O} {
		e, err := encodeValue(v)
		if err != nil {
			return out, fmt.Errorf("durable: encode triple[%d]: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func decodeTriple(row [3]encodedTerm) (ir.Triple, error) {
	vals := make([]ir.Value, 3)
	for i, e := range row {
		v, err := decodeValue(e)
		if err != nil {
			return ir.Triple{}, fmt.Errorf("durable: decode triple[%d]: %w", i, err)
		}
		vals[i] = v
	}
	return ir.Triple{S: vals[0], P: vals[1], O: vals[2]}, nil
}

func encodeValue(v ir.Value) (encodedTerm, error) {
	switch val := v.(type) {
	case ir.Node:
		return encodedTerm{Kind: "node", Data: val.String()}, nil
	case ir.Keyword:
		return encodedTerm{Kind: "keyword", Data: val.String()}, nil
	case ir.String:
		return encodedTerm{Kind: "string", Data: string(val)}, nil
	case ir.Int:
		return encodedTerm{Kind: "int", Data: strconv.FormatInt(int64(val), 10)}, nil
	case ir.Float:
		return encodedTerm{Kind: "float", Data: strconv.FormatFloat(float64(val), 'g', -1, 64)}, nil
	case ir.Bool:
		return encodedTerm{Kind: "bool", Data: strconv.FormatBool(bool(val))}, nil
	case ir.Time:
		return encodedTerm{Kind: "time", Data: strconv.FormatInt(int64(val), 10)}, nil
	case ir.Nil:
		return encodedTerm{Kind: "nil"}, nil
	default:
		return encodedTerm{}, fmt.Errorf("durable: unsupported value type %T", v)
	}
}

func decodeValue(e encodedTerm) (ir.Value, error) {
	switch e.Kind {
	case "node":
		return ir.ParseNode(e.Data)
	case "keyword":
		return ir.NewKeyword(e.Data), nil
	case "string":
		return ir.String(e.Data), nil
	case "int":
		n, err := strconv.ParseInt(e.Data, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: int %q: %v", ErrCorruptedTransactionFile, e.Data, err)
		}
		return ir.Int(n), nil
	case "float":
		f, err := strconv.ParseFloat(e.Data, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: float %q: %v", ErrCorruptedTransactionFile, e.Data, err)
		}
		return ir.Float(f), nil
	case "bool":
		b, err := strconv.ParseBool(e.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: bool %q: %v", ErrCorruptedTransactionFile, e.Data, err)
		}
		return ir.Bool(b), nil
	case "time":
		n, err := strconv.ParseInt(e.Data, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %v", ErrCorruptedTransactionFile, e.Data, err)
		}
		return ir.Time(n), nil
	case "nil":
		return ir.Nil{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown value kind %q", ErrCorruptedTransactionFile, e.Kind)
	}
}
