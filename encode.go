package holdings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// MarshalJSON renders the position with its money values in the fixed
// context order (trade, base, portfolio).
func (p *Position) MarshalJSON() ([]byte, error) {
	var money jsonObjectWriter
	for _, ctx := range valueContexts {
		if mv, ok := p.Money(ctx); ok {
			money.Append(string(ctx), mv)
		}
	}

	var w jsonObjectWriter
	w.Append("asset", p.Asset)
	w.Append("quantityValues", p.QuantityValues)
	w.Append("dateValues", p.DateValues)
	if len(p.held) > 0 {
		w.Append("held", p.held)
	}
	w.Append("moneyValues", &money)
	return w.MarshalJSON()
}

// MarshalJSON renders the collection with positions and totals in sorted,
// deterministic order.
func (ps *Positions) MarshalJSON() ([]byte, error) {
	var positions jsonObjectWriter
	for _, key := range ps.Keys() {
		pos, _ := ps.Find(key)
		positions.Append(key, pos)
	}

	var totals jsonObjectWriter
	for _, ctx := range valueContexts {
		totals.Append(string(ctx), ps.Totals(ctx))
	}

	var w jsonObjectWriter
	w.Append("portfolio", ps.Portfolio)
	w.Optional("asAt", ps.AsAt)
	w.Append("mixedCurrencies", ps.IsMixedCurrencies())
	w.Append("positions", &positions)
	w.Append("totals", &totals)
	return w.MarshalJSON()
}

// EncodePositions writes the position snapshot as indented JSON.
func EncodePositions(w io.Writer, ps *Positions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ps)
}

// EncodeTrn appends one transaction as a single JSONL line.
func EncodeTrn(w io.Writer, trn *Trn) error {
	return json.NewEncoder(w).Encode(trn)
}

// DecodeTrns reads a JSONL transaction journal. Blank lines and lines
// starting with # are skipped. Transactions without an identifier get one
// assigned.
func DecodeTrns(r io.Reader) ([]*Trn, error) {
	var trns []*Trn
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		trn := new(Trn)
		if err := json.Unmarshal([]byte(text), trn); err != nil {
			return nil, fmt.Errorf("invalid transaction on line %d: %w", line, err)
		}
		if trn.ID == "" {
			trn.ID = uuid.NewString()
		}
		if err := trn.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction on line %d: %w", line, err)
		}
		trns = append(trns, trn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return trns, nil
}
